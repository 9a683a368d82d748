package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/client"
	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/connectivity"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/internal/workers"
	"github.com/MKhiriev/go-stock-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("stock-keeper-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("stock-keeper-client", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating local storage")
	}
	defer storages.Close()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, cfg.Workers.SubscriptionInterval, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server adapter")
	}

	probe := connectivity.NewHTTPProbe(cfg.Connectivity, log)
	services := service.NewClientServices(storages, serverAdapter, probe, log)

	bg := workers.NewWorkers(
		workers.NewSyncWorker(services.InventoryService, cfg.Workers.SyncInterval, log),
	)

	app := client.NewApp(services, bg, build, os.Stdin, os.Stdout, log)
	if err = app.Run(ctx, cfg.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		storages.Close()
		os.Exit(1)
	}
}
