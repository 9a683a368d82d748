package config

import (
	"fmt"
	"strings"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey signs request bodies sent to the server. Empty disables signing.
	HashKey string
}

// ClientAdapter holds how the client reaches the server.
type ClientAdapter struct {
	// HTTPAddress is the server base URL.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local cache database settings.
type ClientDB struct {
	// DSN is the SQLite file holding the local cache.
	DSN string
}

// ClientStorage groups client storage settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background job settings.
type ClientWorkers struct {
	// SyncInterval is how often the offline queue is replayed.
	SyncInterval time.Duration
	// SubscriptionInterval is the polling period of live subscriptions.
	SubscriptionInterval time.Duration
}

// ClientConnectivity contains reachability probe settings.
type ClientConnectivity struct {
	ProbeURL string
	Timeout  time.Duration
}

// ClientConfig is the client view of [StructuredConfig].
type ClientConfig struct {
	App          ClientApp
	Adapter      ClientAdapter
	Storage      ClientStorage
	Workers      ClientWorkers
	Connectivity ClientConnectivity

	// LogFile is where the client writes its log.
	LogFile string

	// Args are the positional arguments left after flag parsing.
	Args []string
}

// GetClientConfig builds and validates the client configuration from args,
// the environment and the optional config file.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, rest, err := load(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg, rest)
	if err = clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}

func newClientConfig(cfg *StructuredConfig, rest []string) *ClientConfig {
	baseURL := strings.TrimRight(cfg.Adapter.HTTPAddress, "/")

	probeURL := cfg.Connectivity.ProbeURL
	if probeURL == "" && baseURL != "" {
		probeURL = baseURL + "/api/version/"
	}

	return &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    baseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			SyncInterval:         cfg.Workers.SyncInterval,
			SubscriptionInterval: cfg.Workers.SubscriptionInterval,
		},
		Connectivity: ClientConnectivity{
			ProbeURL: probeURL,
			Timeout:  cfg.Connectivity.Timeout,
		},
		LogFile: cfg.Logging.File,
		Args:    rest,
	}
}
