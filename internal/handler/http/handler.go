package http

import (
	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
)

// maxBlobSize bounds a single blob upload.
const maxBlobSize = 10 << 20

type Handler struct {
	services *service.Services

	// hashKey enables HashSHA256 body checks when non-empty.
	hashKey string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	if cfg.HashKey != "" {
		utils.InitHasherPool(cfg.HashKey)
	}

	logger.Info().Bool("integrity_checks", cfg.HashKey != "").Msg("http handler created")
	return &Handler{
		services: services,
		hashKey:  cfg.HashKey,
		logger:   logger,
	}
}
