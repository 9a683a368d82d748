package service

import (
	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/models"
)

type Services struct {
	AuthService     AuthService
	DocumentService DocumentService
	BlobService     BlobService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	documents := NewDocumentValidationService().Wrap(NewDocumentService(storages.DocumentRepository, logger))

	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, cfg.App, logger),
		DocumentService: documents,
		BlobService:     NewBlobService(storages.BlobStorage, cfg.Server, logger),
		AppInfoService:  appInfo,
	}, nil
}
