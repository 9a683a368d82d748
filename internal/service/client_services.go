package service

import (
	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/internal/connectivity"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
)

// ClientServices groups the services used by the CLI. InventoryService
// reads the session of AuthService.
type ClientServices struct {
	AuthService      ClientAuthService
	InventoryService InventoryService
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, probe connectivity.Probe, logger *logger.Logger) *ClientServices {
	authSvc := NewClientAuthService(serverAdapter, storages.Cache, logger)
	inventorySvc := NewInventoryService(serverAdapter, serverAdapter.Blobs(), storages.Cache, probe, authSvc, logger)

	return &ClientServices{
		AuthService:      authSvc,
		InventoryService: inventorySvc,
	}
}
