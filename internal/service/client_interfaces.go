package service

import (
	"context"

	"github.com/MKhiriev/go-stock-keeper/internal/adapter"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// Unsubscribe stops a live item subscription. Calling it twice is safe.
type Unsubscribe = adapter.Unsubscribe

// IdentityProvider exposes the authenticated user.
type IdentityProvider interface {
	// CurrentUserID returns the id of the logged-in user, or false when
	// nobody is logged in.
	CurrentUserID() (int64, bool)
}

// SessionProvider is an IdentityProvider that also owns the listener
// registry of the current session.
type SessionProvider interface {
	IdentityProvider

	// Listeners returns the registry of the current session, or nil when
	// nobody is logged in.
	Listeners() *ListenerRegistry
}

// ClientAuthService manages the client session: it obtains a bearer token
// from the server, persists it in the local cache and hands it to the
// adapter.
type ClientAuthService interface {
	SessionProvider

	// Register creates an account and opens a session for it.
	Register(ctx context.Context, user models.User) (int64, error)

	// Login authenticates against the server and opens a session.
	Login(ctx context.Context, user models.User) (int64, error)

	// Restore reopens the session persisted by a previous Login. It returns
	// ErrNotAuthenticated when there is none or the token has expired.
	Restore(ctx context.Context) (int64, error)

	// Logout tears down every live subscription of the session before the
	// token is forgotten.
	Logout(ctx context.Context) error
}

// InventoryService is the offline-first inventory API used by the CLI.
//
// Remote failures degrade to the local cache and the sync queue; only
// ErrNotAuthenticated, ErrItemNotFound and ErrLocalStorage reach the caller.
type InventoryService interface {
	// GetInventoryItems streams consolidated item lists to onChange until the
	// returned Unsubscribe is called or the session ends.
	GetInventoryItems(ctx context.Context, onChange func([]models.InventoryItem)) (Unsubscribe, error)

	// AddInventoryItem stores item and returns its id, which is local when
	// the item could only be saved offline. photo is an optional inline image.
	AddInventoryItem(ctx context.Context, item models.InventoryItem, photo string) (models.ItemID, error)

	// GetInventoryItem returns one item with the quantity of all its
	// duplicates summed.
	GetInventoryItem(ctx context.Context, id models.ItemID) (models.InventoryItem, error)

	// UpdateInventoryItem applies patch. A non-empty photo replaces the
	// current image.
	UpdateInventoryItem(ctx context.Context, id models.ItemID, patch models.ItemPatch, photo string) error

	DeleteInventoryItem(ctx context.Context, id models.ItemID) error

	// GetItemHistory returns up to limit entries, newest first. limit <= 0
	// means DefaultHistoryLimit.
	GetItemHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error)

	// AddToHistory records entry. Failures are logged, never returned.
	AddToHistory(ctx context.Context, entry models.HistoryEntry)

	// GetInventoryStats computes stock statistics over the consolidated
	// inventory. The returned stats keep inline photos; the cached copy
	// does not.
	GetInventoryStats(ctx context.Context) (models.InventoryStats, error)

	SaveUserSettings(ctx context.Context, settings models.UserSettings) error

	// GetUserSettings returns nil when the user never saved settings.
	GetUserSettings(ctx context.Context) (*models.UserSettings, error)

	// SyncOfflineData promotes local-only items, replays the sync queue and
	// uploads pending photos. It does nothing while offline.
	SyncOfflineData(ctx context.Context) error

	// ConsolidateInventoryItems merges duplicate remote records in a single
	// batch. Requires connectivity.
	ConsolidateInventoryItems(ctx context.Context) error
}
