package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-stock-keeper/models"
)

func (a *App) history(ctx context.Context, args []string) error {
	fs := a.newFlagSet("history")
	limit := fs.Int("limit", 0, "number of entries to show, 0 means the default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 0 {
		return fmt.Errorf("%w: -limit must not be negative", ErrInvalidArgument)
	}

	entries, err := a.services.InventoryService.GetItemHistory(ctx, *limit)
	if err != nil {
		return fmt.Errorf("error getting history: %w", err)
	}

	a.out.history(entries)
	return nil
}

func (a *App) stats(ctx context.Context, args []string) error {
	if err := a.newFlagSet("stats").Parse(args); err != nil {
		return err
	}

	stats, err := a.services.InventoryService.GetInventoryStats(ctx)
	if err != nil {
		return fmt.Errorf("error getting inventory stats: %w", err)
	}

	a.out.stats(stats)
	return nil
}

// settings shows the user settings, or saves them when -threshold is given.
func (a *App) settings(ctx context.Context, args []string) error {
	fs := a.newFlagSet("settings")
	threshold := fs.String("threshold", "", "global low-stock threshold, 0 disables alerts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	inv := a.services.InventoryService

	if *threshold != "" {
		raw := strings.TrimSpace(*threshold)
		if n, err := strconv.ParseInt(raw, 10, 64); err != nil || n < 0 {
			return fmt.Errorf("%w: threshold %q must be a non-negative integer", ErrInvalidArgument, raw)
		}

		settings, err := inv.GetUserSettings(ctx)
		if err != nil {
			return fmt.Errorf("error reading settings: %w", err)
		}
		if settings == nil {
			settings = &models.UserSettings{}
		}
		settings.GlobalLowStockThreshold = raw

		if err = inv.SaveUserSettings(ctx, *settings); err != nil {
			return fmt.Errorf("error saving settings: %w", err)
		}
		a.out.settings(settings)
		return nil
	}

	settings, err := inv.GetUserSettings(ctx)
	if err != nil {
		return fmt.Errorf("error reading settings: %w", err)
	}
	a.out.settings(settings)
	return nil
}

func (a *App) sync(ctx context.Context, _ []string) error {
	if err := a.services.InventoryService.SyncOfflineData(ctx); err != nil {
		return fmt.Errorf("error syncing offline data: %w", err)
	}
	a.out.success("sync finished")
	return nil
}

func (a *App) consolidate(ctx context.Context, _ []string) error {
	if err := a.services.InventoryService.ConsolidateInventoryItems(ctx); err != nil {
		return fmt.Errorf("error consolidating inventory: %w", err)
	}
	a.out.success("duplicates merged")
	return nil
}

func (a *App) version(_ context.Context, _ []string) error {
	a.out.build(a.build)
	return nil
}
