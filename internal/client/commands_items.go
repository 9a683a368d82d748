package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-stock-keeper/internal/imaging"
	"github.com/MKhiriev/go-stock-keeper/models"
)

// list prints the first snapshot of the live subscription and leaves.
func (a *App) list(ctx context.Context, args []string) error {
	if err := a.newFlagSet("list").Parse(args); err != nil {
		return err
	}

	snapshots := make(chan []models.InventoryItem, 1)
	unsubscribe, err := a.services.InventoryService.GetInventoryItems(ctx, func(items []models.InventoryItem) {
		select {
		case snapshots <- items:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("error subscribing to inventory: %w", err)
	}
	defer unsubscribe()

	select {
	case items := <-snapshots:
		a.out.items("Inventory", items, a.globalThreshold(ctx))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// watch runs the live inventory view until the user quits or ctx is
// cancelled.
func (a *App) watch(ctx context.Context, args []string) error {
	if err := a.newFlagSet("watch").Parse(args); err != nil {
		return err
	}

	snapshots := make(chan []models.InventoryItem, 8)
	unsubscribe, err := a.services.InventoryService.GetInventoryItems(ctx, func(items []models.InventoryItem) {
		select {
		case snapshots <- items:
		default:
			a.logger.Debug().Str("func", "App.watch").Msg("snapshot dropped, view is behind")
		}
	})
	if err != nil {
		return fmt.Errorf("error subscribing to inventory: %w", err)
	}
	defer unsubscribe()

	model := newWatchModel(ctx, snapshots, a.services.InventoryService.SyncOfflineData, a.globalThreshold(ctx), a.out.styles)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.out.w),
	)
	if _, err = program.Run(); err != nil {
		if (ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled)) || errors.Is(err, tea.ErrInterrupted) {
			return nil
		}
		return fmt.Errorf("error running inventory view: %w", err)
	}
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	id, err := parseWithID(a.newFlagSet("get"), args)
	if err != nil {
		return err
	}

	item, err := a.services.InventoryService.GetInventoryItem(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting item %s: %w", id, err)
	}

	a.out.item(item)
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	name := fs.String("name", "", "item name")
	category := fs.String("category", "", "item category")
	quantity := fs.String("quantity", "0", "quantity on hand")
	threshold := fs.String("threshold", "", "per-item low-stock threshold")
	description := fs.String("description", "", "free-form description")
	photoPath := fs.String("photo", "", "path to a JPEG or PNG photo")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" && fs.NArg() > 0 {
		*name = fs.Arg(0)
	}
	if *name == "" {
		return fmt.Errorf("%w: -name", ErrMissingArgument)
	}

	item := models.InventoryItem{
		Name:        *name,
		Category:    *category,
		Quantity:    models.ParseQuantity(*quantity),
		Description: *description,
	}
	if *threshold != "" {
		q := models.ParseQuantity(*threshold)
		item.LowStockThreshold = &q
	}

	photo, err := readPhoto(*photoPath)
	if err != nil {
		return err
	}

	id, err := a.services.InventoryService.AddInventoryItem(ctx, item, photo)
	if err != nil {
		return fmt.Errorf("error adding item %q: %w", item.Name, err)
	}

	if id.IsLocal() {
		a.out.success("saved %s offline as %s, it will sync when the server is reachable", item.Name, id)
		return nil
	}
	a.out.success("added %s as %s", item.Name, id)
	return nil
}

func (a *App) update(ctx context.Context, args []string) error {
	fs := a.newFlagSet("update")
	name := fs.String("name", "", "new item name")
	category := fs.String("category", "", "new category")
	quantity := fs.String("quantity", "", "new quantity")
	threshold := fs.String("threshold", "", "new per-item low-stock threshold")
	clearThreshold := fs.Bool("clear-threshold", false, "remove the per-item threshold")
	description := fs.String("description", "", "new description")
	photoPath := fs.String("photo", "", "path to a replacement photo")
	clearPhoto := fs.Bool("clear-photo", false, "remove the photo")

	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	if visited["threshold"] && *clearThreshold {
		return fmt.Errorf("%w: -threshold and -clear-threshold are exclusive", ErrInvalidArgument)
	}
	if visited["photo"] && *clearPhoto {
		return fmt.Errorf("%w: -photo and -clear-photo are exclusive", ErrInvalidArgument)
	}

	var patch models.ItemPatch
	if visited["name"] {
		patch.Name = models.Set(*name)
	}
	if visited["category"] {
		patch.Category = models.Set(*category)
	}
	if visited["quantity"] {
		patch.Quantity = models.Set(models.ParseQuantity(*quantity))
	}
	if visited["threshold"] {
		patch.LowStockThreshold = models.Set(models.ParseQuantity(*threshold))
	}
	if *clearThreshold {
		patch.LowStockThreshold = models.Clear[models.Quantity]()
	}
	if visited["description"] {
		patch.Description = models.Set(*description)
	}
	if *clearPhoto {
		patch.Photo = models.Clear[string]()
		patch.PhotoURL = models.Clear[string]()
	}

	photo, err := readPhoto(*photoPath)
	if err != nil {
		return err
	}

	if patch.IsEmpty() && photo == "" {
		return fmt.Errorf("%w: nothing to update", ErrMissingArgument)
	}

	if err = a.services.InventoryService.UpdateInventoryItem(ctx, id, patch, photo); err != nil {
		return fmt.Errorf("error updating item %s: %w", id, err)
	}

	a.out.success("updated %s", id)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := parseWithID(a.newFlagSet("delete"), args)
	if err != nil {
		return err
	}

	if err = a.services.InventoryService.DeleteInventoryItem(ctx, id); err != nil {
		return fmt.Errorf("error deleting item %s: %w", id, err)
	}

	a.out.success("deleted %s", id)
	return nil
}

func (a *App) globalThreshold(ctx context.Context) int64 {
	settings, err := a.services.InventoryService.GetUserSettings(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Str("func", "App.globalThreshold").Msg("falling back to default threshold")
		return models.DefaultLowStockThreshold
	}
	return models.EffectiveGlobalThreshold(settings)
}

// readPhoto returns the file at path as an inline data URI, or "" for an
// empty path.
func readPhoto(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading photo %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: photo %s is empty", ErrInvalidArgument, path)
	}
	return imaging.EncodeInline(data), nil
}
