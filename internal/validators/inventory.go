package validators

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-stock-keeper/models"
)

// Field names understood by InventoryValidator.
const (
	// FieldName targets the item name, or the name an ItemPatch sets.
	FieldName = "name"

	// FieldThreshold targets a per-item or global low stock threshold.
	FieldThreshold = "threshold"

	// FieldTimestamps targets CreatedAt/UpdatedAt ordering.
	FieldTimestamps = "timestamps"

	// FieldAction targets the action of a history entry.
	FieldAction = "action"

	// FieldNotEmpty requires an ItemPatch to change at least one field.
	FieldNotEmpty = "not_empty"
)

// MaxNameLength is the maximum item name length in runes.
const MaxNameLength = 200

var allowedActions = []models.HistoryAction{
	models.HistoryAdd,
	models.HistoryEdit,
	models.HistoryRemove,
	models.HistoryImport,
	models.HistoryReset,
}

// InventoryValidator validates InventoryItem, ItemPatch, HistoryEntry and
// UserSettings.
type InventoryValidator struct {
}

// NewInventoryValidator constructs an InventoryValidator.
func NewInventoryValidator() Validator {
	return &InventoryValidator{}
}

func (v *InventoryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.InventoryItem:
		return v.validateItem(ctx, value, fields...)
	case *models.InventoryItem:
		return v.validateItem(ctx, *value, fields...)
	case models.ItemPatch:
		return v.validatePatch(ctx, value, fields...)
	case *models.ItemPatch:
		return v.validatePatch(ctx, *value, fields...)
	case models.HistoryEntry:
		return v.validateHistoryEntry(ctx, value, fields...)
	case *models.HistoryEntry:
		return v.validateHistoryEntry(ctx, *value, fields...)
	case models.UserSettings:
		return v.validateSettings(ctx, value, fields...)
	case *models.UserSettings:
		return v.validateSettings(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *InventoryValidator) validateItem(ctx context.Context, item models.InventoryItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldThreshold, FieldTimestamps}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := validateName(item.Name); err != nil {
				return err
			}
		case FieldThreshold:
			if item.LowStockThreshold != nil && *item.LowStockThreshold < 0 {
				return ErrInvalidThreshold
			}
		case FieldTimestamps:
			if !item.CreatedAt.IsZero() && !item.UpdatedAt.IsZero() && item.UpdatedAt.Before(item.CreatedAt) {
				return ErrInvalidTimestamps
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *InventoryValidator) validatePatch(ctx context.Context, patch models.ItemPatch, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldThreshold}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if patch.Name.State == models.FieldClear {
				return ErrEmptyName
			}
			if name, ok := patch.Name.Get(); ok {
				if err := validateName(name); err != nil {
					return err
				}
			}
		case FieldThreshold:
			if threshold, ok := patch.LowStockThreshold.Get(); ok && threshold < 0 {
				return ErrInvalidThreshold
			}
		case FieldNotEmpty:
			if patch.IsEmpty() {
				return ErrNoFieldsToUpdate
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *InventoryValidator) validateHistoryEntry(ctx context.Context, entry models.HistoryEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldAction}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(entry.Name) == "" {
				return ErrEmptyName
			}
		case FieldAction:
			if !isAllowedAction(entry.Action) {
				return ErrInvalidAction
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateSettings accepts an empty global threshold (default applies) or a
// non-negative integer.
func (v *InventoryValidator) validateSettings(ctx context.Context, settings models.UserSettings, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldThreshold}
	}

	for _, f := range fields {
		switch f {
		case FieldThreshold:
			raw := strings.TrimSpace(settings.GlobalLowStockThreshold)
			if raw == "" {
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n < 0 {
				return ErrInvalidThreshold
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func isAllowedAction(action models.HistoryAction) bool {
	for _, a := range allowedActions {
		if a == action {
			return true
		}
	}
	return false
}
