package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldState tells how a patch treats a single field.
type FieldState uint8

const (
	// FieldKeep leaves the field untouched.
	FieldKeep FieldState = iota
	// FieldSet overwrites the field with Field.Value.
	FieldSet
	// FieldClear removes the field.
	FieldClear
)

// Field is one optional field of a partial update: Keep, Set(value) or Clear.
// The zero value is Keep.
type Field[T any] struct {
	State FieldState
	Value T
}

// Keep returns a Field that leaves the value untouched.
func Keep[T any]() Field[T] {
	return Field[T]{}
}

// Set returns a Field that overwrites the value with v.
func Set[T any](v T) Field[T] {
	return Field[T]{State: FieldSet, Value: v}
}

// Clear returns a Field that removes the value.
func Clear[T any]() Field[T] {
	return Field[T]{State: FieldClear}
}

// IsZero reports Keep. Used by encoding/json omitzero.
func (f Field[T]) IsZero() bool {
	return f.State == FieldKeep
}

// Get returns the value when the field is Set.
func (f Field[T]) Get() (T, bool) {
	if f.State != FieldSet {
		var zero T
		return zero, false
	}
	return f.Value, true
}

type fieldJSON[T any] struct {
	Op    string `json:"op"`
	Value *T     `json:"value,omitempty"`
}

const (
	fieldOpSet   = "set"
	fieldOpClear = "clear"
)

// MarshalJSON encodes Set as {"op":"set","value":...} and Clear as {"op":"clear"}.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	switch f.State {
	case FieldSet:
		v := f.Value
		return json.Marshal(fieldJSON[T]{Op: fieldOpSet, Value: &v})
	case FieldClear:
		return json.Marshal(fieldJSON[T]{Op: fieldOpClear})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Field[T]{}
		return nil
	}

	var raw fieldJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Op {
	case fieldOpSet:
		if raw.Value == nil {
			return fmt.Errorf("%w: set without value", ErrInvalidPatch)
		}
		*f = Set(*raw.Value)
	case fieldOpClear:
		*f = Clear[T]()
	default:
		return fmt.Errorf("%w: unknown field operation %q", ErrInvalidPatch, raw.Op)
	}
	return nil
}

// ItemPatch is a partial update of an InventoryItem.
type ItemPatch struct {
	Name              Field[string]   `json:"name,omitzero"`
	Category          Field[string]   `json:"category,omitzero"`
	Quantity          Field[Quantity] `json:"quantity,omitzero"`
	LowStockThreshold Field[Quantity] `json:"lowStockThreshold,omitzero"`
	Description       Field[string]   `json:"description,omitzero"`
	Photo             Field[string]   `json:"photo,omitzero"`
	PhotoURL          Field[string]   `json:"photoUrl,omitzero"`
}

// IsEmpty reports whether the patch keeps every field.
func (p ItemPatch) IsEmpty() bool {
	return p.Name.IsZero() && p.Category.IsZero() && p.Quantity.IsZero() &&
		p.LowStockThreshold.IsZero() && p.Description.IsZero() &&
		p.Photo.IsZero() && p.PhotoURL.IsZero()
}

// TouchesQuantity reports whether the patch sets the quantity.
func (p ItemPatch) TouchesQuantity() bool {
	return p.Quantity.State != FieldKeep
}

// ChangesIdentity reports whether applying the patch to current moves it to
// another consolidation key. Names and categories compare case-insensitively
// and an empty category is distinct from "Uncategorized".
func (p ItemPatch) ChangesIdentity(current InventoryItem) bool {
	next := p.Apply(current)
	return !strings.EqualFold(next.Name, current.Name) || !strings.EqualFold(next.Category, current.Category)
}

// ChangesTracked reports whether applying the patch changes any field that is
// recorded in the edit history: name, category or quantity.
func (p ItemPatch) ChangesTracked(current InventoryItem) bool {
	next := p.Apply(current)
	return next.Name != current.Name || next.Category != current.Category || next.Quantity != current.Quantity
}

// Apply returns a copy of item with the patch applied.
func (p ItemPatch) Apply(item InventoryItem) InventoryItem {
	applyString(&item.Name, p.Name)
	applyString(&item.Category, p.Category)
	applyString(&item.Description, p.Description)
	applyString(&item.Photo, p.Photo)
	applyString(&item.PhotoURL, p.PhotoURL)

	switch p.Quantity.State {
	case FieldSet:
		item.Quantity = p.Quantity.Value
	case FieldClear:
		item.Quantity = 0
	}

	switch p.LowStockThreshold.State {
	case FieldSet:
		t := p.LowStockThreshold.Value
		item.LowStockThreshold = &t
	case FieldClear:
		item.LowStockThreshold = nil
	}

	return item
}

func applyString(dst *string, f Field[string]) {
	switch f.State {
	case FieldSet:
		*dst = f.Value
	case FieldClear:
		*dst = ""
	}
}

// DocumentPatch converts the patch into a document-level partial update.
// Field names match the JSON names of InventoryItem.
func (p ItemPatch) DocumentPatch() DocumentPatch {
	patch := DocumentPatch{Set: map[string]any{}}

	addString := func(name string, f Field[string]) {
		switch f.State {
		case FieldSet:
			patch.Set[name] = f.Value
		case FieldClear:
			patch.Unset = append(patch.Unset, name)
		}
	}
	addQuantity := func(name string, f Field[Quantity]) {
		switch f.State {
		case FieldSet:
			patch.Set[name] = f.Value.String()
		case FieldClear:
			patch.Unset = append(patch.Unset, name)
		}
	}

	addString("name", p.Name)
	addString("category", p.Category)
	addQuantity("quantity", p.Quantity)
	addQuantity("lowStockThreshold", p.LowStockThreshold)
	addString("description", p.Description)
	addString("photo", p.Photo)
	addString("photoUrl", p.PhotoURL)

	return patch
}
