// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// localIDDisplayPrefix is used only when an ItemID is rendered for humans
// (CLI output) and parsed back from their input. Storage never relies on it.
const localIDDisplayPrefix = "local:"

// ItemID identifies an inventory item either by its remote document id or by
// a client-generated id for records that exist only in the local cache.
//
// The zero value means "not persisted yet".
type ItemID struct {
	// Value is the raw identifier: a document id for remote records,
	// a client-generated token for local-only records.
	Value string `json:"value"`

	// Local is true for records that have no remote counterpart yet.
	Local bool `json:"local,omitempty"`
}

// RemoteID wraps a remote document id.
func RemoteID(id string) ItemID {
	return ItemID{Value: id}
}

// NewLocalID generates a fresh local-only id. The millisecond timestamp keeps
// ids roughly ordered; the uuid suffix keeps them unique within a millisecond.
func NewLocalID(now time.Time) ItemID {
	return ItemID{
		Value: fmt.Sprintf("%d-%s", now.UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0]),
		Local: true,
	}
}

// ParseItemID parses the display form produced by String.
func ParseItemID(s string) ItemID {
	if rest, ok := strings.CutPrefix(s, localIDDisplayPrefix); ok {
		return ItemID{Value: rest, Local: true}
	}
	return RemoteID(s)
}

// IsZero reports whether the id is unset.
func (id ItemID) IsZero() bool {
	return id.Value == ""
}

// IsLocal reports whether the id refers to a local-only record.
func (id ItemID) IsLocal() bool {
	return id.Local && id.Value != ""
}

// String returns the display form of the id.
func (id ItemID) String() string {
	if id.Local {
		return localIDDisplayPrefix + id.Value
	}
	return id.Value
}
