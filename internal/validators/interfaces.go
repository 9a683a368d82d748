// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks inputs before they reach storage.
//
// Two validators are provided: DocumentValidator guards the generic document
// API of the server, InventoryValidator guards inventory items, patches,
// history entries and settings on the client.
//
// Both accept an optional list of field names that restricts validation to a
// subset of the rules; without it a sensible default set is checked.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
