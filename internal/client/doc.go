// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the stock-keeper command line client.
//
// Every invocation runs one subcommand against the offline-first client
// services. Commands that need a session restore it from the local cache
// and run the background sync worker for as long as they execute.
package client
