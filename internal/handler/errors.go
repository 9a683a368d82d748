// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoTransportHandlers is returned by NewHandlers when the server
// configuration has no HTTP and no gRPC address.
var errNoTransportHandlers = errors.New("no transport handlers configured")
