// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoTransport is returned by NewServer when the configuration enables
// neither the HTTP nor the gRPC listener.
var errNoTransport = errors.New("neither HTTP nor gRPC address is configured")
