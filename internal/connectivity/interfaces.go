// Package connectivity decides whether the remote store is worth calling.
//
// The answer is a heuristic: a remote call made right after IsOnline returned
// true can still fail, so callers keep their own local fallbacks.
package connectivity

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/connectivity_mock.go -package=mock

// Probe reports network reachability.
type Probe interface {
	// IsOnline performs one reachability check. It never retries.
	IsOnline(ctx context.Context) bool
}
