// Package http serves the stock-keeper REST API: account registration and
// login, per-user document collections with versioned writes and batches,
// photo blobs, and build information.
//
// Every request passes through trace-id, access-log and gzip middleware.
// Protected routes additionally require a bearer token, and write routes
// verify the optional HashSHA256 body signature.
package http
