// Package server runs the stock-keeper backend: the REST document and blob
// API over HTTP and the gRPC health service. A failure of either listener
// stops both.
package server
