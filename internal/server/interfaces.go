package server

// Server owns the HTTP and gRPC listeners of the stock-keeper backend.
type Server interface {
	// RunServer serves until the process receives SIGTERM, SIGINT or
	// SIGQUIT, or until one of the transports fails. Both transports are
	// shut down before it returns.
	RunServer()

	// Shutdown drains in-flight requests on every transport.
	Shutdown()
}
