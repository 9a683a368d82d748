package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args and returns the remaining
// positional arguments (the client sub-command and its arguments).
//
// Flags:
//
//	-a                  server listen address host:port
//	-grpc-address       gRPC listen address host:port
//	-public-url         base URL used in blob links
//	-f                  blob storage directory
//	-d                  database DSN (Postgres URL or SQLite file)
//	-c / -config        JSON or YAML config file
//	-token-sign-key     token signing key
//	-token-issuer       token issuer
//	-token-duration     token lifetime, e.g. 24h
//	-request-timeout    request timeout for server and client, e.g. 30s
//	-hash-key           request body HMAC key
//	-server             server base URL used by the client
//	-sync-interval      client sync interval, e.g. 5m
//	-probe-url          connectivity probe URL
//	-log-file           client log file
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	var serverAddress, grpcServerAddress NetAddress
	var publicURL string
	var fileStoragePath string
	var databaseDSN string
	var configPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var hashKey string
	var serverURL string
	var syncInterval time.Duration
	var probeURL string
	var logFile string

	fs := flag.NewFlagSet("go-stock-keeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&publicURL, "public-url", "", "Public base URL for blob links")
	fs.StringVar(&fileStoragePath, "f", "", "Blob storage directory")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&hashKey, "hash-key", "", "Request body hash key")
	fs.StringVar(&serverURL, "server", "", "Server base URL")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Offline sync interval (e.g., 5m)")
	fs.StringVar(&probeURL, "probe-url", "", "Connectivity probe URL")
	fs.StringVar(&logFile, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			HashKey:       hashKey,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Files: Files{BinaryDataDir: fileStoragePath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			PublicURL:      publicURL,
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    serverURL,
			RequestTimeout: requestTimeout,
		},
		Workers:        Workers{SyncInterval: syncInterval},
		Connectivity:   Connectivity{ProbeURL: probeURL},
		Logging:        Logging{File: logFile},
		ConfigFilePath: configPath,
	}

	return cfg, fs.Args(), nil
}

// String returns the host:port form, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portString, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portString)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
