// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the merged configuration shared by both binaries.
// Each binary reads the sections it needs.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token, hashing and version settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database and blob directory settings.
	// The server reads a Postgres DSN, the client a SQLite file path.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listener addresses and timeouts.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds how the client reaches the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds client background job intervals.
	Workers Workers `envPrefix:"WORKERS_"`

	// Connectivity holds the client reachability probe settings.
	Connectivity Connectivity `envPrefix:"CONNECTIVITY_"`

	// Logging holds log output settings.
	Logging Logging `envPrefix:"LOGGING_"`

	// ConfigFilePath points to an optional JSON or YAML file.
	// Env: CONFIG, flags: -c / -config.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level security and versioning settings.
type App struct {
	// TokenSignKey signs and verifies bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of issued tokens.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordHashCost is the bcrypt cost used for stored passwords.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// HashKey signs request bodies (HashSHA256 header). Empty disables
	// the integrity check.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is reported by /api/version/.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups persistence settings.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Files Files `envPrefix:"FILES_"`
}

// DB holds a database connection string.
type DB struct {
	// DSN is a Postgres URL on the server and a SQLite file path on the client.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds the blob storage directory.
type Files struct {
	// BinaryDataDir is where uploaded photos are stored.
	// Env: STORAGE_FILES_BINARY_DATA_DIR
	BinaryDataDir string `env:"BINARY_DATA_DIR"`
}

// Server holds inbound transport settings.
type Server struct {
	// HTTPAddress is the HTTP listen address, host:port.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the gRPC (health) listen address, host:port.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// PublicURL prefixes blob URLs handed to clients.
	// Defaults to http://<HTTPAddress>.
	// Env: SERVER_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds outbound client transport settings.
type Adapter struct {
	// HTTPAddress is the server base URL, e.g. http://localhost:8080.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds client background job settings.
type Workers struct {
	// SyncInterval is how often the sync worker replays the offline queue.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// SubscriptionInterval is the polling period of live item subscriptions.
	// Env: WORKERS_SUBSCRIPTION_INTERVAL
	SubscriptionInterval time.Duration `env:"SUBSCRIPTION_INTERVAL"`
}

// Connectivity holds the reachability probe settings.
type Connectivity struct {
	// ProbeURL is requested to decide between online and offline.
	// Defaults to <Adapter.HTTPAddress>/api/version/.
	// Env: CONNECTIVITY_PROBE_URL
	ProbeURL string `env:"PROBE_URL"`

	// Timeout bounds the probe request.
	// Env: CONNECTIVITY_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Logging holds log output settings.
type Logging struct {
	// File is where the client writes its log.
	// Env: LOGGING_FILE
	File string `env:"FILE"`
}

// Defaults applied after all other sources.
const (
	DefaultHTTPAddress          = "localhost:8080"
	DefaultGRPCAddress          = "localhost:9090"
	DefaultRequestTimeout       = 30 * time.Second
	DefaultTokenIssuer          = "go-stock-keeper"
	DefaultTokenDuration        = 24 * time.Hour
	DefaultPasswordHashCost     = 10
	DefaultSyncInterval         = 5 * time.Minute
	DefaultSubscriptionInterval = 5 * time.Second
	DefaultProbeTimeout         = 5 * time.Second
	DefaultBinaryDataDir        = "./data/blobs"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:      DefaultTokenIssuer,
			TokenDuration:    DefaultTokenDuration,
			PasswordHashCost: DefaultPasswordHashCost,
		},
		Storage: Storage{
			Files: Files{BinaryDataDir: DefaultBinaryDataDir},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			GRPCAddress:    DefaultGRPCAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://" + DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			SyncInterval:         DefaultSyncInterval,
			SubscriptionInterval: DefaultSubscriptionInterval,
		},
		Connectivity: Connectivity{
			Timeout: DefaultProbeTimeout,
		},
	}
}

// GetServerConfig loads the configuration from args, the environment and the
// config file, and validates the server sections.
func GetServerConfig(args []string) (*StructuredConfig, error) {
	cfg, _, err := load(args)
	if err != nil {
		return nil, err
	}

	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "http://" + cfg.Server.HTTPAddress
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func load(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withFlags(args).
		withEnv()

	return b.withFile().
		withDefaults().
		build()
}
