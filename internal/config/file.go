package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors StructuredConfig for JSON and YAML files.
type fileConfig struct {
	App struct {
		TokenSignKey     string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration    Duration `json:"token_duration" yaml:"token_duration"`
		PasswordHashCost int      `json:"password_hash_cost" yaml:"password_hash_cost"`
		HashKey          string   `json:"hash_key" yaml:"hash_key"`
		Version          string   `json:"version" yaml:"version"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`

		Files struct {
			BinaryDataDir string `json:"binary_data_dir" yaml:"binary_data_dir"`
		} `json:"files" yaml:"files"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" yaml:"grpc_address"`
		PublicURL      string   `json:"public_url" yaml:"public_url"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		SyncInterval         Duration `json:"sync_interval" yaml:"sync_interval"`
		SubscriptionInterval Duration `json:"subscription_interval" yaml:"subscription_interval"`
	} `json:"workers" yaml:"workers"`

	Connectivity struct {
		ProbeURL string   `json:"probe_url" yaml:"probe_url"`
		Timeout  Duration `json:"timeout" yaml:"timeout"`
	} `json:"connectivity" yaml:"connectivity"`

	Logging struct {
		File string `json:"file" yaml:"file"`
	} `json:"logging" yaml:"logging"`
}

// parseFile reads a JSON config, or a YAML config when the path ends in
// .yaml or .yml. Unknown fields are rejected in both formats.
func parseFile(path string) (*StructuredConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.toStructured(), nil
}

func (fc fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:     fc.App.TokenSignKey,
			TokenIssuer:      fc.App.TokenIssuer,
			TokenDuration:    time.Duration(fc.App.TokenDuration),
			PasswordHashCost: fc.App.PasswordHashCost,
			HashKey:          fc.App.HashKey,
			Version:          fc.App.Version,
		},
		Storage: Storage{
			DB:    DB{DSN: fc.Storage.DB.DSN},
			Files: Files{BinaryDataDir: fc.Storage.Files.BinaryDataDir},
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			GRPCAddress:    fc.Server.GRPCAddress,
			PublicURL:      fc.Server.PublicURL,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval:         time.Duration(fc.Workers.SyncInterval),
			SubscriptionInterval: time.Duration(fc.Workers.SubscriptionInterval),
		},
		Connectivity: Connectivity{
			ProbeURL: fc.Connectivity.ProbeURL,
			Timeout:  time.Duration(fc.Connectivity.Timeout),
		},
		Logging: Logging{File: fc.Logging.File},
	}
}

// Duration accepts "1h30m"-style strings or integer nanoseconds in JSON and YAML.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(time.Duration(n))
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
