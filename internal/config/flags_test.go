package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, rest, err := ParseFlags([]string{
		"-a", "localhost:8080",
		"-grpc-address", "127.0.0.1:9090",
		"-public-url", "https://stock.example",
		"-f", "/var/blobs",
		"-d", "postgres://db",
		"-config", "cfg.json",
		"-token-sign-key", "sign",
		"-token-issuer", "iss",
		"-token-duration", "2h",
		"-request-timeout", "15s",
		"-hash-key", "hk",
		"-server", "http://localhost:8080",
		"-sync-interval", "1m",
		"-probe-url", "http://probe",
		"-log-file", "client.log",
		"add", "-name", "Milk",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.GRPCAddress)
	assert.Equal(t, "https://stock.example", cfg.Server.PublicURL)
	assert.Equal(t, "/var/blobs", cfg.Storage.Files.BinaryDataDir)
	assert.Equal(t, "postgres://db", cfg.Storage.DB.DSN)
	assert.Equal(t, "cfg.json", cfg.ConfigFilePath)
	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, "iss", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "hk", cfg.App.HashKey)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, "http://probe", cfg.Connectivity.ProbeURL)
	assert.Equal(t, "client.log", cfg.Logging.File)

	// arguments after the first positional one belong to the sub-command
	assert.Equal(t, []string{"add", "-name", "Milk"}, rest)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, _, err := ParseFlags([]string{"-definitely-not-a-flag"})
	assert.Error(t, err)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8080", want: "localhost:8080"},
		{in: "127.0.0.1:1", want: "127.0.0.1:1"},
		{in: ":9090", want: ":9090"},
		{in: "localhost", wantErr: true},
		{in: "localhost:0", wantErr: true},
		{in: "localhost:70000", wantErr: true},
		{in: "example.com:80", wantErr: true},
		{in: "localhost:http", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestNetAddress_StringEmpty(t *testing.T) {
	var a NetAddress
	assert.Empty(t, a.String())
}
