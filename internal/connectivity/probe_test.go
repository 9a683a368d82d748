package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-stock-keeper/internal/config"
	"github.com/MKhiriev/go-stock-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestHTTPProbe_IsOnline(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name:    "ok",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			want:    true,
		},
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    false,
		},
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			want:    false,
		},
		{
			name: "slower than timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			probe := NewHTTPProbe(config.ClientConnectivity{ProbeURL: srv.URL, Timeout: 50 * time.Millisecond}, logger.Nop())
			assert.Equal(t, tt.want, probe.IsOnline(context.Background()))
		})
	}
}

func TestHTTPProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	probe := NewHTTPProbe(config.ClientConnectivity{ProbeURL: url}, logger.Nop())
	assert.False(t, probe.IsOnline(context.Background()))
}

func TestHTTPProbe_EmptyURL(t *testing.T) {
	probe := NewHTTPProbe(config.ClientConnectivity{}, logger.Nop())
	assert.False(t, probe.IsOnline(context.Background()))
}

func TestStatic(t *testing.T) {
	assert.True(t, Static(true).IsOnline(context.Background()))
	assert.False(t, Static(false).IsOnline(context.Background()))
}
