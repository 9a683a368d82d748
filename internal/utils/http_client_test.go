package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_UsesBaseURLAndTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 2*time.Second)
	require.NotNil(t, client.Client)
	assert.Equal(t, srv.URL, client.BaseURL)
	assert.Equal(t, 2*time.Second, client.GetClient().Timeout)

	resp, err := client.R().Get("/api/version/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestNewHTTPClient_Independence(t *testing.T) {
	a := NewHTTPClient("http://a", 0)
	b := NewHTTPClient("http://b", 0)

	assert.NotSame(t, a.Client, b.Client)
	assert.Zero(t, a.GetClient().Timeout)
}
