package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-stock-keeper/internal/logger"
)

func executeTraceID(t *testing.T, incoming string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
	if incoming != "" {
		req.Header.Set(traceIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rec, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return rec, entry
}

func TestWithTraceID_GeneratesID(t *testing.T) {
	rec, entry := executeTraceID(t, "")

	traceID := rec.Header().Get(traceIDHeader)
	_, err := uuid.Parse(traceID)
	require.NoError(t, err)
	assert.Equal(t, traceID, entry["trace_id"])
}

func TestWithTraceID_ReusesClientID(t *testing.T) {
	incoming := uuid.NewString()

	rec, entry := executeTraceID(t, incoming)

	assert.Equal(t, incoming, rec.Header().Get(traceIDHeader))
	assert.Equal(t, incoming, entry["trace_id"])
}

func TestWithTraceID_ReplacesMalformedID(t *testing.T) {
	rec, entry := executeTraceID(t, "not a uuid\nwith newline")

	traceID := rec.Header().Get(traceIDHeader)
	assert.NotEqual(t, "not a uuid\nwith newline", traceID)
	_, err := uuid.Parse(traceID)
	require.NoError(t, err)
	assert.Equal(t, traceID, entry["trace_id"])
}
