package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/utils"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeAuth(t *testing.T, h *Handler, authHeader string) (*httptest.ResponseRecorder, *int64) {
	t.Helper()

	var seen *int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		require.True(t, ok)
		seen = &userID
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/documents/inventory/doc-1", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	return rec, seen
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "bearer token", header: "Bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "scheme is case-insensitive", header: "bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "empty header", header: "", wantErr: ErrEmptyAuthorizationHeader},
		{name: "scheme only", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthorizationHeader},
		{name: "blank token", header: "Bearer   ", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestAuth_ValidTokenSetsUserID(t *testing.T) {
	h := newTestHandler(t, &service.Services{})

	rec, seen := executeAuth(t, h, "Bearer "+testToken)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, testUserID, *seen)
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		parseErr error
		wantBody string
	}{
		{"no header", "", nil, app.MsgTokenIsExpiredOrInvalid},
		{"malformed header", "Token abc", nil, app.MsgTokenIsExpiredOrInvalid},
		{"expired token", "Bearer old", service.ErrTokenIsExpired, app.MsgTokenIsExpired},
		{"forged token", "Bearer forged", errors.Join(service.ErrTokenIsExpiredOrInvalid, errors.New("signature is invalid")), app.MsgTokenIsExpiredOrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
					return models.Token{}, tt.parseErr
				},
			}
			h := newTestHandler(t, &service.Services{AuthService: auth})

			rec, seen := executeAuth(t, h, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			assert.Nil(t, seen, "next handler must not run")
		})
	}
}
