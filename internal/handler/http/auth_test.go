// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-stock-keeper/internal/app"
	"github.com/MKhiriev/go-stock-keeper/internal/service"
	"github.com/MKhiriev/go-stock-keeper/internal/store"
	"github.com/MKhiriev/go-stock-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func newHandlerWithAuth(t *testing.T, auth service.AuthService) *Handler {
	t.Helper()
	return newTestHandler(t, &service.Services{AuthService: auth})
}

func userBody(t *testing.T, u models.User) string {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	return string(b)
}

var validUser = models.User{Login: "alice", Password: "secret"}

func issueToken(signed string) func(context.Context, models.User) (models.Token, error) {
	return func(_ context.Context, _ models.User) (models.Token, error) {
		return models.Token{SignedString: signed}, nil
	}
}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, validUser.Login, u.Login)
			u.UserID = 7
			return u, nil
		},
		createTokenFn: func(_ context.Context, u models.User) (models.Token, error) {
			assert.Equal(t, int64(7), u.UserID)
			return models.Token{SignedString: "signed.jwt.token"}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()

	h.register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed.jwt.token", rec.Header().Get("Authorization"))
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "malformed JSON",
			body:       "{invalid json}",
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidDataProvided,
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidDataProvided,
		},
		{
			name:       "missing credentials",
			body:       userBody(t, validUser),
			err:        service.ErrInvalidDataProvided,
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidDataProvided,
		},
		{
			name:       "login taken",
			body:       userBody(t, validUser),
			err:        fmt.Errorf("%w: %w", store.ErrExecutingQuery, store.ErrLoginAlreadyExists),
			wantStatus: http.StatusConflict,
			wantBody:   app.MsgLoginAlreadyExists,
		},
		{
			name:       "unexpected error",
			body:       userBody(t, validUser),
			err:        errors.New("db connection lost"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   app.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				registerUserFn: func(_ context.Context, _ models.User) (models.User, error) {
					return models.User{}, tt.err
				},
			}

			h := newHandlerWithAuth(t, auth)
			req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}

func TestRegister_CreateTokenFails(t *testing.T) {
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, u models.User) (models.User, error) {
			return u, nil
		},
		createTokenFn: func(_ context.Context, _ models.User) (models.Token, error) {
			return models.Token{}, service.ErrTokenCreationFailed
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()

	h.register(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Authorization"))
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, u models.User) (models.User, error) {
			u.UserID = 3
			return u, nil
		},
		createTokenFn: issueToken("login.jwt.token"),
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer login.jwt.token", rec.Header().Get("Authorization"))
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid data", service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
		{"unknown user", store.ErrNoUserWasFound, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
		{"storage down", fmt.Errorf("%w: %w", store.ErrExecutingQuery, store.ErrTemporarilyUnavailable), http.StatusServiceUnavailable, app.MsgStorageUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, app.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				loginFn: func(_ context.Context, _ models.User) (models.User, error) {
					return models.User{}, tt.err
				},
			}

			h := newHandlerWithAuth(t, auth)
			req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(userBody(t, validUser)))
			rec := httptest.NewRecorder()

			h.login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader("{bad json"))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
