package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer  = "stock-keeper"
	testSignKey = "sign-key"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken(testIssuer, 123, time.Hour, testSignKey)
	require.NoError(t, err)

	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, int64(123), token.UserID)

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, "123", claims.Subject)
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", time.Hour, "key"},
		{"zero duration", "iss", 0, "key"},
		{"empty key", "iss", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, 1, tt.duration, tt.key)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseJWTToken(t *testing.T) {
	valid, err := GenerateJWTToken(testIssuer, 456, 5*time.Minute, testSignKey)
	require.NoError(t, err)
	expired, err := GenerateJWTToken(testIssuer, 1, -time.Second, testSignKey)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		parsed, err := ValidateAndParseJWTToken(valid.SignedString, testSignKey, testIssuer)
		require.NoError(t, err)
		assert.Equal(t, int64(456), parsed.UserID)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken(valid.SignedString, "other-key", testIssuer)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken(valid.SignedString, testSignKey, "someone-else")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken(expired.SignedString, testSignKey, testIssuer)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ValidateAndParseJWTToken("not.a.token", testSignKey, testIssuer)
		assert.Error(t, err)
	})
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "  Bearer   abc  ", want: "abc"},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUserIDFromJWT(t *testing.T) {
	token, err := GenerateJWTToken(testIssuer, 77, time.Hour, testSignKey)
	require.NoError(t, err)

	userID, err := ParseUserIDFromJWT(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(77), userID)

	_, err = ParseUserIDFromJWT("garbage")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	fresh, err := GenerateJWTToken(testIssuer, 1, time.Hour, testSignKey)
	require.NoError(t, err)
	stale, err := GenerateJWTToken(testIssuer, 1, -time.Minute, testSignKey)
	require.NoError(t, err)

	assert.False(t, TokenExpired(fresh.SignedString, now))
	assert.True(t, TokenExpired(stale.SignedString, now))
	assert.True(t, TokenExpired("garbage", now))
}
