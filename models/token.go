package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer token issued after login.
//
// The subject claim carries the user id as a base-10 string.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	// SignedString is the compact header.payload.signature form sent in the
	// Authorization header and persisted by the client.
	SignedString string `json:"-"`

	// UserID caches the parsed subject.
	UserID int64 `json:"-"`
}

// GetUserID parses the subject claim as the user id.
func (t *Token) GetUserID() (int64, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
