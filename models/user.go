package models

import "time"

// User represents an account entity used for authentication and authorization.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It travels to clients only as the subject of the issued token.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Name is the display name of the user.
	Name string `json:"name,omitempty"`

	// Password is the plain-text password received from the client.
	// It is never persisted; see PasswordHash.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash stored by the server.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
