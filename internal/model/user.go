package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the server: the json tag on
// PasswordHash excludes it from every serialized response.
//
// Fields:
//
//	ID           – UUID primary key.
//	Email        – unique email address, stored lowercased.
//	PasswordHash – bcrypt hash of the password.
//	Name         – optional display name (empty when not provided).
//	CreatedAt    – timestamp of creation (UTC).
//	UpdatedAt    – timestamp of last update (UTC).
type User struct {
	ID           string    `json:"id"`        // users.id
	Email        string    `json:"email"`     // users.email
	PasswordHash string    `json:"-"`         // users.password_hash, never serialized
	Name         string    `json:"name"`      // users.name
	CreatedAt    time.Time `json:"createdAt"` // users.created_at
	UpdatedAt    time.Time `json:"updatedAt"` // users.updated_at
}
