// Package auth contains authentication and authorization logic: user
// registration, login, bearer token issuance and verification, and the
// request middleware that gates or enriches routes with a caller identity.
package auth

import "time"

// User represents a registered user as stored in the database.
// The hashed password is never serialized into API responses.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the resolved caller attached to a request context once a bearer
// token has been verified and its user confirmed to still exist.
type Identity struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}
