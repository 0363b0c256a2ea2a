// Package common contains constants shared by the client packages.
package common

const (
	// SessionCookieName is the cookie the identity server issues on login.
	SessionCookieName = "token"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// UserStorageKey is the metadata key holding the cached user payload.
	UserStorageKey = "user"

	// TokenStorageKey is the metadata key holding the session token.
	TokenStorageKey = "token"
)
