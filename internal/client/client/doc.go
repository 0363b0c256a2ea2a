// Package client talks to the family-tree identity API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with the
//     operations the session core depends on: FetchCurrentUser, Login,
//     Logout, plus Register.
//  2. An HTTP/JSON implementation (see HTTPClient) that carries the server's
//     session cookie in a cookie jar, persists it through a
//     session.TokenStore between runs, and maps HTTP outcomes to sentinel
//     errors.
//  3. Local database bootstrap (InitDatabase, RunMigrations) wiring SQLite
//     and the embedded goose migrations.
//
// # Error Handling
//
// Callers match outcomes with errors.Is: ErrUnauthorized (no valid server
// session), ErrInvalidCredentials (login rejected), ErrUnavailable
// (transport failure, timeout or a transient 5xx), ErrConflict and
// ErrUnexpectedResponse. Local form validation failures are
// models.ErrValidation and are returned before any request is sent.
//
// All operations accept a context.Context and honor cancellation.
package client
