package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/familytree/internal/client/models"
)

// Client is the remote identity API. Returned user payloads are raw and
// unvalidated; run them through models.ParseUser.
type Client interface {
	FetchCurrentUser(ctx context.Context) (json.RawMessage, error)
	Login(ctx context.Context, creds models.Credentials) (*LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, form models.RegisterForm) (json.RawMessage, error)
	Close() error
}

// LoginResponse is a successful login reply. Body holds the whole response
// document so callers can read fields beyond the user record.
type LoginResponse struct {
	Status string          `json:"status"`
	User   json.RawMessage `json:"user"`
	Body   json.RawMessage `json:"-"`
}
