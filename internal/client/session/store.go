// Package session persists the client's session between runs: the cached
// user record and the session token issued by the identity server.
//
// Both slots live in the local metadata table. The store never validates
// what it holds; callers validate on the way in and again on the way out.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/familytree/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/familytree/internal/common"
)

// ErrPersistence wraps every failure of the underlying storage.
var ErrPersistence = errors.New("session persistence failed")

// Store is the single-slot cache for the current user's raw payload.
type Store interface {
	// Save overwrites the stored record.
	Save(ctx context.Context, raw []byte) error
	// Load returns the stored record and true, or false if nothing is stored.
	Load(ctx context.Context) ([]byte, bool, error)
	// Remove deletes the record; removing an absent record is a no-op.
	Remove(ctx context.Context) error
}

// TokenStore keeps the session token across process restarts.
type TokenStore interface {
	// Token returns the stored token or "" when there is none.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// SQLiteStore implements Store and TokenStore on the metadata table.
type SQLiteStore struct {
	repo metadata.Repository
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{repo: metadata.NewSQLiteRepository(db)}
}

func (s *SQLiteStore) Save(ctx context.Context, raw []byte) error {
	return wrap(s.repo.Set(ctx, common.UserStorageKey, raw))
}

func (s *SQLiteStore) Load(ctx context.Context) ([]byte, bool, error) {
	v, ok, err := s.repo.Get(ctx, common.UserStorageKey)
	if err != nil {
		return nil, false, wrap(err)
	}
	return v, ok, nil
}

func (s *SQLiteStore) Remove(ctx context.Context) error {
	return wrap(s.repo.Delete(ctx, common.UserStorageKey))
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	v, _, err := s.repo.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", wrap(err)
	}
	return string(v), nil
}

func (s *SQLiteStore) SetToken(ctx context.Context, token string) error {
	return wrap(s.repo.Set(ctx, common.TokenStorageKey, []byte(token)))
}

func (s *SQLiteStore) ClearToken(ctx context.Context) error {
	return wrap(s.repo.Delete(ctx, common.TokenStorageKey))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
