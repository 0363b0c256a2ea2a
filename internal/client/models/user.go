// Package models defines the client-side identity model: the validated User,
// its wire/storage form, and the login and registration forms.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "Google"
)

type Role string

const RoleUser Role = "user"

// RawUser is the user record exactly as the identity server sends it and as
// it is kept in the session store.
type RawUser struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Verified  bool     `json:"verified"`
	Photo     string   `json:"photo"`
	Provider  Provider `json:"provider"`
	Role      Role     `json:"role"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// User is a validated identity. The zero value is not a valid user; obtain
// one through ParseUser. Users are never modified after construction.
type User struct {
	ID        string
	Name      string
	Email     string
	Verified  bool
	Photo     string
	Provider  Provider
	Role      Role
	CreatedAt string
	UpdatedAt string
}

// strictUser mirrors RawUser with pointers so absent and null fields can be
// told apart from zero values.
type strictUser struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Verified  *bool   `json:"verified"`
	Photo     *string `json:"photo"`
	Provider  *string `json:"provider"`
	Role      *string `json:"role"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// ParseUser validates a raw JSON user payload. Unknown keys are ignored.
// On any violation it returns a *ValidationError and a zero User.
func ParseUser(raw []byte) (User, error) {
	var s strictUser
	if err := json.Unmarshal(raw, &s); err != nil {
		return User{}, &ValidationError{Fields: map[string]string{"user": fmt.Sprintf("malformed payload: %v", err)}}
	}

	v := violations{}
	nonEmpty(v, "id", s.ID)
	nonEmpty(v, "name", s.Name)
	nonEmpty(v, "email", s.Email)
	present(v, "photo", s.Photo)
	present(v, "created_at", s.CreatedAt)
	present(v, "updated_at", s.UpdatedAt)
	if s.Verified == nil {
		v.add("verified", "required")
	}

	switch {
	case s.Provider == nil:
		v.add("provider", "required")
	case Provider(*s.Provider) != ProviderLocal && Provider(*s.Provider) != ProviderGoogle:
		v.add("provider", fmt.Sprintf("unsupported provider %q", *s.Provider))
	}

	switch {
	case s.Role == nil:
		v.add("role", "required")
	case Role(*s.Role) != RoleUser:
		v.add("role", fmt.Sprintf("unsupported role %q", *s.Role))
	}

	if err := v.err(); err != nil {
		return User{}, err
	}

	return User{
		ID:        *s.ID,
		Name:      *s.Name,
		Email:     *s.Email,
		Verified:  *s.Verified,
		Photo:     *s.Photo,
		Provider:  Provider(*s.Provider),
		Role:      Role(*s.Role),
		CreatedAt: *s.CreatedAt,
		UpdatedAt: *s.UpdatedAt,
	}, nil
}

// Validate checks an already decoded RawUser. It is ParseUser for callers
// that hold the struct form.
func Validate(raw RawUser) (User, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return User{}, err
	}
	return ParseUser(b)
}

// ToStorageForm returns the wire form of u. ParseUser of its JSON encoding
// yields u again.
func (u User) ToStorageForm() RawUser {
	return RawUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		Photo:     u.Photo,
		Provider:  u.Provider,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// MarshalStorageForm encodes u for the session store.
func (u User) MarshalStorageForm() ([]byte, error) {
	return json.Marshal(u.ToStorageForm())
}

func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

func present(v violations, field string, s *string) {
	if s == nil {
		v.add(field, "required")
	}
}

func nonEmpty(v violations, field string, s *string) {
	if s == nil {
		v.add(field, "required")
		return
	}
	if strings.TrimSpace(*s) == "" {
		v.add(field, "must not be empty")
	}
}
