package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"id":         "0018e094-f920-457d-ad14-7b366f551b05",
		"name":       "test-5",
		"email":      "test-5@mail.com",
		"verified":   false,
		"photo":      "default.png",
		"provider":   "local",
		"role":       "user",
		"created_at": "2025-03-22T15:12:09.369682",
		"updated_at": "2025-03-22T15:12:09.369682",
	}
}

func encode(t *testing.T, m map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

func TestParseUser_ValidPayloadCopiedVerbatim(t *testing.T) {
	p := validPayload()
	p["provider"] = "Google"
	p["verified"] = true

	u, err := ParseUser(encode(t, p))
	require.NoError(t, err)

	want := User{
		ID:        "0018e094-f920-457d-ad14-7b366f551b05",
		Name:      "test-5",
		Email:     "test-5@mail.com",
		Verified:  true,
		Photo:     "default.png",
		Provider:  ProviderGoogle,
		Role:      RoleUser,
		CreatedAt: "2025-03-22T15:12:09.369682",
		UpdatedAt: "2025-03-22T15:12:09.369682",
	}
	assert.Empty(t, cmp.Diff(want, u))
}

func TestParseUser_IgnoresUnknownKeys(t *testing.T) {
	p := validPayload()
	p["password"] = "never-here"

	u, err := ParseUser(encode(t, p))
	require.NoError(t, err)
	assert.Equal(t, "test-5", u.Name)
}

func TestParseUser_StorageFormRoundTrip(t *testing.T) {
	u, err := ParseUser(encode(t, validPayload()))
	require.NoError(t, err)

	b, err := u.MarshalStorageForm()
	require.NoError(t, err)

	again, err := ParseUser(b)
	require.NoError(t, err)
	assert.Equal(t, u, again)

	var back map[string]any
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, validPayload(), back)
}

func TestParseUser_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{"missing id", func(m map[string]any) { delete(m, "id") }, "id"},
		{"empty id", func(m map[string]any) { m["id"] = "" }, "id"},
		{"null id", func(m map[string]any) { m["id"] = nil }, "id"},
		{"blank name", func(m map[string]any) { m["name"] = "  " }, "name"},
		{"missing email", func(m map[string]any) { delete(m, "email") }, "email"},
		{"missing verified", func(m map[string]any) { delete(m, "verified") }, "verified"},
		{"missing photo", func(m map[string]any) { delete(m, "photo") }, "photo"},
		{"wrong role", func(m map[string]any) { m["role"] = "admin" }, "role"},
		{"missing role", func(m map[string]any) { delete(m, "role") }, "role"},
		{"malformed provider", func(m map[string]any) { m["provider"] = "google" }, "provider"},
		{"missing provider", func(m map[string]any) { delete(m, "provider") }, "provider"},
		{"missing created_at", func(m map[string]any) { delete(m, "created_at") }, "created_at"},
		{"missing updated_at", func(m map[string]any) { delete(m, "updated_at") }, "updated_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)

			u, err := ParseUser(encode(t, p))
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, User{}, u)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestParseUser_WrongTypeRejected(t *testing.T) {
	p := validPayload()
	p["verified"] = "yes"

	_, err := ParseUser(encode(t, p))
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseUser_NotJSON(t *testing.T) {
	for _, raw := range []string{"", "null", `"user"`, "{", "[]"} {
		_, err := ParseUser([]byte(raw))
		require.ErrorIs(t, err, ErrValidation, "payload %q", raw)
	}
}

func TestValidate_StructForm(t *testing.T) {
	raw := RawUser{ID: "u1", Name: "n", Email: "a@b.com", Provider: ProviderLocal, Role: RoleUser, CreatedAt: "c", UpdatedAt: "u"}

	u, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, u.ToStorageForm())

	raw.Role = "owner"
	_, err = Validate(raw)
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"role": "bad", "id": "required"}}
	assert.Equal(t, "validation failed: id: required; role: bad", err.Error())
}
