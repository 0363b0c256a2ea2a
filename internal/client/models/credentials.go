package models

import (
	"net/mail"
	"strings"
)

// Credentials is the login form. Password is never logged or persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the local format rules checked before any request.
func (c Credentials) Validate() error {
	v := violations{}
	checkEmail(v, c.Email)
	if c.Password == "" {
		v.add("password", "required")
	}
	return v.err()
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f RegisterForm) Validate() error {
	v := violations{}
	if strings.TrimSpace(f.Name) == "" {
		v.add("name", "required")
	}
	checkEmail(v, f.Email)
	if f.Password == "" {
		v.add("password", "required")
	}
	return v.err()
}

// checkEmail accepts a bare addr-spec with a dotted domain: "a@b.com" passes,
// "Bob <a@b.com>" and "a@localhost" do not.
func checkEmail(v violations, email string) {
	if email == "" {
		v.add("email", "required")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		v.add("email", "must be a valid email")
		return
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		v.add("email", "must be a valid email")
	}
}
