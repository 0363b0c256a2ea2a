// Package guard decides, from an auth snapshot, whether a view may render,
// must wait for the startup fetch, or has to redirect.
package guard

import (
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/familytree/internal/client/auth"
)

const (
	LoginPath     = "/login"
	DefaultPath   = "/dashboard"
	RedirectParam = "redirect"
)

// Outcome is what the caller should do with the requested view.
type Outcome int

const (
	Render Outcome = iota
	Loading
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the guard's answer for one navigation. Location is set only
// for Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Guard maps a requested view and the current auth snapshot to a Decision.
type Guard struct {
	protected []string
}

// Option configures a Guard.
type Option func(*Guard)

// WithProtected replaces the protected path prefixes.
func WithProtected(prefixes ...string) Option {
	return func(g *Guard) { g.protected = prefixes }
}

// New returns a guard protecting /dashboard, /tree and /profile by default.
func New(opts ...Option) *Guard {
	g := &Guard{protected: []string{"/dashboard", "/tree", "/profile"}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanEnter reports whether a protected view may render.
func (g *Guard) CanEnter(s auth.Snapshot) bool {
	return s.IsAuthenticated
}

// Protected reports whether p is, or lies under, a protected prefix.
func (g *Guard) Protected(p string) bool {
	p = cleanPath(p)
	for _, prefix := range g.protected {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// Resolve decides what to do when location is requested. The login view is
// handled by LoginView with the location's redirect parameter. A protected
// view shows a loading placeholder until the snapshot is initialized, then
// renders or redirects to the login view carrying location.
func (g *Guard) Resolve(s auth.Snapshot, location string) Decision {
	p, rawQuery := splitLocation(location)
	if p == LoginPath {
		return g.LoginView(s, RedirectTarget(rawQuery))
	}
	if !g.Protected(p) {
		return Decision{Outcome: Render}
	}
	if !s.Initialized {
		return Decision{Outcome: Loading}
	}
	if g.CanEnter(s) {
		return Decision{Outcome: Render}
	}
	return Decision{Outcome: Redirect, Location: LoginLocation(location)}
}

// LoginView renders the login form for anonymous users and sends
// authenticated ones to redirect, or to the default view when redirect is
// empty or unsafe.
func (g *Guard) LoginView(s auth.Snapshot, redirect string) Decision {
	if !s.IsAuthenticated {
		return Decision{Outcome: Render}
	}
	return Decision{Outcome: Redirect, Location: ResolveRedirect(redirect)}
}

// LoginLocation is the login view carrying requested as its redirect target.
func LoginLocation(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return LoginPath
	}
	q := url.Values{}
	q.Set(RedirectParam, requested)
	return LoginPath + "?" + q.Encode()
}

// RedirectTarget extracts the redirect parameter from a query string.
// Malformed queries yield whatever could be parsed, possibly nothing.
func RedirectTarget(rawQuery string) string {
	values, _ := url.ParseQuery(rawQuery)
	return values.Get(RedirectParam)
}

// ResolveRedirect returns raw if it is a safe in-app location and
// DefaultPath otherwise. Safe means a relative path starting with "/", with
// no scheme or host, that does not lead back to the login view.
func ResolveRedirect(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" {
		return DefaultPath
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil {
		return DefaultPath
	}
	if !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(next, "//") {
		return DefaultPath
	}
	if cleanPath(parsed.Path) == LoginPath {
		return DefaultPath
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery
	}
	return parsed.Path
}

func splitLocation(location string) (string, string) {
	location, _, _ = strings.Cut(location, "#")
	p, rawQuery, _ := strings.Cut(location, "?")
	return cleanPath(p), rawQuery
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
