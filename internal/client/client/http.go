package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/familytree/internal/client/models"
	"github.com/dmitrijs2005/familytree/internal/client/session"
	"github.com/dmitrijs2005/familytree/internal/common"
	"github.com/dmitrijs2005/familytree/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// HTTPClient implements Client against the identity server's JSON API.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	jar     *resettableJar
	tokens  session.TokenStore
	log     logging.Logger
	now     func() time.Time

	seedOnce sync.Once
}

type Option func(*HTTPClient)

// WithTokenStore persists the session cookie so a later run starts logged in.
func WithTokenStore(ts session.TokenStore) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithTimeout bounds each request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) { c.http.Transport = rt }
}

// NewHTTPClient builds a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:8000/api/". A missing trailing slash is added so that
// relative endpoints resolve under the root.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	jar := newResettableJar()
	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
		jar:     jar,
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type userEnvelope struct {
	Status string          `json:"status"`
	User   json.RawMessage `json:"user"`
}

type registerEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		User json.RawMessage `json:"user"`
	} `json:"data"`
}

// errorEnvelope is the body of a non-2xx reply.
type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FetchCurrentUser calls GET users/me. Without a valid server session it
// returns ErrUnauthorized.
func (c *HTTPClient) FetchCurrentUser(ctx context.Context) (json.RawMessage, error) {
	var env userEnvelope
	if _, err := c.do(ctx, http.MethodGet, "users/me", nil, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

// Login validates creds locally, then calls POST auth/login. A rejected
// login is ErrInvalidCredentials.
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*LoginResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var resp LoginResponse
	body, err := c.do(ctx, http.MethodPost, "auth/login", creds, &resp)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}
	resp.Body = body
	return &resp, nil
}

// Logout calls GET auth/logout. The local session cookie is dropped
// whatever the outcome.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "auth/logout", nil, nil)
	c.dropCredentials(ctx)
	return err
}

// Register validates form locally, then calls POST auth/register. An
// already registered email is ErrConflict. It does not log the user in.
func (c *HTTPClient) Register(ctx context.Context, form models.RegisterForm) (json.RawMessage, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var env registerEnvelope
	if _, err := c.do(ctx, http.MethodPost, "auth/register", form, &env); err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
// It returns the raw body of successful replies.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any, out any) (json.RawMessage, error) {
	c.seedOnce.Do(func() { c.seedToken(ctx) })

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log := c.log.With("method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return nil, c.mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.mapTransportError(ctx, err)
	}
	log.Debug(ctx, "request completed", "status", resp.StatusCode)

	c.trackSessionCookie(ctx, resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.dropCredentials(ctx)
		}
		return nil, statusError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("%w: decode %s %s: %v", ErrUnexpectedResponse, method, path, err)
		}
	}
	return body, nil
}

func (c *HTTPClient) mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func statusError(code int, body []byte) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests,
		code == http.StatusBadGateway, code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %d %s", ErrUnavailable, code, msg)
	default:
		return fmt.Errorf("%w: %d %s", ErrUnexpectedResponse, code, msg)
	}
}

// seedToken loads a persisted session token into the jar. Tokens whose exp
// claim is in the past are discarded instead.
func (c *HTTPClient) seedToken(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to load session token", "error", err)
		return
	}
	if token == "" {
		return
	}
	if tokenExpired(token, c.now()) {
		c.log.Debug(ctx, "discarding expired session token")
		if err := c.tokens.ClearToken(ctx); err != nil {
			c.log.Warn(ctx, "failed to clear session token", "error", err)
		}
		return
	}
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  common.SessionCookieName,
		Value: token,
		Path:  "/",
	}})
}

// trackSessionCookie mirrors Set-Cookie changes of the session cookie into
// the token store.
func (c *HTTPClient) trackSessionCookie(ctx context.Context, resp *http.Response) {
	if c.tokens == nil {
		return
	}
	for _, ck := range resp.Cookies() {
		if ck.Name != common.SessionCookieName {
			continue
		}
		var err error
		if ck.Value == "" || ck.MaxAge < 0 {
			err = c.tokens.ClearToken(ctx)
		} else {
			err = c.tokens.SetToken(ctx, ck.Value)
		}
		if err != nil {
			c.log.Warn(ctx, "failed to persist session token", "error", err)
		}
	}
}

func (c *HTTPClient) dropCredentials(ctx context.Context) {
	c.jar.Reset()
	if c.tokens == nil {
		return
	}
	if err := c.tokens.ClearToken(ctx); err != nil {
		c.log.Warn(ctx, "failed to clear session token", "error", err)
	}
}

// tokenExpired reports whether token is a JWT whose exp lies before now.
// The signature is not checked; tokens that are not JWTs are left to the
// server to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(now)
}
