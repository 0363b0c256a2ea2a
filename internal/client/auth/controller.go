// Package auth holds the client's single source of truth for "am I logged
// in, and as whom".
//
// A Controller is created once at startup with an identity client and a
// session store. Start resolves the initial state from the server; Login and
// Logout move between the anonymous and authenticated states. Consumers read
// the current Snapshot synchronously or Subscribe to changes.
//
// Operations may run concurrently. Every completion is applied to the
// snapshot under a single lock, in completion order, so when two operations
// overlap the one that settles last decides the final state. Store writes
// and subscriber delivery follow the same order but run after that lock is
// released, so Snapshot never waits on either.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/familytree/internal/client/client"
	"github.com/dmitrijs2005/familytree/internal/client/models"
	"github.com/dmitrijs2005/familytree/internal/client/session"
	"github.com/dmitrijs2005/familytree/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Snapshot is a point-in-time view of the authentication state.
// IsAuthenticated is true exactly when User is non-nil.
type Snapshot struct {
	IsAuthenticated bool
	Initialized     bool
	User            *models.User
	IsPending       bool
}

// State names the snapshot's state: "unknown", "anonymous" or "authenticated".
func (s Snapshot) State() string {
	switch {
	case !s.Initialized && s.User == nil:
		return "unknown"
	case s.User == nil:
		return "anonymous"
	default:
		return "authenticated"
	}
}

type subscription struct {
	fn     func(Snapshot)
	active atomic.Bool
}

// Controller owns the client's authentication state and every transition
// of it.
type Controller struct {
	client     client.Client
	store      session.Store
	log        logging.Logger
	retryDelay time.Duration

	mu          sync.Mutex
	user        *models.User
	initialized bool
	pending     int
	subs        []*subscription
	tickets     uint64

	// turn runs each commit's store work and delivery in ticket order.
	turn turnstile

	startOnce sync.Once
	ready     chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRetryDelay sets the pause before the startup fetch's single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Controller) { c.retryDelay = d }
}

// NewController returns a controller in the unknown state. Call Start to
// resolve it.
func NewController(cl client.Client, store session.Store, opts ...Option) *Controller {
	c := &Controller{
		client:     cl,
		store:      store,
		log:        logging.Nop(),
		retryDelay: 500 * time.Millisecond,
		ready:      make(chan struct{}),
	}
	c.turn.cond = sync.NewCond(&c.turn.mu)
	for _, opt := range opts {
		opt(c)
	}
	if c.retryDelay <= 0 {
		c.retryDelay = time.Millisecond
	}
	return c
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Ready is closed once the startup fetch has settled.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// Subscribe registers fn to receive every snapshot committed from now on.
// fn runs synchronously on the goroutine that committed the change, one
// snapshot at a time in commit order. It may call Snapshot or unsubscribe,
// but must not call Start, Login or Logout, which wait for fn to return.
// After the returned function is called fn receives nothing new.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s == sub {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Start asks the server who the current user is and moves out of the
// unknown state. Only the first call does any work; later and concurrent
// calls wait for it and return. A transport failure is retried once. Any
// failure, or a payload that is not a valid user, ends anonymous with the
// cached user removed. A successful fetch writes nothing to the store.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() { c.start(ctx) })
}

func (c *Controller) start(ctx context.Context) {
	c.begin(ctx, c.discardInvalidCachedUser)

	var user *models.User
	raw, err := c.fetchCurrentUser(ctx)
	if err == nil {
		u, verr := models.ParseUser(raw)
		if verr == nil {
			user = &u
		} else {
			err = fmt.Errorf("current user payload: %w", verr)
		}
	}

	switch {
	case err == nil:
		c.log.Info(ctx, "session restored", "user_id", user.ID)
	case errors.Is(err, client.ErrUnauthorized):
		c.log.Debug(ctx, "no server session")
	default:
		c.log.Warn(ctx, "startup fetch failed", "error", err)
	}

	var persist func(context.Context)
	if user == nil {
		persist = c.removeCachedUser
	}
	c.settle(ctx, func() {
		c.user = user
		if !c.initialized {
			c.initialized = true
			close(c.ready)
		}
	}, persist)
}

func (c *Controller) fetchCurrentUser(ctx context.Context) ([]byte, error) {
	var raw []byte
	b := retry.WithMaxRetries(1, retry.NewConstant(c.retryDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := c.client.FetchCurrentUser(ctx)
		if err != nil {
			if errors.Is(err, client.ErrUnavailable) {
				c.log.Debug(ctx, "current user fetch failed, may retry", "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		raw = r
		return nil
	})
	return raw, err
}

// Login checks creds locally, sends them, and on success becomes
// authenticated as the returned user and caches it in the session store.
// The full server reply is returned. On any failure the state is left as
// it was.
func (c *Controller) Login(ctx context.Context, creds models.Credentials) (*client.LoginResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	c.begin(ctx, nil)
	resp, err := c.client.Login(ctx, creds)
	if err != nil {
		c.settle(ctx, nil, nil)
		c.log.Info(ctx, "login failed", "error", err)
		return nil, err
	}

	user, err := models.ParseUser(resp.User)
	if err != nil {
		c.settle(ctx, nil, nil)
		c.log.Error(ctx, "login returned an invalid user", "error", err)
		return nil, fmt.Errorf("login response: %w", err)
	}

	c.settle(ctx, func() { c.user = &user }, func(ctx context.Context) {
		c.saveCachedUser(ctx, user)
	})
	c.log.Info(ctx, "logged in", "user_id", user.ID)
	return resp, nil
}

// Logout asks the server to end the session and always ends anonymous with
// the cached user removed, even when the request fails. The request error
// is still returned. A server that reports no session counts as success.
func (c *Controller) Logout(ctx context.Context) error {
	c.begin(ctx, nil)
	err := c.client.Logout(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		err = nil
	}

	c.settle(ctx, func() { c.user = nil }, c.removeCachedUser)

	if err != nil {
		c.log.Warn(ctx, "server logout failed, local session cleared anyway", "error", err)
		return fmt.Errorf("logout: %w", err)
	}
	c.log.Info(ctx, "logged out")
	return nil
}

// Register creates an account. It does not change the session state.
func (c *Controller) Register(ctx context.Context, form models.RegisterForm) (models.User, error) {
	raw, err := c.client.Register(ctx, form)
	if err != nil {
		return models.User{}, err
	}
	u, err := models.ParseUser(raw)
	if err != nil {
		return models.User{}, fmt.Errorf("register response: %w", err)
	}
	return u, nil
}

// CachedUser returns the user kept in the session store by an earlier
// login, or nil when there is none or it is not a valid user. It does not
// touch the snapshot.
func (c *Controller) CachedUser(ctx context.Context) (*models.User, error) {
	raw, ok, err := c.store.Load(ctx)
	if err != nil || !ok {
		return nil, err
	}
	u, err := models.ParseUser(raw)
	if err != nil {
		return nil, nil
	}
	return &u, nil
}

func (c *Controller) discardInvalidCachedUser(ctx context.Context) {
	raw, ok, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to read cached user", "error", err)
		return
	}
	if !ok {
		return
	}
	if _, err := models.ParseUser(raw); err != nil {
		c.log.Info(ctx, "discarding invalid cached user", "error", err)
		c.removeCachedUser(ctx)
	}
}

// Storage failures never block a transition: the in-memory state is
// authoritative and the store only helps the next run.

func (c *Controller) saveCachedUser(ctx context.Context, u models.User) {
	raw, err := u.MarshalStorageForm()
	if err == nil {
		err = c.store.Save(ctx, raw)
	}
	if err != nil {
		c.log.Warn(ctx, "failed to cache user", "error", err)
	}
}

func (c *Controller) removeCachedUser(ctx context.Context) {
	if err := c.store.Remove(ctx); err != nil {
		c.log.Warn(ctx, "failed to remove cached user", "error", err)
	}
}

// begin marks an operation in flight. persist, if set, runs in the
// commit's turn.
func (c *Controller) begin(ctx context.Context, persist func(context.Context)) {
	c.commit(ctx, func() { c.pending++ }, persist)
}

// settle applies mutate (which may be nil) and marks one operation done.
func (c *Controller) settle(ctx context.Context, mutate func(), persist func(context.Context)) {
	c.commit(ctx, func() {
		if mutate != nil {
			mutate()
		}
		c.pending--
	}, persist)
}

// commit applies mutate under mu and takes a ticket. The store work and
// delivery to subscribers then wait for that ticket's turn with mu released.
func (c *Controller) commit(ctx context.Context, mutate func(), persist func(context.Context)) {
	c.mu.Lock()
	mutate()
	snap := c.snapshotLocked()
	subs := append([]*subscription(nil), c.subs...)
	ticket := c.tickets
	c.tickets++
	c.mu.Unlock()

	c.turn.wait(ticket)
	defer c.turn.done()

	if persist != nil {
		persist(ctx)
	}
	c.log.Debug(ctx, "auth state committed", "state", snap.State(), "pending", snap.IsPending)
	for _, s := range subs {
		if s.active.Load() {
			s.fn(snap)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		IsAuthenticated: c.user != nil,
		Initialized:     c.initialized,
		User:            c.user,
		IsPending:       c.pending > 0,
	}
}

// turnstile lets ticket holders through one at a time in ticket order.
type turnstile struct {
	mu   sync.Mutex
	cond *sync.Cond
	next uint64
}

func (t *turnstile) wait(ticket uint64) {
	t.mu.Lock()
	for t.next != ticket {
		t.cond.Wait()
	}
	t.mu.Unlock()
}

func (t *turnstile) done() {
	t.mu.Lock()
	t.next++
	t.mu.Unlock()
	t.cond.Broadcast()
}
