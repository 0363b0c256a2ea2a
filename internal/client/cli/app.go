package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/dmitrijs2005/familytree/internal/client/auth"
	"github.com/dmitrijs2005/familytree/internal/client/client"
	"github.com/dmitrijs2005/familytree/internal/client/config"
	"github.com/dmitrijs2005/familytree/internal/client/guard"
	"github.com/dmitrijs2005/familytree/internal/client/models"
	"github.com/dmitrijs2005/familytree/internal/client/session"
	"github.com/dmitrijs2005/familytree/internal/logging"
)

// sessionController is the part of auth.Controller the App drives.
type sessionController interface {
	Start(ctx context.Context)
	Ready() <-chan struct{}
	Snapshot() auth.Snapshot
	Subscribe(fn func(auth.Snapshot)) (unsubscribe func())
	Login(ctx context.Context, creds models.Credentials) (*client.LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, form models.RegisterForm) (models.User, error)
	CachedUser(ctx context.Context) (*models.User, error)
}

type sessionStore interface {
	session.Store
	session.TokenStore
}

type App struct {
	config   *config.Config
	session  sessionController
	guard    *guard.Guard
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	location string
	closers  []io.Closer

	// lastState is only touched from subscriber callbacks, which the
	// controller never runs concurrently.
	lastState string
}

// NewApp wires the local store, the identity client and the auth
// controller. An empty DatabasePath keeps the session in memory.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	var (
		store   sessionStore
		closers []io.Closer
	)

	if c.DatabasePath == "" {
		store = session.NewMemoryStore()
	} else {
		db, err := client.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
			return nil, err
		}
		closers = append(closers, db)
		store = session.NewSQLiteStore(db)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL,
		client.WithTokenStore(store),
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "identity")),
	)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	closers = append(closers, apiClient)

	ctrl := auth.NewController(apiClient, store,
		auth.WithLogger(log.With("component", "auth")),
		auth.WithRetryDelay(c.RetryDelay),
	)

	return &App{
		config:   c,
		session:  ctrl,
		guard:    guard.New(),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		location: "/",
		closers:  closers,
	}, nil
}

// Run resolves the session in the background, opens the dashboard and
// serves the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	unsubscribe := a.session.Subscribe(a.onStateChange)
	defer unsubscribe()

	go a.session.Start(ctx)

	printlnFn("Family Tree client (type 'help' for commands)")
	_ = a.Open(ctx, guard.DefaultPath)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the identity client and the local database.
func (a *App) Close() error {
	err := closeAll(a.closers)
	a.closers = nil
	return err
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i].Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated
}

func (a *App) onStateChange(s auth.Snapshot) {
	state := s.State()
	if state == a.lastState {
		return
	}
	a.lastState = state

	ctx := context.Background()
	switch state {
	case "authenticated":
		a.log.Info(ctx, "signed in", "user", s.User.String())
	case "anonymous":
		a.log.Info(ctx, "not signed in")
	}
}
