package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/familytree/internal/client/guard"
)

const maxRedirects = 5

var errTooManyRedirects = errors.New("too many redirects")

// Open navigates to location, asking the guard first. A loading decision
// prints a placeholder and waits for the startup fetch; redirects are
// followed.
func (a *App) Open(ctx context.Context, location string) error {
	for range maxRedirects {
		d := a.guard.Resolve(a.session.Snapshot(), location)

		switch d.Outcome {
		case guard.Loading:
			a.showLoading(ctx)
			select {
			case <-a.session.Ready():
			case <-ctx.Done():
				return ctx.Err()
			}

		case guard.Redirect:
			fmt.Fprintf(a.out, "Redirecting to %s\n", d.Location)
			location = d.Location

		default:
			a.location = location
			a.render(location)
			return nil
		}
	}

	a.log.Error(ctx, "navigation did not settle", "location", location)
	return errTooManyRedirects
}

func (a *App) showLoading(ctx context.Context) {
	cached, err := a.session.CachedUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read cached user", "error", err)
	}
	if cached != nil {
		fmt.Fprintf(a.out, "Loading... (last signed in as %s)\n", cached.Name)
		return
	}
	fmt.Fprintln(a.out, "Loading...")
}

func (a *App) render(location string) {
	path, rawQuery := splitLocation(location)

	switch path {
	case "/":
		fmt.Fprintln(a.out, "Welcome to Family Tree. Type 'register' or 'login' to get started.")
	case guard.LoginPath:
		fmt.Fprintln(a.out, "Sign in with 'login'.")
		if target := guard.RedirectTarget(rawQuery); target != "" {
			fmt.Fprintf(a.out, "You will be taken back to %s.\n", guard.ResolveRedirect(target))
		}
	case "/register":
		fmt.Fprintln(a.out, "Create an account with 'register'.")
	default:
		if u := a.session.Snapshot().User; u != nil && a.guard.Protected(path) {
			fmt.Fprintf(a.out, "[%s] signed in as %s\n", path, u)
			return
		}
		fmt.Fprintf(a.out, "[%s]\n", path)
	}
}

func splitLocation(location string) (string, string) {
	u, err := url.Parse(location)
	if err != nil {
		return location, ""
	}
	return u.Path, u.RawQuery
}
