package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/familytree/internal/client/client"
	"github.com/dmitrijs2005/familytree/internal/client/guard"
	"github.com/dmitrijs2005/familytree/internal/client/models"
	"github.com/dmitrijs2005/familytree/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// On success it opens the login view; registering does not sign in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	// Best effort: only the prompt buffer is wiped, not the string copy sent on.
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, models.RegisterForm{Name: name, Email: email, Password: string(password)})
	if err != nil {
		a.report(ctx, "register", err)
		return err
	}

	fmt.Fprintf(a.out, "Account created for %s. Please sign in.\n", u.Email)
	return a.Open(ctx, guard.LoginPath)
}

// Login prompts for credentials and signs in. When the current view is the
// login view carrying a redirect target, that target is opened afterwards;
// otherwise the dashboard is.
func (a *App) Login(ctx context.Context) error {
	var redirect string
	if path, rawQuery := splitLocation(a.location); path == guard.LoginPath {
		redirect = guard.RedirectTarget(rawQuery)
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	// Best effort: only the prompt buffer is wiped, not the string copy sent on.
	defer common.WipeByteArray(password)

	if _, err := a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)}); err != nil {
		a.report(ctx, "login", err)
		return err
	}

	d := a.guard.LoginView(a.session.Snapshot(), redirect)
	if d.Outcome == guard.Redirect {
		return a.Open(ctx, d.Location)
	}
	return nil
}

// Logout signs out. The local session is cleared even when the server
// cannot be told; that error is reported and returned.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.Logout(ctx)
	if err != nil {
		a.report(ctx, "logout", err)
		fmt.Fprintln(a.out, "Signed out locally.")
	} else {
		fmt.Fprintln(a.out, "Signed out.")
	}

	if openErr := a.Open(ctx, "/"); openErr != nil {
		return errors.Join(err, openErr)
	}
	return err
}

// Whoami prints the current session state.
func (a *App) Whoami(ctx context.Context) error {
	s := a.session.Snapshot()
	switch {
	case s.User != nil:
		u := s.User
		fmt.Fprintf(a.out, "%s (id %s, %s account, verified: %t)\n", u, u.ID, u.Provider, u.Verified)
	case !s.Initialized:
		fmt.Fprintln(a.out, "Still checking the session...")
	default:
		fmt.Fprintln(a.out, "Not signed in.")
	}
	return nil
}

// report turns an operation error into a message for the user.
func (a *App) report(ctx context.Context, op string, err error) {
	var msg string
	switch {
	case errors.Is(err, models.ErrValidation):
		msg = "Invalid input: " + err.Error()
	case errors.Is(err, client.ErrInvalidCredentials):
		msg = "Invalid email or password."
	case errors.Is(err, client.ErrConflict):
		msg = "That email is already registered."
	case errors.Is(err, client.ErrUnavailable):
		msg = "The server is unavailable, please try again later."
	default:
		msg = "Something went wrong: " + err.Error()
	}
	a.log.Warn(ctx, op+" failed", "error", err)
	fmt.Fprintln(a.out, msg)
}
