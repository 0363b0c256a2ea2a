package cli

import (
	"context"
	"fmt"
)

// getStatus renders the prompt status: who is signed in and where we are.
// Before the startup fetch settles it shows a loading marker with the user
// cached by the previous run, if any.
func (a *App) getStatus() string {
	s := a.session.Snapshot()

	var who string
	switch {
	case s.User != nil:
		who = s.User.Name
	case !s.Initialized:
		who = "loading"
		if cached, err := a.session.CachedUser(context.Background()); err == nil && cached != nil {
			who = fmt.Sprintf("loading, last seen %s", cached.Name)
		}
	default:
		who = "guest"
	}
	if s.IsPending && s.Initialized {
		who += " *"
	}

	return fmt.Sprintf("(%s) %s", who, a.location)
}
