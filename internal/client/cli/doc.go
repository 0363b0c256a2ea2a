// Package cli provides the interactive Family Tree terminal client.
//
// It wires configuration, the local session database, the identity API
// client and the auth controller behind a small REPL. Views are addressed by
// location ("/", "/login", "/dashboard", "/tree/42"); protected views go
// through the route guard, which shows a loading placeholder until the
// startup session check settles and sends anonymous users to the login view
// with a redirect back.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
