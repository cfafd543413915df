package leadscraper

import "errors"

var (
	// ErrNoActiveSession gates scraping, the caller has to run a login
	// first (or again, once the old session lapses).
	ErrNoActiveSession = errors.New("no active session, please log in first")
	// ErrAuthenticationTimeout means the authenticated marker never
	// appeared within the login wait window. No session is written.
	ErrAuthenticationTimeout = errors.New("login timed out waiting for authentication")
	ErrUnsupportedAction     = errors.New("unsupported action")
)
