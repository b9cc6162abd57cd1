package contracts

import "errors"

// Sentinel errors shared across the domain boundary. Handlers map these to
// HTTP status codes; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound occurs when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden occurs when an entity exists but belongs to another owner.
	ErrForbidden = errors.New("access forbidden")

	// ErrInvalidSource occurs when a job selects a source outside the fixed
	// vocabulary, selects no sources, or selects the same source twice.
	ErrInvalidSource = errors.New("invalid sources, must be one of: products, carts")

	// ErrMissingCredentials occurs when a job creation request has no
	// credentials, or lacks a credential entry for a selected source.
	ErrMissingCredentials = errors.New("credentials are required")

	// ErrUpstream occurs when a fetch from the external catalog fails with a
	// transport error or a non-2xx response.
	ErrUpstream = errors.New("upstream catalog request failed")

	// ErrUsernameTaken and ErrEmailTaken occur on duplicate registration.
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrInvalidCredentials occurs on a failed login attempt.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInactiveUser occurs when a deactivated account tries to authenticate.
	ErrInactiveUser = errors.New("user account is inactive")
)
