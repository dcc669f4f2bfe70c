package auth

import "errors"

// Failure taxonomy for the auth flows. Handlers map these to HTTP statuses;
// anything not in the list is treated as an internal error.
var (
	// ErrInvalidInput means a required field was missing. No store access
	// happens before this check.
	ErrInvalidInput = errors.New("missing required field")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are intentionally indistinguishable to the client.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountMisconfigured means the matched account has no stored hash.
	// A data integrity problem on the server, not a client error.
	ErrAccountMisconfigured = errors.New("account has no stored credential")
	// ErrVerification means the hash comparison itself failed unexpectedly.
	ErrVerification = errors.New("password verification failed")
	// ErrServerMisconfigured means no signing secret is configured. Raised
	// at the point a token is needed, never silently skipped.
	ErrServerMisconfigured = errors.New("signing secret not configured")
	// ErrDuplicateAccount means the email is already registered.
	ErrDuplicateAccount = errors.New("email already registered")
)
