package auth

import "errors"

// Authentication errors
var (
	// ErrTooManyAttempts indicates the credential check was throttled.
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrNoSecret indicates neither a password nor a password hash was configured.
	ErrNoSecret = errors.New("admin secret is not configured")
)
