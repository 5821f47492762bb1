package errors

import (
	"errors"
	"fmt"
)

// Common error types shared across the client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrNoRefreshToken     = errors.New("no refresh token available")
	ErrRefreshInProgress  = errors.New("token refresh already in progress")

	// Transport errors
	ErrNetwork            = errors.New("network error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServer             = errors.New("server error")

	// Validation errors
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
