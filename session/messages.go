package session

import (
	"fmt"
	"net/http"

	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/supabase"
)

// User-facing messages, in Swahili like the rest of the product surface.
const (
	msgBadCredentials     = "Barua pepe/namba ya simu au nenosiri sio sahihi"
	msgMalformedInput     = "Taarifa ulizoweka sio sahihi"
	msgServiceUnavailable = "Huduma haipatikani kwa sasa. Tafadhali jaribu tena baadaye."
	msgServerError        = "Hitilafu ya seva. Tafadhali jaribu tena baadaye."
	msgNetworkError       = "Hakuna mtandao. Tafadhali angalia muunganisho wako."
	msgGenericFailure     = "Imeshindikana. Tafadhali jaribu tena."
)

// AuthError carries the user-facing message for a failed auth operation
// alongside the HTTP status (0 for local or transport failures).
type AuthError struct {
	Status  int
	Message string
	cause   error
}

func (e *AuthError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.cause }

// authError maps a failure from the auth client to an AuthError. Status
// codes get fixed localized messages; anything without an HTTP response at
// all is a network error.
func authError(err error) *AuthError {
	var statusErr *supabase.StatusError
	if !interrors.As(err, &statusErr) {
		return &AuthError{
			Message: msgNetworkError,
			cause:   fmt.Errorf("%w: %v", interrors.ErrNetwork, err),
		}
	}

	switch statusErr.StatusCode {
	case http.StatusNotFound:
		return &AuthError{Status: statusErr.StatusCode, Message: msgServiceUnavailable, cause: interrors.ErrServiceUnavailable}
	case http.StatusBadRequest, http.StatusUnauthorized:
		return &AuthError{Status: statusErr.StatusCode, Message: msgBadCredentials, cause: interrors.ErrInvalidCredentials}
	case http.StatusUnprocessableEntity:
		return &AuthError{Status: statusErr.StatusCode, Message: msgMalformedInput, cause: interrors.ErrInvalidCredentials}
	case http.StatusInternalServerError:
		return &AuthError{Status: statusErr.StatusCode, Message: msgServerError, cause: interrors.ErrServer}
	default:
		return &AuthError{Status: statusErr.StatusCode, Message: msgGenericFailure, cause: err}
	}
}
