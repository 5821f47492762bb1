package supabase

import (
	"encoding/json"
	"fmt"
)

// TokenResponse is the GoTrue success envelope returned by the token and
// signup endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         *User  `json:"user"`
}

// Success reports whether the envelope carries a usable access token. Signup
// with email confirmation enabled returns a bare user object with no token.
func (tr *TokenResponse) Success() bool {
	return tr != nil && tr.AccessToken != ""
}

// UserID returns the backend-assigned identifier, if any.
func (tr *TokenResponse) UserID() string {
	if tr == nil || tr.User == nil {
		return ""
	}
	return tr.User.ID
}

// User is the nested GoTrue user object.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
	ConfirmedAt  string         `json:"confirmed_at,omitempty"`
}

// MetadataString returns a string-valued entry from user_metadata, or "".
func (u *User) MetadataString(key string) string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	if v, ok := u.UserMetadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

type passwordGrantRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type refreshGrantRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type signUpRequest struct {
	Email    string         `json:"email,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// StatusError is a non-2xx HTTP response from the backend. The session layer
// maps status codes to user-facing messages; this type keeps the raw code
// and error body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("supabase: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("supabase: unexpected status %d: %s", e.StatusCode, e.Body)
}

// errorEnvelope covers the shapes GoTrue and PostgREST use for errors.
type errorEnvelope struct {
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func errorBody(raw []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		switch {
		case env.ErrorDescription != "":
			return env.ErrorDescription
		case env.Msg != "":
			return env.Msg
		case env.Message != "":
			return env.Message
		}
	}
	return string(raw)
}
