package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fowltyphoid/fowlmon/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	authBasePath      = "/auth/v1"
	apiKeyHeader      = "apikey"
	authHeader        = "Authorization"
	authHeaderPrefix  = "Bearer "
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
)

// AuthClient talks to the GoTrue auth endpoints. Every request carries the
// project anon key; only logout needs a bearer token.
type AuthClient struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  zerolog.Logger
}

// NewAuthClient builds an AuthClient from the Supabase project settings.
func NewAuthClient(cfg config.SupabaseConfig) *AuthClient {
	return &AuthClient{
		baseURL: cfg.GetSupabaseURL() + authBasePath,
		anonKey: cfg.GetAnonKey(),
		client:  &http.Client{Timeout: cfg.GetHTTPTimeout()},
		logger:  log.With().Str("component", "supabase.auth").Logger(),
	}
}

// PasswordGrant signs in with email+password or phone+password. Exactly one
// of email/phone should be set.
func (c *AuthClient) PasswordGrant(ctx context.Context, email, phone, password string) (*TokenResponse, error) {
	body := passwordGrantRequest{Email: email, Phone: phone, Password: password}
	return c.tokenRequest(ctx, "/token?grant_type=password", body)
}

// RefreshGrant exchanges a refresh token for a new access token.
func (c *AuthClient) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body := refreshGrantRequest{RefreshToken: refreshToken}
	return c.tokenRequest(ctx, "/token?grant_type=refresh_token", body)
}

// SignUp registers a new account with arbitrary user metadata.
func (c *AuthClient) SignUp(ctx context.Context, email, phone, password string, metadata map[string]any) (*TokenResponse, error) {
	body := signUpRequest{Email: email, Phone: phone, Password: password, Data: metadata}
	return c.tokenRequest(ctx, "/signup", body)
}

// Logout revokes the session server-side. Callers clear local state
// regardless of the outcome.
func (c *AuthClient) Logout(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set(authHeader, authHeaderPrefix+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "[AuthClient.Logout] Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: errorBody(raw)}
	}
	return nil
}

func (c *AuthClient) tokenRequest(ctx context.Context, path string, body any) (*TokenResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthClient.tokenRequest] Do")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthClient.tokenRequest] ReadAll")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("auth request rejected")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorBody(raw)}
	}

	var tr TokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, errors.Wrap(err, "[AuthClient.tokenRequest] Unmarshal")
	}
	return &tr, nil
}

func (c *AuthClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[AuthClient.newRequest] Marshal")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthClient.newRequest] NewRequest")
	}
	req.Header.Set(apiKeyHeader, c.anonKey)
	if body != nil {
		req.Header.Set(contentTypeHeader, contentTypeJSON)
	}
	return req, nil
}
