package supabase

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TokenSource supplies the bearer credential for authenticated REST calls
// and performs a blocking refresh when the backend reports it stale. The
// session manager implements this.
type TokenSource interface {
	AccessToken() string
	// TryRefresh performs one blocking refresh attempt and reports success.
	TryRefresh() bool
}

// authTransport decorates every outgoing REST request with the anon key and,
// when present, the bearer token. A 401 response triggers exactly one
// refresh-and-retry; a failed refresh returns the original 401 unchanged.
// Every other status passes through untouched.
type authTransport struct {
	anonKey string
	tokens  TokenSource
	base    http.RoundTripper
	logger  zerolog.Logger
}

func newAuthTransport(anonKey string, tokens TokenSource, base http.RoundTripper) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{
		anonKey: anonKey,
		tokens:  tokens,
		base:    base,
		logger:  log.With().Str("component", "supabase.transport").Logger(),
	}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(t.decorate(req))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || t.tokens == nil {
		return resp, nil
	}

	t.logger.Warn().Str("url", req.URL.Path).Msg("401 received, attempting token refresh")
	if !t.tokens.TryRefresh() {
		return resp, nil
	}

	retry := t.decorate(req)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	resp.Body.Close()
	return t.base.RoundTrip(retry)
}

func (t *authTransport) decorate(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	clone.Header.Set(apiKeyHeader, t.anonKey)
	if t.tokens != nil {
		if token := t.tokens.AccessToken(); token != "" {
			clone.Header.Set(authHeader, authHeaderPrefix+token)
		}
	}
	return clone
}
