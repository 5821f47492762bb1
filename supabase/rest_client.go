package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/fowltyphoid/fowlmon/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	restBasePath = "/rest/v1"
	preferHeader = "Prefer"
	preferReturn = "return=representation"
)

// Filters are PostgREST query parameters, e.g. {"user_id": "eq.u1"}.
type Filters map[string]string

// Eq builds the PostgREST exact-match operator value.
func Eq(value string) string { return "eq." + value }

// RESTClient issues authenticated calls against the PostgREST surface.
// Requests go through the auth transport, which owns the apikey/bearer
// decoration and the single refresh-and-retry on 401.
type RESTClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewRESTClient wires the REST client with the authenticated transport.
// tokens may be nil for anonymous access to public tables.
func NewRESTClient(cfg config.SupabaseConfig, tokens TokenSource) *RESTClient {
	return &RESTClient{
		baseURL: cfg.GetSupabaseURL() + restBasePath,
		client: &http.Client{
			Timeout:   cfg.GetHTTPTimeout(),
			Transport: newAuthTransport(cfg.GetAnonKey(), tokens, nil),
		},
		logger: log.With().Str("component", "supabase.rest").Logger(),
	}
}

// Select reads rows from table into out (a pointer to a slice).
func (c *RESTClient) Select(ctx context.Context, table string, filters Filters, out any) error {
	return c.do(ctx, http.MethodGet, table, filters, nil, out)
}

// Insert creates rows. With a non-nil out, the representation returned by
// PostgREST (always an array) is decoded into it.
func (c *RESTClient) Insert(ctx context.Context, table string, body, out any) error {
	return c.do(ctx, http.MethodPost, table, nil, body, out)
}

// Update patches rows matching filters.
func (c *RESTClient) Update(ctx context.Context, table string, filters Filters, body, out any) error {
	return c.do(ctx, http.MethodPatch, table, filters, body, out)
}

// Delete removes rows matching filters.
func (c *RESTClient) Delete(ctx context.Context, table string, filters Filters) error {
	return c.do(ctx, http.MethodDelete, table, filters, nil, nil)
}

func (c *RESTClient) do(ctx context.Context, method, table string, filters Filters, body, out any) error {
	u, err := url.Parse(c.baseURL + "/" + table)
	if err != nil {
		return errors.Wrap(err, "[RESTClient.do] Parse")
	}

	q := u.Query()
	if method == http.MethodGet {
		q.Set("select", "*")
	}
	for k, v := range filters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[RESTClient.do] Marshal")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return errors.Wrap(err, "[RESTClient.do] NewRequest")
	}
	if body != nil {
		req.Header.Set(contentTypeHeader, contentTypeJSON)
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set(preferHeader, preferReturn)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "[RESTClient.do] Do")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "[RESTClient.do] ReadAll")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().Int("status", resp.StatusCode).Str("table", table).Msg("rest request rejected")
		return &StatusError{StatusCode: resp.StatusCode, Body: errorBody(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "[RESTClient.do] Unmarshal")
		}
	}
	return nil
}
