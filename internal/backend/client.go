package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipehub/internal/httputil"
	"recipehub/internal/model"
)

// CredentialSource supplies the Authorization header for authenticated
// requests. The session manager implements it; consumers never touch the
// persisted pair directly.
type CredentialSource interface {
	AuthorizationHeader() (string, bool)
}

// Client is the typed HTTP client for every backend endpoint. It implements
// AuthAPI, RecipeAPI and CategoryAPI.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetCredentialSource binds the session manager after construction; the
// manager itself needs the client for its auth calls, so the binding is
// two-phase.
func (c *Client) SetCredentialSource(creds CredentialSource) {
	c.creds = creds
}

// request issues one round-trip. An authed request with no credential fails
// with ErrAuthRequired before any network I/O; transport failures map to
// ErrNetworkFailure; non-2xx statuses are classified by httputil.CheckStatus.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, authed bool) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		if c.creds == nil {
			return nil, fmt.Errorf("%s %s: no credential source: %w", method, path, model.ErrAuthRequired)
		}
		header, ok := c.creds.AuthorizationHeader()
		if !ok {
			return nil, fmt.Errorf("%s %s: not signed in: %w", method, path, model.ErrAuthRequired)
		}
		req.Header.Set("Authorization", header)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Keep the transport error in the chain so callers can still see
		// a context cancellation behind the network-failure kind.
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, err, model.ErrNetworkFailure)
	}
	if err := httputil.CheckStatus(resp); err != nil {
		httputil.DrainAndClose(resp.Body)
		// A 401 matters as an auth signal only when the request carried a
		// credential; on a public endpoint it is an ordinary rejection.
		if !authed && errors.Is(err, model.ErrAuthRequired) {
			err = fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, model.ErrServerRejected)
		}
		return nil, err
	}
	return resp, nil
}

// postJSON marshals v and issues a JSON POST.
func (c *Client) postJSON(ctx context.Context, path string, v interface{}, authed bool) (*http.Response, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.request(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), "application/json", authed)
}
