package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"recipehub/internal/model"
)

// CheckStatus converts a non-2xx response into its error kind. Unauthorized
// maps to ErrAuthRequired so callers can tear the session down; every other
// rejection is ErrServerRejected with no finer classification.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: status %d: %w",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, model.ErrAuthRequired)
	}
	return fmt.Errorf("%s %s: status %d: %w",
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, model.ErrServerRejected)
}

// DecodeJSON reads the response body into v and closes it.
func DecodeJSON(resp *http.Response, v interface{}) error {
	defer DrainAndClose(resp.Body)

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// DrainAndClose discards any unread body so the underlying connection can be
// reused, then closes it.
func DrainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
