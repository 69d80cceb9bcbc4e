package backend

import (
	"context"
	"fmt"
	"net/http"

	"recipehub/internal/httputil"
	"recipehub/internal/model"
)

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (model.TokenPair, error) {
	resp, err := c.postJSON(ctx, "/auth/login/", req, false)
	if err != nil {
		return model.TokenPair{}, err
	}

	var pair model.TokenPair
	if err := httputil.DecodeJSON(resp, &pair); err != nil {
		return model.TokenPair{}, err
	}
	if !pair.Valid() {
		return model.TokenPair{}, fmt.Errorf("login response missing credentials: %w", model.ErrServerRejected)
	}
	return pair, nil
}

// Register creates an account. A 201 means success; the caller stays signed
// out and runs onboarding separately.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) error {
	resp, err := c.postJSON(ctx, "/auth/register/", req, false)
	if err != nil {
		return err
	}
	httputil.DrainAndClose(resp.Body)
	return nil
}

// Profile fetches the current user.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	resp, err := c.request(ctx, http.MethodGet, "/auth/profile/", nil, nil, "", true)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := httputil.DecodeJSON(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile posts edited profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, fields *model.ProfileUpdate) (*model.User, error) {
	resp, err := c.postJSON(ctx, "/auth/profile/", fields, true)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := httputil.DecodeJSON(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
