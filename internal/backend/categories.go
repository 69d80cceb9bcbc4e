package backend

import (
	"context"
	"net/http"

	"recipehub/internal/httputil"
	"recipehub/internal/model"
)

// ListCategories fetches the category list. The fetch is unconditional and
// independent of the catalog filter.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	resp, err := c.request(ctx, http.MethodGet, "/categories/", nil, nil, "", false)
	if err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := httputil.DecodeJSON(resp, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
