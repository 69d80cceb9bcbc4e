package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"recipehub/internal/httputil"
	"recipehub/internal/model"
)

// List fetches the filtered catalog. The search term always travels as a
// query parameter; the category is omitted for the "all" sentinel.
func (c *Client) List(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
	query := url.Values{}
	query.Set("search", filter.SearchTerm)
	if filter.CategoryID != "" && filter.CategoryID != model.CategoryAll {
		query.Set("category", filter.CategoryID)
	}

	resp, err := c.request(ctx, http.MethodGet, "/recipes/", query, nil, "", false)
	if err != nil {
		return nil, err
	}

	var recipes []model.Recipe
	if err := httputil.DecodeJSON(resp, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// MyRecipes fetches the current user's recipes, published or not.
func (c *Client) MyRecipes(ctx context.Context) ([]model.Recipe, error) {
	resp, err := c.request(ctx, http.MethodGet, "/recipes/my-recipes/", nil, nil, "", true)
	if err != nil {
		return nil, err
	}

	var recipes []model.Recipe
	if err := httputil.DecodeJSON(resp, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Create publishes a new recipe as a multipart form.
func (c *Client) Create(ctx context.Context, in *model.RecipeInput) (*model.Recipe, error) {
	return c.submitRecipe(ctx, http.MethodPost, "/recipes/create/", in)
}

// Update replaces an owned recipe's fields.
func (c *Client) Update(ctx context.Context, slug string, in *model.RecipeInput) (*model.Recipe, error) {
	return c.submitRecipe(ctx, http.MethodPut, "/recipes/"+slug+"/update/", in)
}

func (c *Client) submitRecipe(ctx context.Context, method, path string, in *model.RecipeInput) (*model.Recipe, error) {
	body, contentType, err := encodeRecipeForm(in)
	if err != nil {
		return nil, err
	}

	resp, err := c.request(ctx, method, path, nil, body, contentType, true)
	if err != nil {
		return nil, err
	}

	var recipe model.Recipe
	if err := httputil.DecodeJSON(resp, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// encodeRecipeForm builds the multipart payload. The optional image rides as
// a file part; everything else is a plain field.
func encodeRecipeForm(in *model.RecipeInput) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        in.Title,
		"description":  in.Description,
		"category":     strconv.FormatInt(in.CategoryID, 10),
		"prep_time":    strconv.Itoa(in.PrepTime),
		"cook_time":    strconv.Itoa(in.CookTime),
		"difficulty":   in.Difficulty,
		"ingredients":  in.Ingredients,
		"instructions": in.Instructions,
		"is_published": strconv.FormatBool(in.IsPublished),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("encode field %s: %w", name, err)
		}
	}
	if in.Tips != "" {
		if err := w.WriteField("tips", in.Tips); err != nil {
			return nil, "", fmt.Errorf("encode field tips: %w", err)
		}
	}
	if len(in.FeaturedImage) > 0 {
		part, err := w.CreateFormFile("featured_image", in.ImageFilename)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(in.FeaturedImage); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// Delete removes an owned recipe by slug.
func (c *Client) Delete(ctx context.Context, slug string) error {
	resp, err := c.request(ctx, http.MethodDelete, "/recipes/"+slug+"/delete/", nil, nil, "", true)
	if err != nil {
		return err
	}
	httputil.DrainAndClose(resp.Body)
	return nil
}

// ToggleFavorite flips the favorite and reports the server's resulting state.
func (c *Client) ToggleFavorite(ctx context.Context, recipeID int64) (bool, error) {
	path := fmt.Sprintf("/recipes/%d/favorite/", recipeID)
	resp, err := c.request(ctx, http.MethodPost, path, nil, bytes.NewReader([]byte("{}")), "application/json", true)
	if err != nil {
		return false, err
	}

	var result struct {
		Favorited bool `json:"favorited"`
	}
	if err := httputil.DecodeJSON(resp, &result); err != nil {
		return false, err
	}
	return result.Favorited, nil
}
