package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty levels accepted by the create/edit form.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is a catalog entry as served by the backend.
//
// Favorites and FavoriteCount arrive from independent server fields and are
// not guaranteed equal after a local optimistic patch; only the next resync
// restores FavoriteCount to server truth. Callers must not assume equality.
type Recipe struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Author        string    `json:"author"`
	Category      Category  `json:"category"`
	Description   string    `json:"description"`
	Ingredients   string    `json:"ingredients"`
	Instructions  string    `json:"instructions"`
	Tips          *string   `json:"tips,omitempty"`
	PrepTime      int       `json:"prep_time"`
	CookTime      int       `json:"cook_time"`
	TotalTime     int       `json:"total_time"`
	Difficulty    string    `json:"difficulty"`
	Comments      []Comment `json:"comments"`
	Favorites     []int64   `json:"favorites"`
	IsPublished   bool      `json:"is_published"`
	IsFeatured    bool      `json:"is_featured"`
	IsFavorited   bool      `json:"is_favorited"`
	AverageRating float64   `json:"average_rating"`
	FavoriteCount int       `json:"favorite_count"`
	FeaturedImage *string   `json:"featured_image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FavoritedBy reports whether the given user is in the favorites set.
func (r *Recipe) FavoritedBy(userID int64) bool {
	for _, id := range r.Favorites {
		if id == userID {
			return true
		}
	}
	return false
}

// RecipeInput carries the form fields for create and update. FeaturedImage is
// the raw file content; the gateway prepares it and attaches it as a
// multipart part under the field name "featured_image".
type RecipeInput struct {
	Title         string
	Description   string
	CategoryID    int64
	PrepTime      int
	CookTime      int
	Difficulty    string
	Ingredients   string
	Instructions  string
	Tips          string
	IsPublished   bool
	FeaturedImage []byte
	ImageFilename string
}

// Validate enforces the required create/update fields before encoding.
func (in *RecipeInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("description is required: %w", ErrValidation)
	}
	if in.CategoryID <= 0 {
		return fmt.Errorf("category is required: %w", ErrValidation)
	}
	if in.PrepTime <= 0 || in.CookTime <= 0 {
		return fmt.Errorf("prep and cook times must be positive: %w", ErrValidation)
	}
	switch in.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("difficulty must be easy, medium or hard: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Ingredients) == "" {
		return fmt.Errorf("ingredients are required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Instructions) == "" {
		return fmt.Errorf("instructions are required: %w", ErrValidation)
	}
	return nil
}

// Featured image constraints, mirrored from the upload form.
const (
	MaxImageSizeBytes = 5 * 1024 * 1024
	MaxImageDimension = 1600
)

var (
	ErrInvalidImageType = fmt.Errorf("featured image must be a JPEG or PNG: %w", ErrValidation)
)
