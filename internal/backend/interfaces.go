package backend

import (
	"context"

	"recipehub/internal/model"
)

type AuthAPI interface {
	Login(ctx context.Context, req *model.LoginRequest) (model.TokenPair, error)
	Register(ctx context.Context, req *model.RegisterRequest) error
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, fields *model.ProfileUpdate) (*model.User, error)
}

type RecipeAPI interface {
	List(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error)
	MyRecipes(ctx context.Context) ([]model.Recipe, error)
	Create(ctx context.Context, in *model.RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, slug string, in *model.RecipeInput) (*model.Recipe, error)
	Delete(ctx context.Context, slug string) error
	// ToggleFavorite flips the current user's favorite on the recipe and
	// returns the server's resulting favorited state.
	ToggleFavorite(ctx context.Context, recipeID int64) (bool, error)
}

type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
}
