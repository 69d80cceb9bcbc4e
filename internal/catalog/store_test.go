package catalog

import (
	"context"
	"errors"
	"testing"

	"recipehub/internal/model"
)

type mockRecipeAPI struct {
	listFn func(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error)
	myFn   func(ctx context.Context) ([]model.Recipe, error)
}

func (m *mockRecipeAPI) List(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockRecipeAPI) MyRecipes(ctx context.Context) ([]model.Recipe, error) {
	if m.myFn != nil {
		return m.myFn(ctx)
	}
	return nil, nil
}

func (m *mockRecipeAPI) Create(ctx context.Context, in *model.RecipeInput) (*model.Recipe, error) {
	return nil, errors.New("not supported")
}

func (m *mockRecipeAPI) Update(ctx context.Context, slug string, in *model.RecipeInput) (*model.Recipe, error) {
	return nil, errors.New("not supported")
}

func (m *mockRecipeAPI) Delete(ctx context.Context, slug string) error {
	return errors.New("not supported")
}

func (m *mockRecipeAPI) ToggleFavorite(ctx context.Context, recipeID int64) (bool, error) {
	return false, errors.New("not supported")
}

type mockCategoryAPI struct {
	listFn func(ctx context.Context) ([]model.Category, error)
}

func (m *mockCategoryAPI) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func recipesNamed(slugs ...string) []model.Recipe {
	out := make([]model.Recipe, len(slugs))
	for i, slug := range slugs {
		out[i] = model.Recipe{ID: int64(i + 1), Slug: slug, Title: slug}
	}
	return out
}

func slugsOf(recipes []model.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Slug
	}
	return out
}

func TestStore_SetFilterFetches(t *testing.T) {
	api := &mockRecipeAPI{
		listFn: func(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
			if filter.SearchTerm != "cake" {
				t.Errorf("search term = %q, want cake", filter.SearchTerm)
			}
			return recipesNamed("chocolate-cake"), nil
		},
	}
	s := NewStore(api, &mockCategoryAPI{})

	s.SetFilter(context.Background(), model.FilterCriteria{SearchTerm: "cake", CategoryID: model.CategoryAll})
	s.Wait()

	status, err := s.Status()
	if status != StatusIdle || err != nil {
		t.Fatalf("status = %v err = %v, want idle", status, err)
	}
	if got := slugsOf(s.Recipes()); len(got) != 1 || got[0] != "chocolate-cake" {
		t.Errorf("recipes = %v, want [chocolate-cake]", got)
	}
}

func TestStore_StaleResponseDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})

	api := &mockRecipeAPI{}
	api.listFn = func(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
		if filter.SearchTerm == "slow" {
			close(slowStarted)
			<-slowRelease
			return recipesNamed("stale-answer"), nil
		}
		return recipesNamed("fresh-answer"), nil
	}
	s := NewStore(api, &mockCategoryAPI{})

	// First fetch stalls in flight.
	s.SetFilter(context.Background(), model.FilterCriteria{SearchTerm: "slow", CategoryID: model.CategoryAll})
	<-slowStarted

	// A newer filter supersedes it and resolves immediately.
	s.SetFilter(context.Background(), model.FilterCriteria{SearchTerm: "fast", CategoryID: model.CategoryAll})

	// Now the stale response arrives late.
	close(slowRelease)
	s.Wait()

	if got := slugsOf(s.Recipes()); len(got) != 1 || got[0] != "fresh-answer" {
		t.Errorf("recipes = %v, want the newer fetch's result to stand", got)
	}
	if status, err := s.Status(); status != StatusIdle || err != nil {
		t.Errorf("status = %v err = %v, want idle", status, err)
	}
}

func TestStore_SupersededFetchIsCancelled(t *testing.T) {
	firstStarted := make(chan struct{})
	cancelled := make(chan struct{})

	api := &mockRecipeAPI{}
	first := true
	api.listFn = func(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
		if first {
			first = false
			close(firstStarted)
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return recipesNamed("winner"), nil
	}
	s := NewStore(api, &mockCategoryAPI{})

	s.SetFilter(context.Background(), model.FilterCriteria{SearchTerm: "one", CategoryID: model.CategoryAll})
	<-firstStarted
	s.SetFilter(context.Background(), model.FilterCriteria{SearchTerm: "two", CategoryID: model.CategoryAll})

	<-cancelled
	s.Wait()

	if got := slugsOf(s.Recipes()); len(got) != 1 || got[0] != "winner" {
		t.Errorf("recipes = %v, want [winner]", got)
	}
}

func TestStore_CloseDiscardsCancelledFetch(t *testing.T) {
	started := make(chan struct{})
	api := &mockRecipeAPI{
		listFn: func(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
			if filter.SearchTerm == "" {
				return recipesNamed("kept"), nil
			}
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	s := NewStore(api, &mockCategoryAPI{})

	s.SetFilter(context.Background(), model.DefaultFilter())
	s.Wait()

	s.SetFilter(context.Background(), model.FilterCriteria{SearchTerm: "slow", CategoryID: model.CategoryAll})
	<-started
	s.Close()

	// Shutdown cancelled the in-flight fetch; that is not an error state.
	if status, err := s.Status(); status != StatusIdle || err != nil {
		t.Errorf("status = %v err = %v, want idle after shutdown", status, err)
	}
	if got := slugsOf(s.Recipes()); len(got) != 1 || got[0] != "kept" {
		t.Errorf("recipes = %v, want the held list preserved", got)
	}
}

func TestStore_FetchErrorPreservesList(t *testing.T) {
	fail := false
	api := &mockRecipeAPI{
		listFn: func(ctx context.Context, filter model.FilterCriteria) ([]model.Recipe, error) {
			if fail {
				return nil, errors.New("connection reset")
			}
			return recipesNamed("kept"), nil
		},
	}
	s := NewStore(api, &mockCategoryAPI{})

	s.SetFilter(context.Background(), model.DefaultFilter())
	s.Wait()

	fail = true
	s.Refresh(context.Background())
	s.Wait()

	status, err := s.Status()
	if status != StatusError || err == nil {
		t.Errorf("status = %v err = %v, want error state", status, err)
	}
	if got := slugsOf(s.Recipes()); len(got) != 1 || got[0] != "kept" {
		t.Errorf("recipes = %v, want the previous list preserved", got)
	}
}

func TestStore_LoadCategories(t *testing.T) {
	api := &mockCategoryAPI{
		listFn: func(ctx context.Context) ([]model.Category, error) {
			return []model.Category{{ID: 1, Name: "Dessert", Slug: "dessert"}}, nil
		},
	}
	s := NewStore(&mockRecipeAPI{}, api)

	if err := s.LoadCategories(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cats := s.Categories(); len(cats) != 1 || cats[0].Slug != "dessert" {
		t.Errorf("categories = %v, want [dessert]", cats)
	}
}

func TestStore_UpsertAndRemove(t *testing.T) {
	s := NewStore(&mockRecipeAPI{}, &mockCategoryAPI{})

	s.UpsertRecipe(model.Recipe{ID: 1, Slug: "first", Title: "First"})
	s.UpsertRecipe(model.Recipe{ID: 2, Slug: "second", Title: "Second"})

	// New entries are prepended.
	if got := slugsOf(s.Recipes()); got[0] != "second" {
		t.Errorf("order = %v, want newest first", got)
	}

	// Replacement happens in place.
	s.UpsertRecipe(model.Recipe{ID: 1, Slug: "first", Title: "First, revised"})
	if got := s.Recipes(); len(got) != 2 {
		t.Fatalf("upsert of existing recipe grew the list to %d", len(got))
	}
	if r, ok := s.RecipeByID(1); !ok || r.Title != "First, revised" {
		t.Errorf("recipe 1 = %+v, want the revised entry", r)
	}

	s.RemoveRecipe("second")
	if got := slugsOf(s.Recipes()); len(got) != 1 || got[0] != "first" {
		t.Errorf("recipes after remove = %v, want [first]", got)
	}
}

func TestStore_ApplyFavorite(t *testing.T) {
	s := NewStore(&mockRecipeAPI{}, &mockCategoryAPI{})
	s.UpsertRecipe(model.Recipe{ID: 1, Slug: "cake", Favorites: []int64{7}, FavoriteCount: 1})

	s.ApplyFavorite(1, 42, true)
	r, _ := s.RecipeByID(1)
	if !r.FavoritedBy(42) || r.FavoriteCount != 2 || !r.IsFavorited {
		t.Errorf("after favorite: %+v", r)
	}

	// Replaying the same state is a no-op; reconciliation cannot double-count.
	s.ApplyFavorite(1, 42, true)
	if r, _ := s.RecipeByID(1); r.FavoriteCount != 2 {
		t.Errorf("count = %d after replay, want 2", r.FavoriteCount)
	}

	s.ApplyFavorite(1, 42, false)
	r, _ = s.RecipeByID(1)
	if r.FavoritedBy(42) || r.FavoriteCount != 1 {
		t.Errorf("after unfavorite: %+v", r)
	}

	// Unknown recipes are ignored.
	s.ApplyFavorite(99, 42, true)
}
