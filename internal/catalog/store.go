package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"recipehub/internal/backend"
	"recipehub/internal/model"
)

// Status is the store's fetch state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Store keeps the filtered recipe list and the category list in sync with the
// backend. Every fetch carries a monotonically increasing sequence number and
// runs under its own cancellable context; a response is applied only while it
// is still the latest issued, so a slow stale response can never overwrite a
// newer one. On fetch failure the previously held list is preserved; a
// cancelled fetch is discarded without entering the error state.
type Store struct {
	recipes    backend.RecipeAPI
	categories backend.CategoryAPI

	mu      sync.Mutex
	filter  model.FilterCriteria
	list    []model.Recipe
	cats    []model.Category
	status  Status
	lastErr error
	seq     uint64
	cancel  context.CancelFunc

	fetches sync.WaitGroup
}

func NewStore(recipes backend.RecipeAPI, categories backend.CategoryAPI) *Store {
	return &Store{
		recipes:    recipes,
		categories: categories,
		filter:     model.DefaultFilter(),
	}
}

// SetFilter replaces the filter, cancels the in-flight fetch and issues a new
// one with the new criteria.
func (s *Store) SetFilter(ctx context.Context, criteria model.FilterCriteria) {
	s.startFetch(ctx, criteria)
}

// Refresh re-derives the held list from a fresh fetch with the current
// filter. Mutation results and login/logout transitions use it to restore
// server truth.
func (s *Store) Refresh(ctx context.Context) {
	s.startFetch(ctx, s.Filter())
}

func (s *Store) startFetch(ctx context.Context, criteria model.FilterCriteria) {
	s.mu.Lock()
	s.filter = criteria
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.status = StatusLoading
	s.fetches.Add(1)
	s.mu.Unlock()

	go s.fetch(fetchCtx, seq, criteria)
}

func (s *Store) fetch(ctx context.Context, seq uint64, criteria model.FilterCriteria) {
	defer s.fetches.Done()

	list, err := s.recipes.List(ctx, criteria)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// A newer fetch was issued while this one was in flight.
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Cancellation comes from Close or a superseding fetch,
			// never from the backend.
			s.status = StatusIdle
			s.lastErr = nil
			return
		}
		s.status = StatusError
		s.lastErr = err
		return
	}
	s.list = list
	s.status = StatusIdle
	s.lastErr = nil
}

// Wait blocks until every issued fetch has settled. Intended for tests and
// shutdown; the UI reads Status instead.
func (s *Store) Wait() {
	s.fetches.Wait()
}

// Close cancels any in-flight fetch.
func (s *Store) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.fetches.Wait()
}

// LoadCategories fetches the category list. Synchronous: categories gate the
// create/edit form and the filter dropdown.
func (s *Store) LoadCategories(ctx context.Context) error {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	s.mu.Lock()
	s.cats = cats
	s.mu.Unlock()
	return nil
}

// MyRecipes fetches the current user's recipes. The result is returned, not
// held; the my-recipes surface owns its own copy.
func (s *Store) MyRecipes(ctx context.Context) ([]model.Recipe, error) {
	return s.recipes.MyRecipes(ctx)
}

// Recipes returns a copy of the held list.
func (s *Store) Recipes() []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Recipe, len(s.list))
	copy(out, s.list)
	return out
}

// Categories returns a copy of the held category list.
func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, len(s.cats))
	copy(out, s.cats)
	return out
}

// Status returns the fetch state and, in the error state, the cause.
func (s *Store) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// Filter returns the current criteria.
func (s *Store) Filter() model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// RecipeByID returns a copy of the held recipe, if present.
func (s *Store) RecipeByID(id int64) (model.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == id {
			return s.list[i], true
		}
	}
	return model.Recipe{}, false
}

// UpsertRecipe applies a mutation result directly into the held list: an
// existing entry is replaced in place, a new one is prepended.
func (s *Store) UpsertRecipe(r model.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == r.ID {
			s.list[i] = r
			return
		}
	}
	s.list = append([]model.Recipe{r}, s.list...)
}

// RemoveRecipe drops a deleted recipe from the held list.
func (s *Store) RemoveRecipe(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].Slug == slug {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

// ApplyFavorite patches one recipe's favorites set for the given user. The
// count moves only when membership actually changes, so replaying the same
// state is a no-op and reconciliation cannot double-count.
func (s *Store) ApplyFavorite(recipeID, userID int64, favorited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID != recipeID {
			continue
		}
		r := &s.list[i]
		was := r.FavoritedBy(userID)
		if favorited == was {
			return
		}
		if favorited {
			r.Favorites = append(r.Favorites, userID)
			r.FavoriteCount++
		} else {
			for j, id := range r.Favorites {
				if id == userID {
					r.Favorites = append(r.Favorites[:j], r.Favorites[j+1:]...)
					break
				}
			}
			if r.FavoriteCount > 0 {
				r.FavoriteCount--
			}
		}
		r.IsFavorited = favorited
		return
	}
}
