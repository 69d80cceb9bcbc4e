package favorite

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"recipehub/internal/backend"
	"recipehub/internal/model"
)

// Session is the slice of the session manager the coordinator needs.
type Session interface {
	CurrentUser() *model.User
	Authenticated() bool
	RefreshUser(ctx context.Context) error
}

// Catalog is the slice of the catalog store the coordinator patches.
type Catalog interface {
	RecipeByID(id int64) (model.Recipe, bool)
	ApplyFavorite(recipeID, userID int64, favorited bool)
}

// Coordinator toggles a recipe's favorited-by-current-user state with an
// optimistic local patch. Each toggle carries a request id; rollback and
// reconciliation apply only while that id is still the recipe's latest
// outstanding toggle, so a double-click race settles to server truth.
type Coordinator struct {
	api     backend.RecipeAPI
	session Session
	catalog Catalog

	mu      sync.Mutex
	pending map[int64]string
}

func NewCoordinator(api backend.RecipeAPI, session Session, catalog Catalog) *Coordinator {
	return &Coordinator{
		api:     api,
		session: session,
		catalog: catalog,
		pending: make(map[int64]string),
	}
}

// Toggle flips the favorite. Without a session it aborts with ErrAuthRequired
// before any network call. After the call settles the shown state matches
// server truth: rollback on failure, reconcile on success.
func (c *Coordinator) Toggle(ctx context.Context, recipeID int64) error {
	user := c.session.CurrentUser()
	if user == nil {
		if !c.session.Authenticated() {
			return fmt.Errorf("favorite toggle: %w", model.ErrAuthRequired)
		}
		// A live pair with an empty identity cache means the post-login
		// refresh has not landed; retry it instead of treating the
		// session as absent.
		if err := c.session.RefreshUser(ctx); err != nil {
			return fmt.Errorf("favorite toggle: refresh identity: %w", err)
		}
		user = c.session.CurrentUser()
		if user == nil {
			return fmt.Errorf("favorite toggle: %w", model.ErrAuthRequired)
		}
	}

	held, inCatalog := c.catalog.RecipeByID(recipeID)
	wasFavorited := inCatalog && held.FavoritedBy(user.ID)

	requestID := uuid.NewString()
	c.mu.Lock()
	c.pending[recipeID] = requestID
	c.mu.Unlock()

	if inCatalog {
		c.catalog.ApplyFavorite(recipeID, user.ID, !wasFavorited)
	}

	favorited, err := c.api.ToggleFavorite(ctx, recipeID)

	c.mu.Lock()
	latest := c.pending[recipeID] == requestID
	if latest {
		delete(c.pending, recipeID)
	}
	c.mu.Unlock()

	if err != nil {
		if latest && inCatalog {
			c.catalog.ApplyFavorite(recipeID, user.ID, wasFavorited)
		}
		return fmt.Errorf("favorite toggle: %w", err)
	}
	if latest && inCatalog {
		c.catalog.ApplyFavorite(recipeID, user.ID, favorited)
	}
	return nil
}
