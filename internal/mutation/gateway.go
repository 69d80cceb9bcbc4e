package mutation

import (
	"context"
	"fmt"
	"sync"

	"recipehub/internal/backend"
	"recipehub/internal/model"
)

// Session is the slice of the session manager the gateway needs.
type Session interface {
	Authenticated() bool
}

// Catalog receives targeted patches when a mutation succeeds.
type Catalog interface {
	UpsertRecipe(r model.Recipe)
	RemoveRecipe(slug string)
}

// Gateway performs create/update/delete of recipes owned by the current user.
// Successful mutations patch the catalog store directly instead of forcing a
// full reload. Deletion is a two-step gesture: a slug must be armed before
// the confirm fires, and confirming disarms, so the endpoint is hit exactly
// once per gesture.
type Gateway struct {
	api     backend.RecipeAPI
	session Session
	catalog Catalog

	mu    sync.Mutex
	armed string
}

func NewGateway(api backend.RecipeAPI, session Session, catalog Catalog) *Gateway {
	return &Gateway{api: api, session: session, catalog: catalog}
}

// Create validates the form, prepares the optional image and publishes the
// recipe. The returned entity is applied into the catalog.
func (g *Gateway) Create(ctx context.Context, in *model.RecipeInput) (*model.Recipe, error) {
	if err := g.prepare(in); err != nil {
		return nil, err
	}

	recipe, err := g.api.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	g.catalog.UpsertRecipe(*recipe)
	return recipe, nil
}

// Update replaces an owned recipe's fields and applies the result.
func (g *Gateway) Update(ctx context.Context, slug string, in *model.RecipeInput) (*model.Recipe, error) {
	if err := g.prepare(in); err != nil {
		return nil, err
	}

	recipe, err := g.api.Update(ctx, slug, in)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	g.catalog.UpsertRecipe(*recipe)
	return recipe, nil
}

func (g *Gateway) prepare(in *model.RecipeInput) error {
	if !g.session.Authenticated() {
		return fmt.Errorf("recipe mutation: %w", model.ErrAuthRequired)
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if len(in.FeaturedImage) > 0 {
		prepared, filename, err := PrepareImage(in.FeaturedImage, in.ImageFilename)
		if err != nil {
			return err
		}
		in.FeaturedImage = prepared
		in.ImageFilename = filename
	}
	return nil
}

// ArmDelete marks a slug for deletion. Arming a different slug replaces the
// previous one.
func (g *Gateway) ArmDelete(slug string) {
	g.mu.Lock()
	g.armed = slug
	g.mu.Unlock()
}

// Disarm cancels a pending delete gesture.
func (g *Gateway) Disarm() {
	g.mu.Lock()
	g.armed = ""
	g.mu.Unlock()
}

// Armed returns the slug currently armed for deletion.
func (g *Gateway) Armed() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed, g.armed != ""
}

// ConfirmDelete deletes the armed recipe. Confirming a slug that was never
// armed fails locally without touching the network. The gesture disarms
// before the call goes out, so a racing second confirm cannot fire twice.
func (g *Gateway) ConfirmDelete(ctx context.Context, slug string) error {
	if !g.session.Authenticated() {
		return fmt.Errorf("delete recipe: %w", model.ErrAuthRequired)
	}

	g.mu.Lock()
	if g.armed != slug {
		g.mu.Unlock()
		return fmt.Errorf("delete not armed for %q: %w", slug, model.ErrValidation)
	}
	g.armed = ""
	g.mu.Unlock()

	if err := g.api.Delete(ctx, slug); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	g.catalog.RemoveRecipe(slug)
	return nil
}
