package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"recipehub/internal/backend"
	"recipehub/internal/catalog"
	"recipehub/internal/config"
	"recipehub/internal/credstore"
	"recipehub/internal/favorite"
	"recipehub/internal/model"
	"recipehub/internal/mutation"
	"recipehub/internal/overlay"
	"recipehub/internal/session"
)

// App wires the synchronization core together and routes the cross-component
// signals: login closes the authentication overlay, registration opens the
// profile overlay, mutations close their editors, logout closes everything.
type App struct {
	Session   *session.Manager
	Catalog   *catalog.Store
	Favorites *favorite.Coordinator
	Mutations *mutation.Gateway
	Overlays  *overlay.Orchestrator

	creds *credstore.Store
}

func New(cfg *config.Config) (*App, error) {
	creds, err := credstore.Open(cfg.CredentialsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	client := backend.NewClient(cfg.BackendBaseURL, cfg.HTTPTimeout)
	sess := session.NewManager(client, creds)
	client.SetCredentialSource(sess)

	cat := catalog.NewStore(client, client)
	overlays := overlay.New()

	return &App{
		Session:   sess,
		Catalog:   cat,
		Favorites: favorite.NewCoordinator(client, sess, cat),
		Mutations: mutation.NewGateway(client, sess, cat),
		Overlays:  overlays,
		creds:     creds,
	}, nil
}

// Init rehydrates the session, loads categories and issues the first catalog
// fetch with the default filter.
func (a *App) Init(ctx context.Context) error {
	if err := a.Session.Init(ctx); err != nil {
		return err
	}
	if err := a.Catalog.LoadCategories(ctx); err != nil {
		log.Printf("app: category load failed: %v", err)
	}
	a.Catalog.SetFilter(ctx, model.DefaultFilter())
	return nil
}

// Close releases the catalog's in-flight work and the credential store.
func (a *App) Close() error {
	a.Catalog.Close()
	return a.creds.Close()
}

// RequestAuthentication opens the login/registration overlay. Ignored while a
// session exists; the gesture is only reachable signed out.
func (a *App) RequestAuthentication() {
	if a.Session.Authenticated() {
		return
	}
	a.Overlays.ShowAuthentication()
}

// Login authenticates, closes the authentication overlay and refreshes the
// catalog so per-user fields like is_favorited are populated.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := a.Session.Login(ctx, email, password); err != nil {
		return err
	}
	a.Overlays.Close()
	a.Catalog.Refresh(ctx)
	return nil
}

// Register creates the account and opens the profile overlay as onboarding.
// The user is not authenticated by registration alone.
func (a *App) Register(ctx context.Context, req *model.RegisterRequest) error {
	if err := a.Session.Register(ctx, req); err != nil {
		return err
	}
	a.Overlays.ShowProfile()
	return nil
}

// Logout tears the session down and force-closes every overlay, since they
// all assume an authenticated identity for their mutating actions.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Session.Logout(ctx); err != nil {
		return err
	}
	a.Overlays.ForceCloseAll()
	return nil
}

// SaveProfile persists profile edits and closes the profile overlay.
func (a *App) SaveProfile(ctx context.Context, fields *model.ProfileUpdate) error {
	if _, err := a.Session.UpdateProfile(ctx, fields); err != nil {
		return a.mapAuthFailure(ctx, err)
	}
	a.Overlays.Close()
	return nil
}

// ToggleFavorite runs the optimistic toggle. ErrAuthRequired surfaces to the
// caller as the login prompt signal.
func (a *App) ToggleFavorite(ctx context.Context, recipeID int64) error {
	if err := a.Favorites.Toggle(ctx, recipeID); err != nil {
		return a.mapAuthFailure(ctx, err)
	}
	return nil
}

// CreateRecipe publishes and closes the create overlay on success.
func (a *App) CreateRecipe(ctx context.Context, in *model.RecipeInput) (*model.Recipe, error) {
	recipe, err := a.Mutations.Create(ctx, in)
	if err != nil {
		return nil, a.mapAuthFailure(ctx, err)
	}
	a.Overlays.Close()
	return recipe, nil
}

// UpdateRecipe saves edits and closes the edit overlay on success.
func (a *App) UpdateRecipe(ctx context.Context, slug string, in *model.RecipeInput) (*model.Recipe, error) {
	recipe, err := a.Mutations.Update(ctx, slug, in)
	if err != nil {
		return nil, a.mapAuthFailure(ctx, err)
	}
	a.Overlays.Close()
	return recipe, nil
}

// DeleteRecipe confirms a previously armed delete and closes the overlay the
// recipe was shown in.
func (a *App) DeleteRecipe(ctx context.Context, slug string) error {
	if err := a.Mutations.ConfirmDelete(ctx, slug); err != nil {
		return a.mapAuthFailure(ctx, err)
	}
	a.Overlays.Close()
	return nil
}

// mapAuthFailure turns a backend 401 on an established session into a forced
// logout: the credential is dead, keeping it would make every authenticated
// call fail the same way.
func (a *App) mapAuthFailure(ctx context.Context, err error) error {
	if errors.Is(err, model.ErrAuthRequired) && a.Session.Authenticated() {
		if terr := a.Session.Invalidate(ctx); terr != nil {
			log.Printf("app: session teardown failed: %v", terr)
		}
		a.Overlays.ForceCloseAll()
	}
	return err
}
