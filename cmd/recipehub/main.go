package main

import (
	"context"
	"log"

	"recipehub/internal/app"
	"recipehub/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config failed: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.Init(ctx); err != nil {
		log.Fatalf("Init failed: %v", err)
	}
	a.Catalog.Wait()

	status, ferr := a.Catalog.Status()
	log.Printf("catalog: %d recipes, %d categories, status %s", len(a.Catalog.Recipes()), len(a.Catalog.Categories()), status)
	if ferr != nil {
		log.Printf("catalog: last fetch error: %v", ferr)
	}
	if user := a.Session.CurrentUser(); user != nil {
		log.Printf("signed in as %s", user.Username)
	}
}
