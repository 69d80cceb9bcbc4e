package credstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"recipehub/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creds.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStore_SaveLoadClear(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("fresh store: ok = %v, err = %v, want absent", ok, err)
	}

	pair := model.TokenPair{Access: "A", Refresh: "R"}
	if err := store.Save(ctx, pair); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok || loaded != pair {
		t.Errorf("loaded = %+v ok=%v, want %+v", loaded, ok, pair)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Error("pair still present after clear")
	}
}

func TestStore_RejectsPartialPair(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		pair model.TokenPair
	}{
		{"missing refresh", model.TokenPair{Access: "A"}},
		{"missing access", model.TokenPair{Refresh: "R"}},
		{"empty", model.TokenPair{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(ctx, tt.pair)
			if !errors.Is(err, model.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	pair := model.TokenPair{Access: "A", Refresh: "R"}
	if err := store.Save(ctx, pair); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	loaded, ok, err := reopened.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if loaded != pair {
		t.Errorf("loaded = %+v, want %+v", loaded, pair)
	}
}

func TestStore_HalfPairTreatedAsAbsent(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, model.TokenPair{Access: "A", Refresh: "R"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Simulate external tampering: strip one credential behind the store's back.
	if _, err := store.db.Exec(`DELETE FROM credentials WHERE key = ?`, keyRefresh); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	_, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("half pair reported as present")
	}

	// The remnant must have been cleaned up too.
	var count int
	if err := store.db.Get(&count, `SELECT COUNT(*) FROM credentials`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("%d rows remain after half-pair cleanup, want 0", count)
	}
}

func TestStore_SaveReplacesPreviousPair(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, model.TokenPair{Access: "A1", Refresh: "R1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, model.TokenPair{Access: "A2", Refresh: "R2"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, ok, _ := store.Load(ctx)
	if !ok || loaded.Access != "A2" || loaded.Refresh != "R2" {
		t.Errorf("loaded = %+v, want the second pair", loaded)
	}
}
