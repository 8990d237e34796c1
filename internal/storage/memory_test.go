package storage

import (
	"context"
	"testing"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	if got := store.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty store, got %d entries", len(got))
	}

	meds := []domain.Medicine{{ID: "m1", Name: "Aspirin", Times: []string{"09:00"}}}
	if err := store.Save(ctx, meds); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	meds[0].Times[0] = "10:00"

	loaded := store.Load(ctx)
	if len(loaded) != 1 || loaded[0].Times[0] != "09:00" {
		t.Fatalf("unexpected stored list %+v", loaded)
	}
}

func TestMemoryStorePermission(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	if got := store.LoadPermission(ctx); got != domain.PermissionDefault {
		t.Fatalf("expected default permission, got %s", got)
	}
	if err := store.SavePermission(ctx, domain.PermissionGranted); err != nil {
		t.Fatalf("save permission: %v", err)
	}
	if got := store.LoadPermission(ctx); got != domain.PermissionGranted {
		t.Fatalf("expected granted, got %s", got)
	}
}
