package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/calvinwijaya/solitaire-be/internal/game"
	"github.com/calvinwijaya/solitaire-be/internal/leaderboard"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()

	d, err := NewDatabase(filepath.Join(t.TempDir(), "solitaire.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSaveAndGetGame(t *testing.T) {
	d := openTestDB(t)
	g := game.NewSolitaireGame(game.NewSeededRNG(1))

	if err := d.SaveGame(g); err != nil {
		t.Fatalf("save: %v", err)
	}

	g.DrawFromStock()
	if err := d.SaveGame(g); err != nil {
		t.Fatalf("save again: %v", err)
	}

	loaded, err := d.GetGame(g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Waste) != 1 || len(loaded.Stock) != 23 {
		t.Fatalf("expected the updated state, got waste=%d stock=%d", len(loaded.Waste), len(loaded.Stock))
	}

	all, err := d.GetAllGames()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one game, got %d", len(all))
	}
}

func TestGetGame_NotFound(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.GetGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := d.DeleteGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestLeaderboardOnDatabase(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	lb := leaderboard.New(d)

	if _, err := lb.Record(ctx, "ada", 300); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := lb.Record(ctx, "grace", 150); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := lb.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "grace" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}
