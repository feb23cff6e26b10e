package store

import (
	"errors"

	"github.com/calvinwijaya/solitaire-be/internal/game"
)

// ErrGameNotFound is returned for unknown game IDs
var ErrGameNotFound = errors.New("game not found")

// Store defines the interface for game storage. Games handed out by GetGame
// and GetAllGames are snapshots; changes go through UpdateGame.
type Store interface {
	// SaveGame saves a game to the store
	SaveGame(g *game.SolitaireGame) error

	// GetGame retrieves a snapshot of a game by ID
	GetGame(id string) (*game.SolitaireGame, error)

	// UpdateGame runs fn on the stored game while holding the store's lock
	// and persists the result. It returns a snapshot taken after fn.
	UpdateGame(id string, fn func(g *game.SolitaireGame) error) (*game.SolitaireGame, error)

	// DeleteGame removes a game from the store
	DeleteGame(id string) error

	// GetAllGames returns all games in the store
	GetAllGames() ([]*game.SolitaireGame, error)
}
