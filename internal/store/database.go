package store

import (
	"errors"
	"sync"

	"github.com/calvinwijaya/solitaire-be/internal/db"
	"github.com/calvinwijaya/solitaire-be/internal/game"
)

// DatabaseStore is a database implementation of game storage
type DatabaseStore struct {
	db *db.Database
	mu sync.Mutex
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.Database) *DatabaseStore {
	return &DatabaseStore{
		db: database,
	}
}

// SaveGame saves a game to the database
func (s *DatabaseStore) SaveGame(g *game.SolitaireGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.SaveGame(g)
}

// GetGame retrieves a game by ID
func (s *DatabaseStore) GetGame(id string) (*game.SolitaireGame, error) {
	g, err := s.db.GetGame(id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	return g, err
}

// UpdateGame loads, mutates and saves a game as one step
func (s *DatabaseStore) UpdateGame(id string, fn func(g *game.SolitaireGame) error) (*game.SolitaireGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.GetGame(id)
	if err != nil {
		return nil, err
	}

	if err := fn(g); err != nil {
		return nil, err
	}

	if err := s.db.SaveGame(g); err != nil {
		return nil, err
	}

	return g.Clone(), nil
}

// DeleteGame removes a game from the database
func (s *DatabaseStore) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.DeleteGame(id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrGameNotFound
	}
	return err
}

// GetAllGames returns all games in the database
func (s *DatabaseStore) GetAllGames() ([]*game.SolitaireGame, error) {
	return s.db.GetAllGames()
}
