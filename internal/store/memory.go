package store

import (
	"sync"

	"github.com/calvinwijaya/solitaire-be/internal/game"
)

// MemoryStore is an in-memory implementation of game storage
type MemoryStore struct {
	games map[string]*game.SolitaireGame
	mu    sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*game.SolitaireGame),
	}
}

// SaveGame saves a copy of the game to the store
func (s *MemoryStore) SaveGame(g *game.SolitaireGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[g.ID] = g.Clone()
	return nil
}

// GetGame retrieves a game by ID
func (s *MemoryStore) GetGame(id string) (*game.SolitaireGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.games[id]
	if !exists {
		return nil, ErrGameNotFound
	}

	return g.Clone(), nil
}

// UpdateGame applies fn to the stored game under the write lock
func (s *MemoryStore) UpdateGame(id string, fn func(g *game.SolitaireGame) error) (*game.SolitaireGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, exists := s.games[id]
	if !exists {
		return nil, ErrGameNotFound
	}

	// Work on a copy so a failing fn leaves the stored game untouched
	working := g.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.games[id] = working

	return working.Clone(), nil
}

// DeleteGame removes a game from the store
func (s *MemoryStore) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; !exists {
		return ErrGameNotFound
	}

	delete(s.games, id)
	return nil
}

// GetAllGames returns all games in the store
func (s *MemoryStore) GetAllGames() ([]*game.SolitaireGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*game.SolitaireGame, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g.Clone())
	}

	return games, nil
}
