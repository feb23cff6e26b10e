package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calvinwijaya/solitaire-be/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a game does not exist
var ErrNotFound = errors.New("not found")

type Database struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the sqlite database at path
func NewDatabase(path string) (*Database, error) {
	// Open database connection
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	// Initialize database tables
	if err := initTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

// initTables creates the necessary tables if they don't exist
func initTables(db *sql.DB) error {
	// Games table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP,
			completed_at TIMESTAMP,
			status TEXT NOT NULL,
			game_state TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating games table: %w", err)
	}

	// Key-value table for the leaderboard
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating kv table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// SaveGame inserts or replaces a game
func (d *Database) SaveGame(g *game.SolitaireGame) error {
	// Convert game state to JSON
	gameState, err := json.Marshal(g)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		INSERT INTO games (id, created_at, updated_at, completed_at, status, game_state)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = excluded.updated_at, completed_at = excluded.completed_at,
			status = excluded.status, game_state = excluded.game_state
	`,
		g.ID, g.CreatedAt, g.UpdatedAt, g.CompletedAt, string(g.Status), string(gameState))
	return err
}

// GetGame retrieves a game by ID
func (d *Database) GetGame(id string) (*game.SolitaireGame, error) {
	var gameState string

	err := d.db.QueryRow(`SELECT game_state FROM games WHERE id = ?`, id).Scan(&gameState)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var g game.SolitaireGame
	if err := json.Unmarshal([]byte(gameState), &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}

	return &g, nil
}

// DeleteGame removes a game from the database
func (d *Database) DeleteGame(id string) error {
	res, err := d.db.Exec("DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAllGames returns all games in the database, newest first
func (d *Database) GetAllGames() ([]*game.SolitaireGame, error) {
	rows, err := d.db.Query(`
		SELECT game_state FROM games ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*game.SolitaireGame
	for rows.Next() {
		var gameState string
		if err := rows.Scan(&gameState); err != nil {
			return nil, err
		}

		var g game.SolitaireGame
		if err := json.Unmarshal([]byte(gameState), &g); err != nil {
			return nil, err
		}

		games = append(games, &g)
	}

	return games, rows.Err()
}

// Get reads a value from the kv table
func (d *Database) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := d.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return value, true, nil
}

// Set writes a value to the kv table
func (d *Database) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}
