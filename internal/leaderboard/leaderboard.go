package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	// Key is the storage key holding the encoded list
	Key = "solitaire-leaderboard"

	// MaxEntries is how many of the fastest times are kept
	MaxEntries = 5
)

// ErrEmptyName is returned when a name is blank after trimming
var ErrEmptyName = errors.New("name is required")

// Entry is one finished game on the board
type Entry struct {
	Name string `json:"name"`
	Time int    `json:"time"` // seconds
}

// KV is the key-value storage the leaderboard lives in
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Leaderboard keeps the fastest completion times, ascending
type Leaderboard struct {
	kv KV
	mu sync.Mutex
}

// New creates a leaderboard backed by kv
func New(kv KV) *Leaderboard {
	return &Leaderboard{kv: kv}
}

// List returns the stored entries. A missing or corrupt value reads as empty.
func (l *Leaderboard) List(ctx context.Context) ([]Entry, error) {
	raw, ok, err := l.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if !ok {
		return []Entry{}, nil
	}
	return Decode(raw), nil
}

// Record adds a finished game and keeps only the fastest MaxEntries times.
// It returns the updated list.
func (l *Leaderboard) Record(ctx context.Context, name string, seconds int) ([]Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if seconds < 0 {
		seconds = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	entries = append(entries, Entry{Name: name, Time: seconds})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := l.kv.Set(ctx, Key, data); err != nil {
		return nil, fmt.Errorf("write leaderboard: %w", err)
	}

	return entries, nil
}

// Decode parses a stored list, treating anything unparseable as empty
func Decode(raw []byte) []Entry {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return []Entry{}
	}
	return entries
}

// MemoryKV is an in-process KV used when no database is available
type MemoryKV struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryKV creates an empty in-memory KV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores a copy of value under key
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}
