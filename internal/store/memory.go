// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live players for the lifetime of the process.
//
// Characteristics:
//   - Stores *player.Player objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Players idle past a cutoff are evicted by Sweep and torn down.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/numguess/internal/player"
)

// ErrNotFound is returned when no player exists for an ID.
var ErrNotFound = errors.New("player not found")

// Store defines the persistence interface for players.
type Store interface {
	// Save persists or updates a player.
	Save(ctx context.Context, p *player.Player) error

	// Get retrieves a player by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*player.Player, error)
}

// Memory is an in-memory map-based Store.
type Memory struct {
	mu      sync.RWMutex              // guards players map
	players map[string]*player.Player // keyed by Player.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{players: make(map[string]*player.Player)}
}

// Save adds or updates the player in the map. A player closed by an earlier
// eviction is revived so its notice works again.
func (m *Memory) Save(ctx context.Context, p *player.Player) error {
	if p.Closed() {
		p.Revive()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.players[p.ID()]; ok && old != p {
		old.Close()
	}
	m.players[p.ID()] = p
	return nil
}

// Get looks up a player by ID.
func (m *Memory) Get(ctx context.Context, id string) (*player.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

// Len reports how many players are live.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// Sweep evicts players last seen before cutoff and returns them, already
// closed. Callers may persist their profiles.
func (m *Memory) Sweep(cutoff time.Time) []*player.Player {
	return m.evict(func(p *player.Player) bool { return p.LastSeen().Before(cutoff) })
}

// Close tears down every player. Used on shutdown.
func (m *Memory) Close() []*player.Player {
	return m.evict(func(*player.Player) bool { return true })
}

func (m *Memory) evict(match func(*player.Player) bool) []*player.Player {
	m.mu.Lock()
	var evicted []*player.Player
	for id, p := range m.players {
		if match(p) {
			evicted = append(evicted, p)
			delete(m.players, id)
		}
	}
	m.mu.Unlock()

	for _, p := range evicted {
		p.Close()
	}
	return evicted
}
