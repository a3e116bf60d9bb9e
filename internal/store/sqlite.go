// internal/store/sqlite.go
//
// SQLite-backed profile persistence.
//   - Profiles: load/upsert a player's settings and stats by ID.
//   - Persistent: a Store that keeps live players in a Memory store and
//     writes their profile through to SQLite on every Save.
//
// Games in progress and notices are never persisted; a restored player
// starts a fresh game with its saved settings.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/player"
)

// Profiles reads and writes the players table.
type Profiles struct{ db *sql.DB }

// NewProfiles wraps a migrated database.
func NewProfiles(db *sql.DB) *Profiles { return &Profiles{db: db} }

// Load returns the saved profile for id, or ErrNotFound.
func (s *Profiles) Load(ctx context.Context, id string) (player.Profile, error) {
	var p player.Profile
	err := s.db.QueryRowContext(ctx, `
        SELECT range_max, max_guesses, games_won, total_guesses
        FROM players WHERE id=?`, id,
	).Scan(&p.Settings.Range, &p.Settings.MaxGuesses, &p.Stats.GamesWon, &p.Stats.TotalGuesses)
	if errors.Is(err, sql.ErrNoRows) {
		return player.Profile{}, ErrNotFound
	}
	if err != nil {
		return player.Profile{}, err
	}
	return p, nil
}

// Put inserts or replaces the profile for id.
func (s *Profiles) Put(ctx context.Context, id string, p player.Profile) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO players (id, range_max, max_guesses, games_won, total_guesses, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            range_max=excluded.range_max,
            max_guesses=excluded.max_guesses,
            games_won=excluded.games_won,
            total_guesses=excluded.total_guesses,
            updated_at=excluded.updated_at`,
		id, p.Settings.Range, p.Settings.MaxGuesses, p.Stats.GamesWon, p.Stats.TotalGuesses,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Restorer builds a live player from a saved profile.
type Restorer func(id string, prof player.Profile) *player.Player

// Persistent is a write-through Store over Memory and Profiles.
type Persistent struct {
	mem      *Memory
	profiles *Profiles
	restore  Restorer
}

// NewPersistent wraps mem so profiles survive restarts.
func NewPersistent(mem *Memory, profiles *Profiles, restore Restorer) *Persistent {
	return &Persistent{mem: mem, profiles: profiles, restore: restore}
}

// Get returns the live player, reviving it from SQLite when it was evicted
// or the process restarted.
func (s *Persistent) Get(ctx context.Context, id string) (*player.Player, error) {
	if p, err := s.mem.Get(ctx, id); err == nil {
		return p, nil
	}
	prof, err := s.profiles.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := s.restore(id, prof)
	if err := s.mem.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Debug().Str("player", id).Msg("restored player profile")
	return p, nil
}

// Save keeps p live and writes its profile through.
func (s *Persistent) Save(ctx context.Context, p *player.Player) error {
	if err := s.mem.Save(ctx, p); err != nil {
		return err
	}
	return s.profiles.Put(ctx, p.ID(), p.Profile())
}

// Flush writes the profiles of evicted players. Used after Sweep and Close.
func (s *Persistent) Flush(ctx context.Context, players []*player.Player) error {
	var errs []error
	for _, p := range players {
		if err := s.profiles.Put(ctx, p.ID(), p.Profile()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
