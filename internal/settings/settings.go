// internal/settings/settings.go
//
// Game settings shared by every view of a player.
// Responsibilities:
//   - Hold the effective number range and attempt limit.
//   - Provide defaults (1–100, five guesses).
//   - Validate and parse user-submitted values.
//
// Settings are plain values; ownership and mutation live in the player package.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultRange      = 100
	DefaultMaxGuesses = 5
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Settings holds the values governing new games.
type Settings struct {
	Range      int `json:"range"`      // Targets are drawn from [1, Range].
	MaxGuesses int `json:"maxGuesses"` // Attempts allowed per game.
}

// Default returns the settings a new player starts with.
func Default() Settings {
	return Settings{Range: DefaultRange, MaxGuesses: DefaultMaxGuesses}
}

// Validate enforces Range ≥ 1 and MaxGuesses ≥ 1.
func (s Settings) Validate() error {
	if s.Range < 1 {
		return fmt.Errorf("%w: range must be at least 1", ErrInvalid)
	}
	if s.MaxGuesses < 1 {
		return fmt.Errorf("%w: max guesses must be at least 1", ErrInvalid)
	}
	return nil
}

// Parse builds Settings from raw form values and validates them.
func Parse(rawRange, rawMaxGuesses string) (Settings, error) {
	r, err := strconv.Atoi(strings.TrimSpace(rawRange))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: range must be a whole number", ErrInvalid)
	}
	m, err := strconv.Atoi(strings.TrimSpace(rawMaxGuesses))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: max guesses must be a whole number", ErrInvalid)
	}
	s := Settings{Range: r, MaxGuesses: m}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
