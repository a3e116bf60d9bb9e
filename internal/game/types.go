// internal/game/types.go
//
// Core type definitions for the number-guessing game.
// Defines:
//   - Outcome: result of comparing one guess to the target.
//   - Status: lifecycle of a single game (active/won/lost).
//   - Game: state for a single in-progress or finished game.
//   - Snapshot: read-only copy handed to views and the JSON API.

package game

// Outcome is the evaluation of one guess against the target.
type Outcome string

const (
	OutcomeTooHigh Outcome = "too_high"
	OutcomeTooLow  Outcome = "too_low"
	OutcomeCorrect Outcome = "correct"
)

// Status is the lifecycle state of a game.
// Won and Lost are terminal until Restart.
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Game holds the state of a single guessing game.
type Game struct {
	ID         string // Unique game identifier (uuid).
	Target     int    // Number to guess, in [1, Range]. Fixed for the game.
	Range      int    // Upper bound captured when the target was drawn.
	MaxGuesses int    // Attempt limit captured when the target was drawn.
	Guesses    []int  // Accepted guesses in submission order.
	Status     Status // Active, Won or Lost.
	Message    string // Status line shown to the player.

	// OnWin is called with the attempt count when the game is won.
	OnWin func(attempts int)

	src Source
}

// Snapshot is a copy of a game safe to render or encode.
// Target is zero while the game is active.
type Snapshot struct {
	ID         string `json:"id"`
	Range      int    `json:"range"`
	MaxGuesses int    `json:"maxGuesses"`
	Guesses    []int  `json:"guesses"`
	Remaining  int    `json:"remaining"`
	Status     Status `json:"status"`
	Message    string `json:"message"`
	Target     int    `json:"target,omitempty"`
}
