// internal/game/engine.go
//
// Game engine for a single number-guessing session.
// Responsibilities:
//   - Draw a uniform target in [1, range] on creation and restart.
//   - Parse, evaluate and record guesses.
//   - Track state transitions: active → won/lost.
//   - Fire the win callback with the attempt count.
//
// Notes:
//   - A game captures Range and MaxGuesses when it is drawn; later settings
//     changes only apply after Restart.
//   - Non-numeric input is rejected and does not use up an attempt.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/robalobadob/numguess/internal/settings"
)

const (
	msgTooHigh = "Too high"
	msgTooLow  = "Too low"
	msgCorrect = "Guessed correctly"
	msgLost    = "Out of guesses - the number was %d"
)

var (
	ErrFinished     = errors.New("game finished")
	ErrInvalidGuess = errors.New("guess must be a whole number")
)

// New constructs a game with a fresh target drawn from src.
func New(cfg settings.Settings, src Source) *Game {
	g := &Game{src: src}
	g.Restart(cfg)
	return g
}

// Draw returns a uniform integer in [1, n]. n below one is treated as one.
func Draw(src Source, n int) int {
	if n < 1 {
		n = 1
	}
	return src.IntN(n) + 1
}

// Evaluate compares guess to target.
func Evaluate(guess, target int) Outcome {
	switch {
	case guess == target:
		return OutcomeCorrect
	case guess > target:
		return OutcomeTooHigh
	default:
		return OutcomeTooLow
	}
}

// Restart draws a new target from cfg and reactivates the game.
// The win callback is kept.
func (g *Game) Restart(cfg settings.Settings) {
	g.ID = uuid.NewString()
	g.Range = cfg.Range
	g.MaxGuesses = cfg.MaxGuesses
	g.Target = Draw(g.src, cfg.Range)
	g.Guesses = []int{}
	g.Status = StatusActive
	g.Message = ""
}

// Submit parses raw as an integer and applies it as a guess.
func (g *Game) Submit(raw string) (Outcome, error) {
	if g.Status != StatusActive {
		return "", ErrFinished
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidGuess
	}
	return g.Guess(n)
}

// Guess applies one attempt and updates the status message.
//
// State transitions:
//   - Exact match → Won, OnWin(len(Guesses)).
//   - Otherwise, once len(Guesses) reaches MaxGuesses → Lost.
func (g *Game) Guess(n int) (Outcome, error) {
	if g.Status != StatusActive || len(g.Guesses) >= g.MaxGuesses {
		return "", ErrFinished
	}
	g.Guesses = append(g.Guesses, n)

	out := Evaluate(n, g.Target)
	switch out {
	case OutcomeCorrect:
		g.Status = StatusWon
		g.Message = msgCorrect
		if g.OnWin != nil {
			g.OnWin(len(g.Guesses))
		}
		return out, nil
	case OutcomeTooHigh:
		g.Message = msgTooHigh
	case OutcomeTooLow:
		g.Message = msgTooLow
	}

	if len(g.Guesses) >= g.MaxGuesses {
		g.Status = StatusLost
		g.Message = fmt.Sprintf(msgLost, g.Target)
	}
	return out, nil
}

// Remaining reports how many attempts are left.
func (g *Game) Remaining() int {
	if r := g.MaxGuesses - len(g.Guesses); r > 0 {
		return r
	}
	return 0
}

// Active reports whether guesses are still accepted.
func (g *Game) Active() bool { return g.Status == StatusActive }

// Snapshot copies the game for rendering. The target is revealed only
// after the game ends.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:         g.ID,
		Range:      g.Range,
		MaxGuesses: g.MaxGuesses,
		Guesses:    append([]int(nil), g.Guesses...),
		Remaining:  g.Remaining(),
		Status:     g.Status,
		Message:    g.Message,
	}
	if s.Guesses == nil {
		s.Guesses = []int{}
	}
	if g.Status != StatusActive {
		s.Target = g.Target
	}
	return s
}
