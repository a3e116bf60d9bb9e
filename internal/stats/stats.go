// Package stats aggregates results across games.
package stats

import "math"

// Stats holds cross-game totals. Both counters only ever grow.
type Stats struct {
	GamesWon     int `json:"gamesWon"`
	TotalGuesses int `json:"totalGuesses"` // Sum of attempts over won games.
}

// Summary is the read-only projection shown on the stats view.
type Summary struct {
	GamesWon       int `json:"gamesWon"`
	AverageGuesses int `json:"averageGuesses"`
}

// RecordWin adds one won game that took attempts guesses.
// Values below one are ignored.
func (s *Stats) RecordWin(attempts int) {
	if attempts < 1 {
		return
	}
	s.GamesWon++
	s.TotalGuesses += attempts
}

// Average returns round(TotalGuesses/GamesWon), or 0 before the first win.
// Halves round up.
func (s Stats) Average() int {
	if s.GamesWon <= 0 {
		return 0
	}
	return int(math.Floor(float64(s.TotalGuesses)/float64(s.GamesWon) + 0.5))
}

// Summary projects the stats for display.
func (s Stats) Summary() Summary {
	return Summary{GamesWon: s.GamesWon, AverageGuesses: s.Average()}
}
