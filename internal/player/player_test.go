package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/internal/flash"
	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/settings"
	"github.com/robalobadob/numguess/internal/stats"
)

type fixedSource int

func (f fixedSource) IntN(int) int { return int(f) - 1 }

type manualTimer struct{ stopped bool }

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

// manualClock keeps the last scheduled callback so a test can fire it.
type manualClock struct {
	fire  func()
	timer *manualTimer
	delay time.Duration
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) flash.Timer {
	c.fire, c.delay, c.timer = f, d, &manualTimer{}
	return c.timer
}

func TestNewUsesProfile(t *testing.T) {
	prof := Profile{
		Settings: settings.Settings{Range: 10, MaxGuesses: 2},
		Stats:    stats.Stats{GamesWon: 1, TotalGuesses: 3},
	}
	p := New("p1", prof, fixedSource(4))

	assert.Equal(t, "p1", p.ID())
	assert.Equal(t, prof.Settings, p.Settings())
	assert.Equal(t, prof, p.Profile())
	g := p.Game()
	assert.Equal(t, 10, g.Range)
	assert.Equal(t, 2, g.Remaining)
}

func TestNewInvalidProfileFallsBack(t *testing.T) {
	p := New("p1", Profile{}, fixedSource(1))
	assert.Equal(t, settings.Default(), p.Settings())
}

func TestWinUpdatesStats(t *testing.T) {
	p := New("p1", NewProfile(), fixedSource(42))

	g, err := p.Guess("50")
	require.NoError(t, err)
	assert.Equal(t, "Too high", g.Message)

	g, err = p.Guess("42")
	require.NoError(t, err)
	assert.Equal(t, game.StatusWon, g.Status)
	assert.Equal(t, stats.Summary{GamesWon: 1, AverageGuesses: 2}, p.Stats())

	_, err = p.Guess("42")
	assert.ErrorIs(t, err, game.ErrFinished)
	assert.Equal(t, 1, p.Stats().GamesWon)
}

func TestLossLeavesStats(t *testing.T) {
	p := New("p1", Profile{Settings: settings.Settings{Range: 10, MaxGuesses: 2}}, fixedSource(7))
	_, _ = p.Guess("1")
	g, err := p.Guess("2")
	require.NoError(t, err)
	assert.Equal(t, "Out of guesses - the number was 7", g.Message)
	assert.Equal(t, stats.Summary{}, p.Stats())
}

func TestStatsAcrossGames(t *testing.T) {
	p := New("p1", NewProfile(), fixedSource(10))
	for _, g := range []string{"1", "2", "10"} {
		_, _ = p.Guess(g)
	}
	p.Restart()
	for _, g := range []string{"1", "2", "3", "4", "10"} {
		_, _ = p.Guess(g)
	}
	assert.Equal(t, stats.Summary{GamesWon: 2, AverageGuesses: 4}, p.Stats())
}

func TestSaveSettingsAffectsNextGameOnly(t *testing.T) {
	clock := &manualClock{}
	p := New("p1", NewProfile(), fixedSource(3), WithClock(clock))

	require.NoError(t, p.SaveSettings(settings.Settings{Range: 50, MaxGuesses: 3}))
	assert.Equal(t, settings.Settings{Range: 50, MaxGuesses: 3}, p.Settings())

	g := p.Game()
	assert.Equal(t, 100, g.Range)
	assert.Equal(t, 5, g.MaxGuesses)

	g = p.Restart()
	assert.Equal(t, 50, g.Range)
	assert.Equal(t, 3, g.Remaining)
}

func TestSaveSettingsNotice(t *testing.T) {
	clock := &manualClock{}
	p := New("p1", NewProfile(), fixedSource(3), WithClock(clock), WithNoticeTTL(3*time.Second))

	require.NoError(t, p.SaveSettings(settings.Settings{Range: 50, MaxGuesses: 3}))
	assert.Equal(t, SavedMessage, p.Notice())
	assert.Equal(t, 3*time.Second, clock.delay)

	clock.fire()
	assert.Equal(t, "", p.Notice())
}

func TestSaveSettingsRejectsInvalid(t *testing.T) {
	clock := &manualClock{}
	p := New("p1", NewProfile(), fixedSource(3), WithClock(clock))

	err := p.SaveSettings(settings.Settings{Range: 0, MaxGuesses: 3})
	assert.ErrorIs(t, err, settings.ErrInvalid)
	assert.Equal(t, settings.Default(), p.Settings())
	assert.Equal(t, "", p.Notice())
	assert.Nil(t, clock.fire)
}

func TestCloseCancelsNotice(t *testing.T) {
	clock := &manualClock{}
	p := New("p1", NewProfile(), fixedSource(3), WithClock(clock))
	require.NoError(t, p.SaveSettings(settings.Default()))

	p.Close()
	assert.True(t, clock.timer.stopped)
	assert.Equal(t, "", p.Notice())
}

func TestLastSeen(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := New("p1", NewProfile(), fixedSource(3), WithNow(func() time.Time { return now }))
	assert.Equal(t, now, p.LastSeen())

	now = now.Add(time.Minute)
	_ = p.Game()
	assert.Equal(t, now, p.LastSeen())
}
