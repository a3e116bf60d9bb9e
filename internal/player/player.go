// internal/player/player.go
//
// Per-player application state shared by the home, settings and stats views.
// Responsibilities:
//   - Own the effective settings, cross-game stats, current game and the
//     settings-saved notice.
//   - Expose the only operations allowed to mutate that state.
//   - Wire the game's win callback into the stats aggregate.
//
// Every method locks the player, so concurrent requests from the same
// browser are serialized.
package player

import (
	"sync"
	"time"

	"github.com/robalobadob/numguess/internal/flash"
	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/settings"
	"github.com/robalobadob/numguess/internal/stats"
)

// SavedMessage is shown after settings are saved.
const SavedMessage = "Settings have been saved!"

// Profile is the durable part of a player.
type Profile struct {
	Settings settings.Settings `json:"settings"`
	Stats    stats.Stats       `json:"stats"`
}

// NewProfile returns a profile with default settings and empty stats.
func NewProfile() Profile {
	return Profile{Settings: settings.Default()}
}

// Player is one browser's game state.
type Player struct {
	mu       sync.Mutex
	id       string
	settings settings.Settings
	stats    stats.Stats
	game     *game.Game
	notice   *flash.Notice
	lastSeen time.Time
	now      func() time.Time
}

type options struct {
	clock     flash.Clock
	noticeTTL time.Duration
	now       func() time.Time
}

// Option customizes a Player.
type Option func(*options)

// WithClock sets the clock that schedules notice clearing.
func WithClock(c flash.Clock) Option { return func(o *options) { o.clock = c } }

// WithNoticeTTL sets how long the saved confirmation stays visible.
func WithNoticeTTL(d time.Duration) Option { return func(o *options) { o.noticeTTL = d } }

// WithNow sets the wall clock used for idle tracking.
func WithNow(now func() time.Time) Option { return func(o *options) { o.now = now } }

// New restores a player from prof and starts a game with its settings.
// An invalid profile falls back to default settings.
func New(id string, prof Profile, src game.Source, opts ...Option) *Player {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if prof.Settings.Validate() != nil {
		prof.Settings = settings.Default()
	}
	p := &Player{
		id:       id,
		settings: prof.Settings,
		stats:    prof.Stats,
		notice:   flash.New(o.noticeTTL, o.clock),
		now:      o.now,
	}
	p.lastSeen = p.now()
	p.game = game.New(p.settings, src)
	p.game.OnWin = p.recordWin
	return p
}

// recordWin runs inside Guess with p.mu already held.
func (p *Player) recordWin(attempts int) {
	p.stats.RecordWin(attempts)
}

// ID returns the player's identifier, also the cookie subject.
func (p *Player) ID() string { return p.id }

// Guess submits raw to the current game.
func (p *Player) Guess(raw string) (game.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	_, err := p.game.Submit(raw)
	return p.game.Snapshot(), err
}

// Restart starts a new game with the effective settings.
func (p *Player) Restart() game.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	p.game.Restart(p.settings)
	return p.game.Snapshot()
}

// Game returns a copy of the current game.
func (p *Player) Game() game.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	return p.game.Snapshot()
}

// Settings returns the effective settings.
func (p *Player) Settings() settings.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	return p.settings
}

// SaveSettings validates and applies s, then shows the saved notice.
// The running game keeps its own limits until restarted.
func (p *Player) SaveSettings(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.touch()
	p.settings = s
	p.mu.Unlock()

	p.notice.Show(SavedMessage)
	return nil
}

// Notice returns the saved confirmation, or "" once it cleared.
func (p *Player) Notice() string { return p.notice.Message() }

// Stats returns the stats projection.
func (p *Player) Stats() stats.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touch()
	return p.stats.Summary()
}

// Profile returns the durable state.
func (p *Player) Profile() Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Profile{Settings: p.settings, Stats: p.stats}
}

// LastSeen reports when the player last did anything.
func (p *Player) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Close tears the player down and cancels any scheduled notice clear.
func (p *Player) Close() { p.notice.Close() }

// Closed reports whether the player was torn down and not revived.
func (p *Player) Closed() bool { return p.notice.Closed() }

// Revive undoes Close for a player that is put back into use, e.g. when a
// request that resolved it before eviction saves it again.
func (p *Player) Revive() {
	p.notice.Reopen()
	p.mu.Lock()
	p.touch()
	p.mu.Unlock()
}

func (p *Player) touch() { p.lastSeen = p.now() }
