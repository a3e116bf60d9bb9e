// internal/views/views.go
//
// HTML views for the game, written as templ components.
//   - layout.templ: document shell with the Home | Settings | Stats nav.
//   - pages.templ: Home (play), Settings, the saved notice, and Stats.
//   - Render: writes a full page, or only the view for htmx requests.
//
// The *_templ.go files are generated; edit the .templ sources and rerun
// go generate.

package views

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/robalobadob/numguess/internal/game"
)

// HomeView is the data for the play page.
type HomeView struct {
	Game  game.Snapshot
	Input string // Last rejected input, echoed back.
	Error string
}

// Finished reports whether guessing is closed for the shown game.
func (v HomeView) Finished() bool { return v.Game.Status != game.StatusActive }

// SettingsView is the data for the settings page. Values are strings so
// rejected input can be shown back as typed.
type SettingsView struct {
	Range      string
	MaxGuesses string
	Notice     string
	Error      string
}

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	return r != nil && strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Render writes body with the given status: the full page normally, the
// bare view for htmx requests.
func Render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	c := body
	if !IsHTMXRequest(r) {
		c = Page(title, body)
	}
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}
