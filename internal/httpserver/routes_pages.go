// internal/httpserver/routes_pages.go
//
// Server-rendered views:
//   - GET  /                 → play view
//   - POST /guess            → submit a guess (form field "guess")
//   - POST /restart          → start a new game with the effective settings
//   - GET  /settings         → settings form
//   - POST /settings         → save settings (form fields "range", "maxGuesses")
//   - GET  /settings/notice  → save-confirmation fragment polled by htmx
//   - GET  /stats            → stats view
//
// Successful posts redirect back to their view (303). Rejected input
// re-renders the view with 422 so the player sees what was wrong.

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/settings"
	"github.com/robalobadob/numguess/internal/views"
)

func (s *Server) mountPages(r chi.Router) {
	r.Get("/", s.handleHome)
	r.Post("/guess", s.handleGuessForm)
	r.Post("/restart", s.handleRestartForm)
	r.Get("/settings", s.handleSettings)
	r.Post("/settings", s.handleSettingsForm)
	r.Get("/settings/notice", s.handleNotice)
	r.Get("/stats", s.handleStats)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	views.Render(w, r, http.StatusOK, "Guess the Number", views.Home(views.HomeView{Game: p.Game()}))
}

// handleGuessForm applies a guess. Guesses at a finished game are ignored.
func (s *Server) handleGuessForm(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	raw := r.PostFormValue("guess")
	snap, err := p.Guess(raw)
	switch {
	case errors.Is(err, game.ErrInvalidGuess):
		views.Render(w, r, http.StatusUnprocessableEntity, "Guess the Number",
			views.Home(views.HomeView{Game: snap, Input: raw, Error: err.Error()}))
		return
	case err != nil && !errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRestartForm(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	p.Restart()
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSettings shows the form pre-filled with the effective settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	cur := p.Settings()
	views.Render(w, r, http.StatusOK, "Settings", views.Settings(views.SettingsView{
		Range:      strconv.Itoa(cur.Range),
		MaxGuesses: strconv.Itoa(cur.MaxGuesses),
		Notice:     p.Notice(),
	}))
}

func (s *Server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	rawRange, rawMax := r.PostFormValue("range"), r.PostFormValue("maxGuesses")

	next, err := settings.Parse(rawRange, rawMax)
	if err == nil {
		err = p.SaveSettings(next)
	}
	if err != nil {
		views.Render(w, r, http.StatusUnprocessableEntity, "Settings", views.Settings(views.SettingsView{
			Range:      rawRange,
			MaxGuesses: rawMax,
			Error:      err.Error(),
		}))
		return
	}
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// handleNotice always answers with the bare fragment.
func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.Notice(currentPlayer(r).Notice())).ServeHTTP(w, r)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, http.StatusOK, "Stats", views.Stats(currentPlayer(r).Stats()))
}
