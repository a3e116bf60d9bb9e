// internal/httpserver/routes_api.go
//
// JSON API mirroring the views, mounted under /api:
//   - GET  /api/game          → current game snapshot
//   - POST /api/game/guess    → {"guess": 42} → snapshot
//   - POST /api/game/restart  → snapshot of the new game
//   - GET  /api/settings      → effective settings + notice
//   - PUT  /api/settings      → {"range": 50, "maxGuesses": 3}
//   - GET  /api/stats         → {"gamesWon": 2, "averageGuesses": 4}
//
// Errors are {"error": "..."}: 400 for bad input, 409 for a finished game.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/settings"
)

func (s *Server) mountAPI(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "numguess",
			"endpoints": []string{
				"GET /api/game", "POST /api/game/guess", "POST /api/game/restart",
				"GET /api/settings", "PUT /api/settings", "GET /api/stats",
			},
		})
	})
	r.Get("/game", s.handleGetGame)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/restart", s.handleRestart)
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
	r.Get("/stats", s.handleGetStats)
}

// guessReq accepts the guess as a JSON number or numeric string.
type guessReq struct {
	Guess json.Number `json:"guess"`
}

// settingsRes is returned by the settings endpoints.
type settingsRes struct {
	settings.Settings
	Notice string `json:"notice"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentPlayer(r).Game())
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	p := currentPlayer(r)
	snap, err := p.Guess(req.Guess.String())
	switch {
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	snap := p.Restart()
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	writeJSON(w, http.StatusOK, settingsRes{Settings: p.Settings(), Notice: p.Notice()})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	p := currentPlayer(r)
	if err := p.SaveSettings(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, settingsRes{Settings: p.Settings(), Notice: p.Notice()})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentPlayer(r).Stats())
}
