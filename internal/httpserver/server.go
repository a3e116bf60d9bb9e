// internal/httpserver/server.go
//
// HTTP server wiring for the number-guessing game.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     request logging).
//   - Public endpoints: "/health", "/static/*".
//   - Views (player cookie): "/", "/settings", "/stats" and their form posts.
//   - JSON API (player cookie): mounted under /api.
//   - Player resolution: signed cookie → store, creating players on first visit.
//
// Notes:
//   - The player cookie is an HS256 JWT whose subject is the player ID.
//   - A valid cookie for a player the store no longer holds (memory store after
//     a restart) gets a fresh player under the same ID.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/assets"
	"github.com/robalobadob/numguess/internal/identity"
	"github.com/robalobadob/numguess/internal/player"
	"github.com/robalobadob/numguess/internal/store"
)

// PlayerFactory creates a fresh player for id.
type PlayerFactory func(id string) *player.Player

// Options configures a Server.
type Options struct {
	Store          store.Store
	Identity       *identity.Issuer
	NewPlayer      PlayerFactory
	RequestTimeout time.Duration
}

// Server bundles router, player store and cookie issuer.
type Server struct {
	r         *chi.Mux
	store     store.Store
	ids       *identity.Issuer
	newPlayer PlayerFactory
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), store: opts.Store, ids: opts.Identity, newPlayer: opts.NewPlayer}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                      // one zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static()))))

	// Views and API both need the player resolved from the cookie.
	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		s.mountPages(r)
		r.Route("/api", func(r chi.Router) {
			r.Use(jsonContentType)
			s.mountAPI(r)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.r }

// ------------------------------ players ------------------------------------

type ctxPlayerKey struct{}

// withPlayer resolves the player for the request and stores it in context.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.resolvePlayer(w, r)
		if err != nil {
			log.Error().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg("resolve player")
			writeError(w, http.StatusInternalServerError, "player_unavailable")
			return
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolvePlayer(w http.ResponseWriter, r *http.Request) (*player.Player, error) {
	ctx := r.Context()
	if id, err := s.ids.PlayerID(r); err == nil {
		p, err := s.store.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		p = s.newPlayer(id)
		if err := s.store.Save(ctx, p); err != nil {
			return nil, err
		}
		log.Info().Str("player", id).Msg("recreated player for known cookie")
		return p, nil
	}

	id := uuid.NewString()
	p := s.newPlayer(id)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := s.ids.SetCookie(w, id); err != nil {
		return nil, err
	}
	log.Info().Str("player", id).Msg("new player")
	return p, nil
}

// currentPlayer returns the player placed in context by withPlayer.
func currentPlayer(r *http.Request) *player.Player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*player.Player)
	return p
}

// save persists p after a mutation. Failures are logged; the caller decides
// whether to fail the request.
func (s *Server) save(r *http.Request, p *player.Player) error {
	if err := s.store.Save(r.Context(), p); err != nil {
		log.Error().Err(err).Str("player", p.ID()).Msg("save player")
		return err
	}
	return nil
}

// ------------------------------- helpers -----------------------------------

// jsonContentType sets a default JSON Content-Type header on API responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
