package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/config"
	"github.com/robalobadob/numguess/internal/httpserver"
	"github.com/robalobadob/numguess/internal/identity"
	"github.com/robalobadob/numguess/internal/player"
	"github.com/robalobadob/numguess/internal/random"
	"github.com/robalobadob/numguess/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	key, err := identity.DeriveKey(cfg.CookieSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("derive cookie key")
	}
	if cfg.CookieSecret == "" {
		log.Warn().Msg("COOKIE_SECRET not set; player cookies reset on restart")
	}

	restore := func(id string, prof player.Profile) *player.Player {
		return player.New(id, prof, newSource(), player.WithNoticeTTL(cfg.NoticeTTL))
	}

	mem := store.NewMemoryStore()
	var (
		st      store.Store = mem
		persist *store.Persistent
	)
	if cfg.DBPath != "" {
		db, err := openDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer db.Close()
		persist = store.NewPersistent(mem, store.NewProfiles(db), restore)
		st = persist
		log.Info().Str("path", cfg.DBPath).Msg("player profiles persisted to sqlite")
	}

	srv := httpserver.New(httpserver.Options{
		Store:    st,
		Identity: identity.NewIssuer(identity.Config{Key: key, TTL: cfg.CookieTTL, CookieName: cfg.CookieName, Secure: cfg.CookieSecure}),
		NewPlayer: func(id string) *player.Player {
			return restore(id, player.Profile{Settings: cfg.Defaults()})
		},
		RequestTimeout: cfg.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSweeper(ctx, mem, persist, cfg.PlayerIdleTTL, cfg.SweepInterval)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("listen")
	}
	httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}

	log.Info().Str("port", cfg.Port).Msg("starting numguess server")
	if err := serve(ctx, httpSrv, ln, 10*time.Second); err != nil {
		log.Error().Err(err).Msg("server exited")
	}

	// Handlers have drained, so nothing can save a player after this.
	closed := mem.Close()
	if persist != nil {
		if err := persist.Flush(context.Background(), closed); err != nil {
			log.Error().Err(err).Msg("flush profiles on shutdown")
		}
	}
	log.Info().Int("players", len(closed)).Msg("stopped")
}

// serve runs srv on ln until ctx is done, then shuts it down and waits for
// in-flight requests to finish, at most grace.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(err, shutdownErr)
	}
	return shutdownErr
}

// newSource returns a per-player generator; *rand.Rand is not safe to share.
func newSource() *rand.Rand {
	src, err := random.NewSeededSource()
	if err != nil {
		log.Error().Err(err).Msg("seed from crypto/rand failed; using clock seed")
		return random.NewSource(uint64(time.Now().UnixNano()))
	}
	return src
}

// runSweeper evicts idle players every interval until ctx is done.
func runSweeper(ctx context.Context, mem *store.Memory, persist *store.Persistent, idle, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			sweepOnce(ctx, mem, persist, now.Add(-idle))
		}
	}
}

// sweepOnce evicts players idle since before cutoff, saving their profiles
// first when persistence is enabled.
func sweepOnce(ctx context.Context, mem *store.Memory, persist *store.Persistent, cutoff time.Time) int {
	evicted := mem.Sweep(cutoff)
	if len(evicted) == 0 {
		return 0
	}
	if persist != nil {
		if err := persist.Flush(ctx, evicted); err != nil {
			log.Error().Err(err).Msg("flush evicted profiles")
		}
	}
	log.Info().Int("players", len(evicted)).Msg("evicted idle players")
	return len(evicted)
}
