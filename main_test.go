package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/numguess/internal/player"
	"github.com/robalobadob/numguess/internal/settings"
	"github.com/robalobadob/numguess/internal/store"
)

func TestOpenDBCreatesDirAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "guess.db")
	db, err := openDB(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM players`).Scan(&n))
	assert.Equal(t, 0, n)

	// Reopening applies nothing new.
	db2, err := openDB(path)
	require.NoError(t, err)
	defer db2.Close()
}

func TestSweepOnceFlushesProfiles(t *testing.T) {
	ctx := context.Background()
	db, err := openDB(filepath.Join(t.TempDir(), "guess.db"))
	require.NoError(t, err)
	defer db.Close()

	mem := store.NewMemoryStore()
	profiles := store.NewProfiles(db)
	persist := store.NewPersistent(mem, profiles, nil)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := player.New("idle", player.NewProfile(), newSource(), player.WithNow(func() time.Time { return base }))
	require.NoError(t, p.SaveSettings(settings.Settings{Range: 30, MaxGuesses: 4}))
	require.NoError(t, mem.Save(ctx, p))

	assert.Equal(t, 0, sweepOnce(ctx, mem, persist, base.Add(-time.Minute)))
	assert.Equal(t, 1, sweepOnce(ctx, mem, persist, base.Add(time.Minute)))
	assert.Equal(t, "", p.Notice(), "evicted player's notice timer is cancelled")

	prof, err := profiles.Load(ctx, "idle")
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{Range: 30, MaxGuesses: 4}, prof.Settings)
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	mem := store.NewMemoryStore()
	old := player.New("old", player.NewProfile(), newSource(),
		player.WithNow(func() time.Time { return time.Now().Add(-time.Hour) }))
	require.NoError(t, mem.Save(context.Background(), old))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runSweeper(ctx, mem, nil, time.Minute, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return mem.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestServeDrainsInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = io.WriteString(w, "done")
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- serve(ctx, srv, ln, 5*time.Second) }()

	type result struct {
		body string
		err  error
	}
	got := make(chan result, 1)
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	go func() {
		res, err := client.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			got <- result{err: err}
			return
		}
		defer res.Body.Close()
		b, err := io.ReadAll(res.Body)
		got <- result{body: string(b), err: err}
	}()

	<-started
	cancel()

	select {
	case err := <-served:
		t.Fatalf("serve returned while a request was in flight: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-served)
	r := <-got
	require.NoError(t, r.err)
	assert.Equal(t, "done", r.body)
}

func TestServeReturnsListenerError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = serve(context.Background(), &http.Server{Handler: http.NotFoundHandler()}, ln, time.Second)
	assert.Error(t, err)
}
