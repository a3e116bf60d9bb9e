// internal/store/migrate.go
//
// SQL migration runner for the SQLite profile store.
//   - Uses a _migrations table to track applied files.
//   - Executes each *.sql file in lexical order, each in its own transaction.
//   - Skips files already recorded.
//   - Table rebuilds (SQLite cannot drop or retype columns) open their own
//     transaction with foreign keys off; such files run as written.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migrate applies every *.sql file in fsys not yet recorded in _migrations.
func Migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := sqlFiles(fsys)
	if err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}

	for _, f := range files {
		applied, err := isApplied(db, f)
		if err != nil {
			return err
		}
		if applied {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}

		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		script := string(b)

		if ownsTransaction(script) {
			err = applyAsWritten(db, f, script)
		} else {
			err = applyInTx(db, f, script)
		}
		if err != nil {
			return err
		}
		log.Info().Str("migration", f).Bool("own_tx", ownsTransaction(script)).Msg("applied")
	}
	return nil
}

func sqlFiles(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func isApplied(db *sql.DB, name string) (bool, error) {
	var one int
	err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, name).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, fmt.Errorf("query _migrations: %w", err)
	}
}

// ownsTransaction reports whether script begins its own transaction or turns
// foreign keys off, neither of which works inside an outer transaction.
func ownsTransaction(script string) bool {
	flat := strings.Join(strings.Fields(strings.ToUpper(script)), "")
	return strings.Contains(flat, "BEGINTRANSACTION") ||
		strings.Contains(flat, "BEGIN;") ||
		strings.Contains(flat, "PRAGMAFOREIGN_KEYS=OFF")
}

func applyAsWritten(db *sql.DB, name, script string) error {
	ctx := context.Background()
	// The script's transaction and pragmas live on one connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, script); err != nil {
		_, _ = conn.ExecContext(ctx, `ROLLBACK`)
		_, _ = conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
		return fmt.Errorf("apply %s: %w", name, err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	return nil
}

func applyInTx(db *sql.DB, name, script string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply %s: %w", name, err)
	}
	if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}
