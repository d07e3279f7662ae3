// Package migrate applies the embedded SQL schema migrations for each supported record store.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name          string
	dir           string
	createVersion string
	placeholder   string
}

var (
	// Postgres applies migrations from migrations/postgres.
	Postgres = Dialect{
		Name: "postgres",
		dir:  "migrations/postgres",
		createVersion: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		placeholder: "$1",
	}
	// SQLite applies migrations from migrations/sqlite.
	SQLite = Dialect{
		Name: "sqlite",
		dir:  "migrations/sqlite",
		createVersion: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
			)`,
		placeholder: "?",
	}
)

// Run applies all Postgres migrations. It is safe to call multiple times.
func Run(ctx context.Context, db *sql.DB) error {
	return RunDialect(ctx, db, Postgres)
}

// RunDialect applies every pending migration for d in lexical file order.
func RunDialect(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, d.createVersion); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := migrationFiles(d)
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations", "dialect", d.Name)
	for _, f := range files {
		version := strings.TrimSuffix(f, ".sql")
		applied, applyErr := applyMigration(ctx, db, d, version, f)
		if applyErr != nil {
			return applyErr
		}
		if applied {
			logger.InfoContext(ctx, "applied migration", "version", version)
		}
	}
	return nil
}

func migrationFiles(d Dialect) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, d.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func applyMigration(ctx context.Context, db *sql.DB, d Dialect, version, file string) (bool, error) {
	var exists bool
	check := "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = " + d.placeholder + ")"
	if err := db.QueryRowContext(ctx, check, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", file, err)
	}
	if exists {
		return false, nil
	}

	body, err := migrationsFS.ReadFile(d.dir + "/" + file)
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", file, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback migration", "err", rollbackErr, "migration_file", file)
		}
	}()

	if _, execErr := tx.ExecContext(ctx, string(body)); execErr != nil {
		return false, fmt.Errorf("exec migration %s: %w", file, execErr)
	}
	insert := "INSERT INTO schema_migrations (version) VALUES (" + d.placeholder + ")"
	if _, insErr := tx.ExecContext(ctx, insert, version); insErr != nil {
		return false, fmt.Errorf("record migration %s: %w", file, insErr)
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return false, fmt.Errorf("commit migration %s: %w", file, commitErr)
	}
	return true, nil
}
