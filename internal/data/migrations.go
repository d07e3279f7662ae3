package data

import (
	"context"
	"database/sql"

	"github.com/applytrack/applytrack/internal/migrate"
)

// RunMigrations applies the Postgres schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
