// Package sqlite implements the job application store on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/applytrack/applytrack/internal/data"
	"github.com/applytrack/applytrack/internal/data/database"
	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/migrate"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens (creating if needed) the SQLite database at path and applies migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := migrate.RunDialect(ctx, db, migrate.SQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// JobApplicationRepo stores job applications in SQLite.
type JobApplicationRepo struct {
	DB           *sql.DB
	timeProvider data.TimeProvider
}

// NewJobApplicationRepo creates a repo using the system clock.
func NewJobApplicationRepo(db *sql.DB) *JobApplicationRepo {
	return &JobApplicationRepo{DB: db, timeProvider: data.RealTimeProvider{}}
}

// NewJobApplicationRepoWithTimeProvider creates a repo with a custom clock (useful for tests).
func NewJobApplicationRepoWithTimeProvider(db *sql.DB, tp data.TimeProvider) *JobApplicationRepo {
	return &JobApplicationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new job application and returns the stored row.
func (r *JobApplicationRepo) Create(
	ctx context.Context,
	in model.NewJobApplication,
) (*model.JobApplication, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, data.ErrUserIDRequired
	}

	now := r.timeProvider.Now().UTC()
	out := model.JobApplication{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		CompanyName:   in.CompanyName,
		Role:          in.Role,
		Status:        in.Status,
		DateApplied:   in.DateApplied,
		ScreenshotURL: in.ScreenshotURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var date any
	if in.DateApplied != nil {
		date = in.DateApplied.Format(model.DateLayout)
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO job_applications (
			id, user_id, company_name, role, status, date_applied, screenshot_url, created_at, updated_at
		) VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?8)`,
		out.ID, out.UserID, out.CompanyName, out.Role, string(out.Status), date, out.ScreenshotURL,
		now.Format(timestampLayout),
	)
	if err != nil {
		return nil, wrapErr("create job application", err)
	}
	return &out, nil
}

// List returns the user's job applications filtered by status and ordered by applied date.
func (r *JobApplicationRepo) List(
	ctx context.Context,
	opts model.JobApplicationListOptions,
) ([]model.JobApplication, error) {
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, data.ErrUserIDRequired
	}

	query, args := database.BuildListQuery(data.ListQueryFor(opts, database.OrdinalPlaceholder))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list job applications", err)
	}
	defer rows.Close()

	var out []model.JobApplication
	for rows.Next() {
		app, scanErr := scanRow(rows)
		if scanErr != nil {
			return nil, wrapErr("scan job application", scanErr)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list job applications", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (model.JobApplication, error) {
	var (
		app                  model.JobApplication
		status               string
		date                 sql.NullString
		createdAt, updatedAt string
	)
	if err := rows.Scan(
		&app.ID, &app.UserID, &app.CompanyName, &app.Role, &status,
		&date, &app.ScreenshotURL, &createdAt, &updatedAt,
	); err != nil {
		return app, err
	}
	app.Status = model.Status(status)
	if date.Valid && date.String != "" {
		d, err := time.Parse(model.DateLayout, date.String)
		if err != nil {
			return app, fmt.Errorf("date_applied %q: %w", date.String, err)
		}
		app.DateApplied = &d
	}
	var err error
	if app.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return app, fmt.Errorf("created_at %q: %w", createdAt, err)
	}
	if app.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return app, fmt.Errorf("updated_at %q: %w", updatedAt, err)
	}
	return app, nil
}

func wrapErr(op string, err error) error {
	if strings.Contains(err.Error(), "constraint failed") {
		return fmt.Errorf("%s: %w", op, errors.Join(data.ErrStore, data.ErrConstraint, err))
	}
	return fmt.Errorf("%s: %w", op, errors.Join(data.ErrStore, err))
}
