package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/applytrack/applytrack/internal/data/database"
	"github.com/applytrack/applytrack/internal/data/pgxutil"
	"github.com/applytrack/applytrack/internal/domain/model"
)

const jobApplicationsTable = "job_applications"

// jobApplicationColumns is the column list shared by insert and select statements.
var jobApplicationColumns = []string{
	"id", "user_id", "company_name", "role", "status",
	"date_applied", "screenshot_url", "created_at", "updated_at",
}

// JobApplicationRepo stores job applications in Postgres.
type JobApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobApplicationRepo creates a new JobApplicationRepo with the real clock.
func NewJobApplicationRepo(db *sql.DB) *JobApplicationRepo {
	return &JobApplicationRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewJobApplicationRepoWithTimeProvider creates a repo with a custom clock (useful for tests).
func NewJobApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobApplicationRepo {
	return &JobApplicationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new job application and returns the stored row.
func (r *JobApplicationRepo) Create(
	ctx context.Context,
	in model.NewJobApplication,
) (*model.JobApplication, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, ErrUserIDRequired
	}

	now := r.timeProvider.Now().UTC()
	query := fmt.Sprintf(`
		INSERT INTO job_applications (
			id, user_id, company_name, role, status, date_applied, screenshot_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING %s`, strings.Join(jobApplicationColumns, ", "))

	var out model.JobApplication
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			uuid.NewString(),
			in.UserID,
			in.CompanyName,
			in.Role,
			string(in.Status),
			in.DateApplied,
			in.ScreenshotURL,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobApplication])
		return err
	}); err != nil {
		return nil, wrapStoreErr("create job application", err)
	}
	return &out, nil
}

// List returns the user's job applications filtered by status and ordered by applied date.
// Rows without an applied date sort last in both directions.
func (r *JobApplicationRepo) List(
	ctx context.Context,
	opts model.JobApplicationListOptions,
) ([]model.JobApplication, error) {
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, ErrUserIDRequired
	}

	query, args := database.BuildListQuery(ListQueryFor(opts, database.DollarPlaceholder))

	var out []model.JobApplication
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobApplication])
		return err
	}); err != nil {
		return nil, wrapStoreErr("list job applications", err)
	}
	return out, nil
}

// ListQueryFor translates list options into query builder options. It is shared
// with the SQLite store so both back ends order rows identically.
func ListQueryFor(opts model.JobApplicationListOptions, ph database.PlaceholderFunc) *database.ListQueryOptions {
	dir := "DESC"
	if opts.Sort == model.SortDateAsc {
		dir = "ASC"
	}

	qopts := []database.ListQueryOption{
		database.WithColumns(jobApplicationColumns...),
		database.WithCondition(database.WhereCond("user_id", database.Equal, opts.UserID)),
		database.WithOrderTerm(database.OrderTerm{Column: "date_applied", Dir: dir, Nulls: database.NullsLast}),
		database.WithOrderBy("created_at", dir),
		database.WithPlaceholder(ph),
	}
	if opts.Status != nil {
		qopts = append(qopts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}
	return database.NewListQueryOptions(jobApplicationsTable, qopts...)
}

// wrapStoreErr tags err with ErrStore and, when recognised, a more specific class.
func wrapStoreErr(op string, err error) error {
	if class := classifyPgError(err); class != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrStore, class, err))
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStore, err))
}
