package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/data"
	"github.com/applytrack/applytrack/internal/domain/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func app(userID, company string, status model.Status, date string) model.NewJobApplication {
	d, _ := model.ParseAppliedDate(date)
	return model.NewJobApplication{
		UserID:        userID,
		CompanyName:   company,
		Role:          "Engineer",
		Status:        status,
		DateApplied:   d,
		ScreenshotURL: "https://store.example.com/" + company + ".png",
	}
}

func TestJobApplicationRepo_CreateAndList(t *testing.T) {
	ctx := context.Background()
	clock := data.NewFixedTimeProvider(time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC))
	repo := NewJobApplicationRepoWithTimeProvider(openTestDB(t), clock)

	created, err := repo.Create(ctx, app("user-1", "Acme", model.StatusOffer, "2025-07-15"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-07-15", created.DateLabel())

	for _, in := range []model.NewJobApplication{
		app("user-1", "Globex", model.StatusInterview, "2025-06-01"),
		app("user-1", "Initech", model.StatusInterview, "2025-07-01"),
		app("user-1", "Hooli", model.StatusInterview, ""),
		app("user-2", "Umbrella", model.StatusInterview, "2025-05-01"),
	} {
		clock.AddTime(1500 * time.Millisecond)
		_, err = repo.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, model.ListOptionsFromQuery("user-1", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Initech", "Globex", "Hooli"}, names(all))
	assert.True(t, all[0].CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, model.StatusOffer, all[0].Status)

	interviews, err := repo.List(ctx, model.ListOptionsFromQuery("user-1", "Interview", "date_asc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex", "Initech", "Hooli"}, names(interviews))
	assert.Nil(t, interviews[2].DateApplied)

	other, err := repo.List(ctx, model.ListOptionsFromQuery("user-2", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"Umbrella"}, names(other))
}

func TestJobApplicationRepo_CheckConstraint(t *testing.T) {
	repo := NewJobApplicationRepo(openTestDB(t))
	_, err := repo.Create(context.Background(), app("user-1", "Acme", model.Status("ghosted"), ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, data.ErrStore)
	assert.ErrorIs(t, err, data.ErrConstraint)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func names(apps []model.JobApplication) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.CompanyName
	}
	return out
}
