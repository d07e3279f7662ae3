package ports_test

import (
	"github.com/applytrack/applytrack/internal/adapters/devauth"
	"github.com/applytrack/applytrack/internal/adapters/objectstore"
	"github.com/applytrack/applytrack/internal/adapters/openai"
	redisadapter "github.com/applytrack/applytrack/internal/adapters/redis"
	"github.com/applytrack/applytrack/internal/data"
	"github.com/applytrack/applytrack/internal/data/sqlite"
	"github.com/applytrack/applytrack/internal/ports"
)

var (
	_ ports.AuthProvider        = (*devauth.Provider)(nil)
	_ ports.SessionStore        = (*redisadapter.SessionStore)(nil)
	_ ports.RateLimiter         = (*redisadapter.RateLimiter)(nil)
	_ ports.CompletionClient    = (*openai.Client)(nil)
	_ ports.ObjectStore         = (*objectstore.SupabaseStore)(nil)
	_ ports.ObjectStore         = (*objectstore.LocalStore)(nil)
	_ ports.JobApplicationStore = (*data.JobApplicationRepo)(nil)
	_ ports.JobApplicationStore = (*sqlite.JobApplicationRepo)(nil)
)
