package httpx

import (
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/applytrack/applytrack/internal/domain/auth"
	authmocks "github.com/applytrack/applytrack/internal/mocks/auth"
	"github.com/applytrack/applytrack/internal/service"
)

const testUserID = "user-1"

// requireTemplateRenderer parses the real templates from the repository.
func requireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)
	return tr
}

func testSession(userID string) *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		Name:      "Test User",
		Email:     userID + "@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// withSession attaches s to r as RequireAuth would.
func withSession(r *http.Request, s *domainauth.Session) *http.Request {
	return r.WithContext(ContextWithSession(r.Context(), s))
}

// newTestAuth returns a real AuthService backed by in-memory doubles.
func newTestAuth() (*service.AuthService, *authmocks.MemorySessionStore) {
	store := authmocks.NewMemorySessionStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: authmocks.NewMockAuthProvider(),
		Sessions: store,
	})
	return svc, store
}

// signIn stores a session for userID and returns its cookie.
func signIn(t *testing.T, store *authmocks.MemorySessionStore, userID string) *http.Cookie {
	t.Helper()
	s := testSession(userID)
	require.NoError(t, store.Save(t.Context(), *s))
	return &http.Cookie{Name: sessionCookieName, Value: s.ID}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
