package httpx

import (
	"context"

	domainauth "github.com/applytrack/applytrack/internal/domain/auth"
)

type sessionKey struct{}

// ContextWithSession attaches session to ctx. A nil session leaves ctx unchanged.
func ContextWithSession(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the signed-in session, or nil for anonymous requests.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	s, _ := ctx.Value(sessionKey{}).(*domainauth.Session)
	return s
}

// UserIDFromContext returns the signed-in user's ID, or "" for anonymous
// requests. Handlers scope record reads and writes by this value only.
func UserIDFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.UserID
	}
	return ""
}
