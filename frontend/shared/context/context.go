package context

import (
	"context"

	"estateadmin/models"
)

type sessionKey struct{}

// NewContextWithSession attaches the authenticated session to ctx.
func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// SessionToken is the token of the request session, or "" when anonymous.
func SessionToken(ctx context.Context) string {
	s, _ := GetSessionFromContext(ctx)
	return s.ID
}

// UserID is the id of the signed-in user, or 0 when anonymous.
func UserID(ctx context.Context) int64 {
	s, _ := GetSessionFromContext(ctx)
	return s.UserID
}
