package login

import (
	"log/slog"
	"net/http"

	"estateadmin/infrastructure/cache"
	"estateadmin/infrastructure/session"
	"estateadmin/infrastructure/sqlite"
)

// SessionState is per-session page state dropped at sign out.
type SessionState interface {
	Delete(token string)
}

// LogoutHandler removes session state, clears the cached dropdown data and
// the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, state SessionState, dropdowns DropdownLifecycle, policy session.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			if state != nil {
				state.Delete(cookie.Value)
			}
			if err := DeleteSessionByToken(r.Context(), db, cookie.Value); err != nil {
				slog.Error("delete session failed", slog.Any("err", err))
			}
		}
		if dropdowns != nil {
			if err := dropdowns.Invalidate(r.Context()); err != nil {
				slog.Error("clear dropdown cache failed", slog.Any("err", err))
			}
		}
		http.SetCookie(w, policy.ClearCookie())
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
