package login

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estateadmin/infrastructure/cache"
	"estateadmin/infrastructure/session"
	"estateadmin/infrastructure/sqlite"
	"estateadmin/models"
)

// HomePath is where a signed-in user lands.
const HomePath = "/project"

// DropdownLifecycle is the part of the dropdown cache driven by sign in and
// sign out.
type DropdownLifecycle interface {
	Refresh(ctx context.Context) (cache.DropdownData, error)
	Invalidate(ctx context.Context) error
}

// CreateLoginHandler authenticates the user, issues a session cookie and
// loads the dropdown reference data. A failed refresh does not block sign in.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, dropdowns DropdownLifecycle, policy session.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, "invalid form data", "")
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		if username == "" || password == "" {
			redirectWithError(w, r, "username and password are required", username)
			return
		}

		user, err := authenticateUser(r.Context(), db, username, password)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				slog.Info("login rejected", slog.String("username", username))
				redirectWithError(w, r, "invalid username or password", username)
				return
			}
			slog.Error("login failed", slog.String("username", username), slog.Any("err", err))
			redirectWithError(w, r, "authentication failed", username)
			return
		}

		sess, err := newSession(user, policy, time.Now())
		if err != nil {
			slog.Error("create session failed", slog.Any("err", err))
			redirectWithError(w, r, "failed to create session", username)
			return
		}
		if err := persistSession(r.Context(), db, sess); err != nil {
			slog.Error("persist session failed", slog.Any("err", err))
			redirectWithError(w, r, "failed to create session", username)
			return
		}
		sessionCache.AddSession(sess)

		refreshDropdowns(r.Context(), dropdowns)

		http.SetCookie(w, policy.Cookie(sess.ID))
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
	}
}

func refreshDropdowns(ctx context.Context, dropdowns DropdownLifecycle) {
	if dropdowns == nil {
		return
	}
	_, err := dropdowns.Refresh(ctx)
	var partial *cache.PartialRefreshError
	switch {
	case err == nil:
	case errors.As(err, &partial):
		slog.Warn("dropdown refresh incomplete", slog.Any("datasets", partial.FailedDatasets()))
	default:
		slog.Error("dropdown refresh failed", slog.Any("err", err))
	}
}

func newSession(user models.User, policy session.Policy, now time.Time) (models.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		ID:        token,
		UserID:    user.ID,
		User:      user,
		ExpiresAt: policy.Expiry(now),
	}, nil
}

// redirectWithError returns to the sign in form, keeping the username typed.
func redirectWithError(w http.ResponseWriter, r *http.Request, message, username string) {
	query := url.Values{"error": {message}}
	if username != "" {
		query.Set("username", username)
	}
	http.Redirect(w, r, "/login?"+query.Encode(), http.StatusSeeOther)
}
