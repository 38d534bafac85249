package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"estateadmin/frontend/shared/html"
)

const csrfTokenBytes = 32

// CSRFMiddleware implements a double-submit cookie: every response carries
// the token cookie and unsafe requests must echo it in a header or form field.
func (s *Server) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.csrfToken(w, r)
		if isSafeMethod(r.Method) || validCSRFToken(token, submittedCSRFToken(r)) {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "invalid csrf token", http.StatusForbidden)
	})
}

// csrfToken returns the request's token, issuing a new cookie when absent.
func (s *Server) csrfToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(html.CSRFCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return c.Value
	}
	token := randomToken(csrfTokenBytes)
	http.SetCookie(w, &http.Cookie{
		Name:     html.CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   s.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func submittedCSRFToken(r *http.Request) string {
	if provided := strings.TrimSpace(r.Header.Get(html.CSRFHeaderName)); provided != "" {
		return provided
	}
	return strings.TrimSpace(r.FormValue(html.CSRFFormField))
}

func validCSRFToken(expected, provided string) bool {
	return provided != "" && subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("csrf token: %v", err))
	}
	return hex.EncodeToString(buf)
}
