package session

import (
	"net/http"
	"time"

	"estateadmin/infrastructure/config"
)

const CookieName = "X-Session-Token"

// Policy carries the cookie lifetime and transport flag for issued sessions.
type Policy struct {
	TTL    time.Duration
	Secure bool
}

func NewPolicy(cfg config.SessionConfig) Policy {
	return Policy{TTL: cfg.TTL, Secure: cfg.SecureCookie}
}

// Cookie returns the session cookie for token, valid for the policy TTL.
func (p Policy) Cookie(token string) *http.Cookie {
	return p.cookie(token, int(p.TTL/time.Second))
}

// ClearCookie returns a cookie that removes the session cookie.
func (p Policy) ClearCookie() *http.Cookie {
	return p.cookie("", -1)
}

// Expiry is the expiry time of a session issued at now.
func (p Policy) Expiry(now time.Time) time.Time {
	return now.Add(p.TTL)
}

func (p Policy) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   p.Secure,
	}
}
