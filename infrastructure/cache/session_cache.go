package cache

import (
	"sync"
	"time"

	"estateadmin/models"
)

// UserSessionCache keeps signed-in sessions in memory, keyed by token, in
// front of the sessions table.
type UserSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewUserSessionCache() *UserSessionCache {
	return &UserSessionCache{sessions: make(map[string]models.Session)}
}

func (c *UserSessionCache) AddSession(s models.Session) {
	c.mu.Lock()
	c.sessions[s.ID] = s
	c.mu.Unlock()
}

// FindSessionBySessionToken returns a live session; an expired entry is
// dropped instead.
func (c *UserSessionCache) FindSessionBySessionToken(token string) (models.Session, bool) {
	c.mu.RLock()
	s, ok := c.sessions[token]
	c.mu.RUnlock()
	switch {
	case !ok:
		return models.Session{}, false
	case s.Expired():
		c.DeleteSessionBySessionToken(token)
		return models.Session{}, false
	}
	return s, true
}

func (c *UserSessionCache) DeleteSessionBySessionToken(token string) {
	c.mu.Lock()
	delete(c.sessions, token)
	c.mu.Unlock()
}

// EvictExpired drops every session that expired by now and returns their
// tokens.
func (c *UserSessionCache) EvictExpired(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var evicted []string
	for token, s := range c.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(c.sessions, token)
			evicted = append(evicted, token)
		}
	}
	return evicted
}
