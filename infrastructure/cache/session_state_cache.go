package cache

import "sync"

// SessionStateCache keeps one value of per-session page state, keyed by
// session token.
type SessionStateCache[T any] struct {
	mu     sync.Mutex
	states map[string]T
	create func() T
}

func NewSessionStateCache[T any](create func() T) *SessionStateCache[T] {
	return &SessionStateCache[T]{states: make(map[string]T), create: create}
}

// Get returns the state of token, creating it on first use.
func (c *SessionStateCache[T]) Get(token string) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[token]; ok {
		return s
	}
	s := c.create()
	c.states[token] = s
	return s
}

func (c *SessionStateCache[T]) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, token)
}

func (c *SessionStateCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}
