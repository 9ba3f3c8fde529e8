package agent

import (
	"sync"

	"github.com/google/uuid"
)

// Conversations is the registry of live conversation handlers, keyed
// by conversation ID. The serving layer owns it: handlers are created
// on first use and evicted on reset.
type Conversations struct {
	factory func() *Handler

	mu sync.Mutex
	m  map[string]*Handler
}

// NewConversations returns a registry that builds handlers with
// factory on demand.
func NewConversations(factory func() *Handler) *Conversations {
	return &Conversations{
		factory: factory,
		m:       make(map[string]*Handler),
	}
}

// Get returns the handler for id, creating one when id is empty or
// unknown. The second return is the effective conversation ID.
func (c *Conversations) Get(id string) (*Handler, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	h, ok := c.m[id]
	if !ok {
		h = c.factory()
		c.m[id] = h
	}
	return h, id
}

// Reset clears and evicts the conversation, reporting whether it
// existed.
func (c *Conversations) Reset(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.m[id]
	if !ok {
		return false
	}
	h.Reset()
	delete(c.m, id)
	return true
}
