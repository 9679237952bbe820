package agent

import (
	"sync"

	model "omniauction/internal/models"
)

// DialogueContext carries everything the interpreter remembers about one
// conversational session. The current product is held as an ID only and
// looked up fresh on every use, never as a cached copy.
type DialogueContext struct {
	LastListed       []model.ProductSummary
	CurrentProductID string
	BidderName       string
}

// User returns the bidder name for this session, defaulting to "User" when
// the session never introduced itself.
func (c *DialogueContext) User() string {
	if c.BidderName == "" {
		return "User"
	}
	return c.BidderName
}

// SessionStore hands out one DialogueContext per session ID. A context is
// created on first use and dropped when the session ends. Turns within one
// session are sequential; the lock only guards the session map itself.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*DialogueContext
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*DialogueContext)}
}

// Context returns the session's dialogue context, creating it if needed.
func (s *SessionStore) Context(sessionID string) *DialogueContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.sessions[sessionID]
	if !ok {
		ctx = &DialogueContext{}
		s.sessions[sessionID] = ctx
	}
	return ctx
}

// End discards the session's context.
func (s *SessionStore) End(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
