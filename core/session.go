package core

import "sync"

// Session holds the mutable bot configuration: the API token and the
// conversation that last sent a message.
type Session struct {
	mu     sync.RWMutex
	token  string
	chatID int64
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// SetToken overwrites the bot token. The format is not validated.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current bot token, or "" if none is set.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetChatID records the conversation of the most recent update. Last writer wins.
func (s *Session) SetChatID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatID = id
}

// ChatID returns the last observed conversation id and whether one is known.
func (s *Session) ChatID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatID, s.chatID != 0
}
