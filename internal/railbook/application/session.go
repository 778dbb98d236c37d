package application

import (
	"sync"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
)

// Session holds the user logged in on this console, if any.
type Session struct {
	mu   sync.RWMutex
	user *domain.User
}

func NewSession() *Session {
	return &Session{}
}

// User returns the logged-in user. The engine mutates the returned value
// in place, so it is shared with the session.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) SetUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

func (s *Session) LoggedInUserName() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return "", false
	}
	return s.user.Name, true
}
