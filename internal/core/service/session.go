package service

import (
	"context"
	"sync"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// Session holds at most one authenticated identity. It is created empty,
// filled by Login and emptied by Logout.
type Session struct {
	users ports.UserFinder

	mu       sync.RWMutex
	identity *domain.Identity
}

func NewSession(users ports.UserFinder) *Session {
	return &Session{users: users}
}

// Login checks the credentials against the user store. On a match the
// user's public fields become the current identity and true is returned;
// otherwise the session is left as it was.
func (s *Session) Login(ctx context.Context, username, password string, filter domain.AdminFilter) (bool, error) {
	user, err := s.users.GetUser(ctx, username, password, filter)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	id := user.Identity()
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()
	return true, nil
}

// Logout clears the current identity unconditionally.
func (s *Session) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
}

func (s *Session) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}
