package ports

import (
	"context"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// AuthService manages the lifecycle of authenticated sessions.
type AuthService interface {
	Register(ctx context.Context, input RegisterEmployeeInput) (*domain.Employee, error)
	// Login returns ErrInvalidCredentials when no user matches.
	Login(ctx context.Context, username, password string, filter domain.AdminFilter) (string, domain.Identity, error)
	// Authenticate resolves a token to the session id and identity it was issued for.
	Authenticate(ctx context.Context, token string) (string, domain.Identity, error)
	Logout(ctx context.Context, sessionID string) error
	// RevokeUser tears down every session belonging to userID.
	RevokeUser(ctx context.Context, userID int) int
	ActiveSessions() int
}
