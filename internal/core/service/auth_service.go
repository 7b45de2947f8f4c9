package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// AuthService owns the live sessions. Each login creates a Session keyed by
// a random id; the id travels to the client inside a signed token.
type AuthService struct {
	db        ports.Database
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger

	mu       sync.Mutex
	sessions map[string]liveSession
}

// liveSession pairs a Session with the expiry of the token that names it.
type liveSession struct {
	session *Session
	expires time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(db ports.Database, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		log:       log,
		sessions:  make(map[string]liveSession),
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterEmployeeInput) (*domain.Employee, error) {
	return s.db.RegisterEmployee(ctx, input)
}

func (s *AuthService) Login(ctx context.Context, username, password string, filter domain.AdminFilter) (string, domain.Identity, error) {
	if username == "" || password == "" {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}

	sess := NewSession(s.db)
	ok, err := sess.Login(ctx, username, password, filter)
	if err != nil {
		return "", domain.Identity{}, err
	}
	if !ok {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}
	identity, _ := sess.Current()

	sid := uuid.NewString()
	now := s.now()
	expires := time.Unix(now.Add(s.tokenTTL).Unix(), 0)
	token, err := s.generateToken(sid, identity, now, expires)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("login: sign token: %w", err)
	}

	s.mu.Lock()
	s.pruneExpired(now)
	s.sessions[sid] = liveSession{session: sess, expires: expires}
	s.mu.Unlock()

	s.log.Info().Str("username", identity.Username).Str("role", identity.Role()).Msg("logged in")
	return token, identity, nil
}

// Authenticate verifies the token signature and expiry, then resolves the
// session it names. A token for a torn-down session is rejected.
func (s *AuthService) Authenticate(_ context.Context, token string) (string, domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return "", domain.Identity{}, domain.ErrUnauthenticated
	}

	sid, _ := claims["sid"].(string)
	now := s.now()
	s.mu.Lock()
	s.pruneExpired(now)
	live, ok := s.sessions[sid]
	s.mu.Unlock()
	if !ok {
		return "", domain.Identity{}, domain.ErrUnauthenticated
	}

	identity, ok := live.session.Current()
	if !ok {
		return "", domain.Identity{}, domain.ErrUnauthenticated
	}
	return sid, identity, nil
}

func (s *AuthService) Logout(_ context.Context, sessionID string) error {
	s.mu.Lock()
	live, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	sess := live.session
	if identity, had := sess.Current(); had {
		s.log.Info().Str("username", identity.Username).Msg("logged out")
	}
	sess.Logout()
	return nil
}

func (s *AuthService) RevokeUser(_ context.Context, userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	revoked := 0
	for sid, live := range s.sessions {
		identity, ok := live.session.Current()
		if ok && identity.ID != userID {
			continue
		}
		live.session.Logout()
		delete(s.sessions, sid)
		revoked++
	}
	if revoked > 0 {
		s.log.Info().Int("user_id", userID).Int("sessions", revoked).Msg("sessions revoked")
	}
	return revoked
}

// ActiveSessions counts sessions whose token has not expired.
func (s *AuthService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpired(s.now())
	return len(s.sessions)
}

// pruneExpired drops sessions whose token is past its exp. Callers hold mu.
func (s *AuthService) pruneExpired(now time.Time) {
	for sid, live := range s.sessions {
		if now.Before(live.expires) {
			continue
		}
		live.session.Logout()
		delete(s.sessions, sid)
	}
}

func (s *AuthService) generateToken(sid string, identity domain.Identity, issued, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid":      sid,
		"sub":      fmt.Sprintf("%d", identity.ID),
		"username": identity.Username,
		"role":     identity.Role(),
		"iat":      issued.Unix(),
		"exp":      expires.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
