package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/erazemk/cruisedesk/internal/model"
)

// ErrLoginFailed is returned when the backend accepted the login call but
// the session check right after it did not produce an identity.
var ErrLoginFailed = errors.New("login failed")

// State is the authentication state of a session.
type State int

const (
	StateChecking State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Backend is the part of the backend API the session store needs.
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) error
	Logout(ctx context.Context) error
	Check(ctx context.Context) (*model.AuthUser, error)
}

// Session tracks who is signed in. The identity always comes from the
// backend session check; nothing about it is stored locally.
type Session struct {
	backend Backend

	mu    sync.RWMutex
	state State
	user  *model.AuthUser
}

// New returns a session in the checking state.
func New(b Backend) *Session {
	return &Session{backend: b, state: StateChecking}
}

// Check asks the backend who is signed in. Any failure leaves the session
// unauthenticated.
func (s *Session) Check(ctx context.Context) *model.AuthUser {
	user, err := s.backend.Check(ctx)
	if err != nil {
		slog.Debug("session check failed", "error", err)
		user = nil
	}
	if user != nil && !user.Role.Valid() {
		slog.Warn("session check returned an unknown role", "user", user.Email, "role", user.Role)
		user = nil
	}
	s.set(user)
	return user
}

// Login signs in and then re-checks the session. Login is only successful
// when the check yields an identity.
func (s *Session) Login(ctx context.Context, creds model.Credentials) (*model.AuthUser, error) {
	if err := s.backend.Login(ctx, creds); err != nil {
		s.set(nil)
		return nil, err
	}
	user := s.Check(ctx)
	if user == nil {
		return nil, ErrLoginFailed
	}
	return user, nil
}

// Logout ends the backend session. Local state is cleared even when the
// backend call fails; that error is returned for logging.
func (s *Session) Logout(ctx context.Context) error {
	err := s.backend.Logout(ctx)
	s.set(nil)
	return err
}

func (s *Session) set(user *model.AuthUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	if user != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in identity or nil.
func (s *Session) User() *model.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}
