package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

var errNoSubject = errors.New("token carries no user id")

// SessionService is the single writer of session state. It implements
// ports.SessionManager: login flows, persistence through the SessionStore,
// and change notification for dependents.
type SessionService struct {
	auth  ports.AuthAPI
	users ports.UserAPI
	store ports.SessionStore
	log   zerolog.Logger

	mu      sync.RWMutex
	session domain.Session
	errMsg  string
	subs    []func(domain.Session)
}

// NewSessionService restores any persisted session and returns the service.
// A corrupt session file is logged and ignored; the service starts logged out.
func NewSessionService(auth ports.AuthAPI, users ports.UserAPI, store ports.SessionStore, log zerolog.Logger) *SessionService {
	s := &SessionService{
		auth:    auth,
		users:   users,
		store:   store,
		log:     log,
		session: domain.LoggedOut(),
	}
	sess, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not restore session, starting logged out")
		return s
	}
	s.session = sess
	return s
}

// Login authenticates as a player. On success the persisted session is
// replaced wholesale, which drops any admin session. Returns false on
// failure with the reason available via Err; never propagates an error.
func (s *SessionService) Login(ctx context.Context, username, password string) bool {
	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.setError(err.Error())
		return false
	}

	user := s.fetchSelf(ctx, token)
	s.replace(domain.UserSession(token, user))
	return true
}

// AdminLogin authenticates as an admin. The admin record arrives in the
// login response, so no follow-up fetch is needed.
func (s *SessionService) AdminLogin(ctx context.Context, username, password string) bool {
	token, admin, err := s.auth.AdminLogin(ctx, username, password)
	if err != nil {
		s.setError(err.Error())
		return false
	}

	s.replace(domain.AdminSession(token, admin))
	return true
}

// Logout discards all persisted and in-memory session state. Idempotent.
func (s *SessionService) Logout() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.mu.Lock()
	s.session = domain.LoggedOut()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// RefreshUserData re-fetches the cached player record. No-op for admins and
// logged-out sessions. Failures are logged and swallowed: a stale cache is
// better than a broken UI.
func (s *SessionService) RefreshUserData(ctx context.Context) {
	s.mu.RLock()
	sess := s.session
	s.mu.RUnlock()

	if sess.State != domain.StateUser || sess.Token == "" {
		return
	}

	user := s.fetchSelf(ctx, sess.Token)
	if user == nil {
		return
	}

	s.mu.Lock()
	// Session may have changed while the fetch was in flight.
	if s.session.State != domain.StateUser || s.session.Token != sess.Token {
		s.mu.Unlock()
		return
	}
	s.session.User = user
	sess = s.session
	s.mu.Unlock()

	if err := s.store.Save(sess); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist refreshed session")
	}
	s.notify()
}

// fetchSelf resolves the subject id embedded in the token and fetches the
// account record. Returns nil when either step fails; both are logged.
func (s *SessionService) fetchSelf(ctx context.Context, token string) *domain.User {
	id, err := subjectID(token)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not decode user id from token")
		return nil
	}
	user, err := s.users.GetUser(ctx, token, id)
	if err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("failed to refresh user data")
		return nil
	}
	return user
}

// Session returns a copy of the current session.
func (s *SessionService) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the bearer token for the active role, empty when logged out.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// CurrentUser returns the cached account record, nil when none is held.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

func (s *SessionService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAdmin()
}

// Err returns the last auth error message, empty when the last operation
// succeeded.
func (s *SessionService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Subscribe registers fn to be called after every session change. Callbacks
// run synchronously on the mutating goroutine; keep them short.
func (s *SessionService) Subscribe(fn func(domain.Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *SessionService) replace(sess domain.Session) {
	s.mu.Lock()
	s.session = sess
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.store.Save(sess); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
	}
	s.notify()
}

func (s *SessionService) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *SessionService) notify() {
	s.mu.RLock()
	subs := make([]func(domain.Session), len(s.subs))
	copy(subs, s.subs)
	sess := s.session
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(sess)
	}
}

// subjectID extracts the userId claim without verifying the signature. The
// client never trusts the token's contents for authorization, only as a
// pointer to its own record; the server re-checks everything.
func subjectID(token string) (int, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	id, ok := claims["userId"].(float64)
	if !ok {
		return 0, errNoSubject
	}
	return int(id), nil
}
