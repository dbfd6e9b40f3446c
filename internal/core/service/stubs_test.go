package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

var nopLog = zerolog.Nop()

// testToken signs a throwaway HS256 token carrying the given subject id, the
// shape the real backend issues.
func testToken(userID int) string {
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": "test",
		"role":     domain.RoleUser,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return tok
}

type stubAuthAPI struct {
	loginFn      func(ctx context.Context, username, password string) (string, error)
	adminLoginFn func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthAPI) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthAPI) AdminLogin(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.adminLoginFn(ctx, username, password)
}

type stubUserAPI struct {
	getUserFn       func(ctx context.Context, token string, id int) (*domain.User, error)
	getAllFn        func(ctx context.Context, token string) ([]domain.User, error)
	searchFn        func(ctx context.Context, token, username string) ([]domain.User, error)
	createFn        func(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, error)
	deleteFn        func(ctx context.Context, token string, id int) error
	updateCreditsFn func(ctx context.Context, token string, id, credits int) error
}

func (s *stubUserAPI) GetUser(ctx context.Context, token string, id int) (*domain.User, error) {
	return s.getUserFn(ctx, token, id)
}

func (s *stubUserAPI) GetAllUsers(ctx context.Context, token string) ([]domain.User, error) {
	return s.getAllFn(ctx, token)
}

func (s *stubUserAPI) SearchUsers(ctx context.Context, token, username string) ([]domain.User, error) {
	return s.searchFn(ctx, token, username)
}

func (s *stubUserAPI) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, token, in)
}

func (s *stubUserAPI) DeleteUser(ctx context.Context, token string, id int) error {
	return s.deleteFn(ctx, token, id)
}

func (s *stubUserAPI) UpdateUserCredits(ctx context.Context, token string, id, credits int) error {
	return s.updateCreditsFn(ctx, token, id, credits)
}

type stubBoxAPI struct {
	getBoxesFn func(ctx context.Context, token string) ([]domain.Box, error)
	submitFn   func(ctx context.Context, token string, userID int, boxIDs []int) error
	resetFn    func(ctx context.Context, token string) error
}

func (s *stubBoxAPI) GetBoxes(ctx context.Context, token string) ([]domain.Box, error) {
	return s.getBoxesFn(ctx, token)
}

func (s *stubBoxAPI) SubmitBoxes(ctx context.Context, token string, userID int, boxIDs []int) error {
	return s.submitFn(ctx, token, userID, boxIDs)
}

func (s *stubBoxAPI) ResetAllBoxes(ctx context.Context, token string) error {
	return s.resetFn(ctx, token)
}

type stubSettingsAPI struct {
	getColorFn     func(ctx context.Context, token string) (domain.BoxColor, error)
	setColorFn     func(ctx context.Context, token string, color domain.BoxColor) error
	getLoginTextFn func(ctx context.Context, token string) (domain.LoginText, error)
	setLoginTextFn func(ctx context.Context, token string, settings domain.LoginText) error
}

func (s *stubSettingsAPI) GetBoxColor(ctx context.Context, token string) (domain.BoxColor, error) {
	return s.getColorFn(ctx, token)
}

func (s *stubSettingsAPI) SetBoxColor(ctx context.Context, token string, color domain.BoxColor) error {
	return s.setColorFn(ctx, token, color)
}

func (s *stubSettingsAPI) GetLoginText(ctx context.Context, token string) (domain.LoginText, error) {
	return s.getLoginTextFn(ctx, token)
}

func (s *stubSettingsAPI) SetLoginText(ctx context.Context, token string, settings domain.LoginText) error {
	return s.setLoginTextFn(ctx, token, settings)
}

// memStore is an in-memory SessionStore recording call counts.
type memStore struct {
	mu      sync.Mutex
	sess    domain.Session
	saves   int
	clears  int
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{sess: domain.LoggedOut()}
}

func (m *memStore) Load() (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.LoggedOut(), m.loadErr
	}
	return m.sess, nil
}

func (m *memStore) Save(s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = s.Normalize()
	m.saves++
	return nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = domain.LoggedOut()
	m.clears++
	return nil
}

func (m *memStore) stored() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// stubSession is a canned ports.SessionManager for controller tests.
type stubSession struct {
	mu        sync.Mutex
	sess      domain.Session
	errMsg    string
	refreshFn func()
	subs      []func(domain.Session)
}

func userStubSession(token string, user *domain.User) *stubSession {
	return &stubSession{sess: domain.UserSession(token, user)}
}

func adminStubSession(token string) *stubSession {
	return &stubSession{sess: domain.AdminSession(token, &domain.User{Username: "root"})}
}

func (s *stubSession) Login(context.Context, string, string) bool      { return false }
func (s *stubSession) AdminLogin(context.Context, string, string) bool { return false }

func (s *stubSession) Logout() {
	s.setSession(domain.LoggedOut())
}

func (s *stubSession) RefreshUserData(context.Context) {
	if s.refreshFn != nil {
		s.refreshFn()
	}
}

func (s *stubSession) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func (s *stubSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token
}

func (s *stubSession) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.User
}

func (s *stubSession) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Authenticated()
}

func (s *stubSession) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.IsAdmin()
}

func (s *stubSession) Err() string { return s.errMsg }

func (s *stubSession) Subscribe(fn func(domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// setSession swaps the session and fires subscribers, like the real manager.
func (s *stubSession) setSession(sess domain.Session) {
	s.mu.Lock()
	s.sess = sess
	subs := make([]func(domain.Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(sess)
	}
}

// setCredits mutates the cached user's balance in place.
func (s *stubSession) setCredits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.User != nil {
		s.sess.User.Credits = n
	}
}
