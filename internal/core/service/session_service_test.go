package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

func TestSessionService_Login_Success(t *testing.T) {
	token := testToken(7)
	auth := &stubAuthAPI{
		loginFn: func(_ context.Context, username, password string) (string, error) {
			if username != "alice" || password != "pw" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return token, nil
		},
	}
	users := &stubUserAPI{
		getUserFn: func(_ context.Context, tok string, id int) (*domain.User, error) {
			if tok != token || id != 7 {
				t.Fatalf("unexpected fetch: token=%q id=%d", tok, id)
			}
			return &domain.User{ID: 7, Username: "alice", Credits: 2}, nil
		},
	}
	st := newMemStore()
	svc := NewSessionService(auth, users, st, nopLog)

	if !svc.Login(context.Background(), "alice", "pw") {
		t.Fatalf("Login failed: %s", svc.Err())
	}
	if !svc.IsAuthenticated() || svc.IsAdmin() {
		t.Fatalf("expected authenticated user session")
	}
	if svc.Token() != token {
		t.Fatalf("unexpected token %q", svc.Token())
	}
	if u := svc.CurrentUser(); u == nil || u.Credits != 2 {
		t.Fatalf("unexpected cached user: %+v", u)
	}
	if svc.Err() != "" {
		t.Fatalf("expected cleared error, got %q", svc.Err())
	}
	if st.stored().State != domain.StateUser {
		t.Fatalf("session not persisted: %+v", st.stored())
	}
}

func TestSessionService_Login_Failure(t *testing.T) {
	auth := &stubAuthAPI{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("invalid credentials")
		},
	}
	st := newMemStore()
	svc := NewSessionService(auth, &stubUserAPI{}, st, nopLog)

	if svc.Login(context.Background(), "alice", "bad") {
		t.Fatalf("expected login to fail")
	}
	if svc.Err() != "invalid credentials" {
		t.Fatalf("unexpected error message: %q", svc.Err())
	}
	if svc.IsAuthenticated() {
		t.Fatalf("failed login must not authenticate")
	}
	if st.saves != 0 {
		t.Fatalf("failed login must not persist anything")
	}
}

func TestSessionService_Login_ReplacesAdminSession(t *testing.T) {
	st := newMemStore()
	st.sess = domain.AdminSession("admin-tok", &domain.User{Username: "root"})

	token := testToken(3)
	auth := &stubAuthAPI{
		loginFn: func(context.Context, string, string) (string, error) { return token, nil },
	}
	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			return &domain.User{ID: 3, Username: "carol"}, nil
		},
	}
	svc := NewSessionService(auth, users, st, nopLog)

	if !svc.IsAdmin() {
		t.Fatalf("expected restored admin session")
	}
	if !svc.Login(context.Background(), "carol", "pw") {
		t.Fatalf("Login failed: %s", svc.Err())
	}

	stored := st.stored()
	if stored.State != domain.StateUser || stored.Token != token {
		t.Fatalf("admin session survived user login: %+v", stored)
	}
	if svc.IsAdmin() {
		t.Fatalf("role should have switched to user")
	}
}

func TestSessionService_AdminLogin_ReplacesUserSession(t *testing.T) {
	st := newMemStore()
	st.sess = domain.UserSession(testToken(5), &domain.User{ID: 5, Username: "dave"})

	auth := &stubAuthAPI{
		adminLoginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "admin-tok", &domain.User{Username: "root"}, nil
		},
	}
	svc := NewSessionService(auth, &stubUserAPI{}, st, nopLog)

	if !svc.AdminLogin(context.Background(), "root", "pw") {
		t.Fatalf("AdminLogin failed: %s", svc.Err())
	}

	stored := st.stored()
	if stored.State != domain.StateAdmin || stored.Token != "admin-tok" {
		t.Fatalf("user session survived admin login: %+v", stored)
	}
	if u := svc.CurrentUser(); u == nil || u.Username != "root" {
		t.Fatalf("admin record should come from the login response, got %+v", u)
	}
}

func TestSessionService_Login_UserFetchFailureStillSucceeds(t *testing.T) {
	auth := &stubAuthAPI{
		loginFn: func(context.Context, string, string) (string, error) { return testToken(9), nil },
	}
	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			return nil, errors.New("Failed to fetch user data")
		},
	}
	svc := NewSessionService(auth, users, newMemStore(), nopLog)

	if !svc.Login(context.Background(), "eve", "pw") {
		t.Fatalf("login should succeed despite fetch failure")
	}
	if svc.CurrentUser() != nil {
		t.Fatalf("expected no cached user")
	}
}

func TestSessionService_Logout_Idempotent(t *testing.T) {
	st := newMemStore()
	st.sess = domain.UserSession(testToken(1), &domain.User{ID: 1})
	svc := NewSessionService(&stubAuthAPI{}, &stubUserAPI{}, st, nopLog)

	svc.Logout()
	svc.Logout()

	if svc.IsAuthenticated() {
		t.Fatalf("expected logged-out state")
	}
	if svc.Err() != "" {
		t.Fatalf("logout must clear the error")
	}
	if st.clears != 2 {
		t.Fatalf("expected 2 clear calls, got %d", st.clears)
	}
}

func TestSessionService_RefreshUserData_NoopForAdmin(t *testing.T) {
	st := newMemStore()
	st.sess = domain.AdminSession("admin-tok", &domain.User{Username: "root"})

	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			t.Fatalf("admin refresh must not hit the network")
			return nil, nil
		},
	}
	svc := NewSessionService(&stubAuthAPI{}, users, st, nopLog)

	svc.RefreshUserData(context.Background())
}

func TestSessionService_RefreshUserData_UpdatesCache(t *testing.T) {
	st := newMemStore()
	st.sess = domain.UserSession(testToken(7), &domain.User{ID: 7, Credits: 2})

	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			return &domain.User{ID: 7, Username: "alice", Credits: 0}, nil
		},
	}
	svc := NewSessionService(&stubAuthAPI{}, users, st, nopLog)

	svc.RefreshUserData(context.Background())

	if u := svc.CurrentUser(); u == nil || u.Credits != 0 {
		t.Fatalf("cache not refreshed: %+v", u)
	}
	if st.stored().User == nil || st.stored().User.Credits != 0 {
		t.Fatalf("refreshed record not persisted: %+v", st.stored())
	}
}

func TestSessionService_RefreshUserData_SwallowsFailure(t *testing.T) {
	st := newMemStore()
	st.sess = domain.UserSession(testToken(7), &domain.User{ID: 7, Credits: 2})

	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			return nil, errors.New("boom")
		},
	}
	svc := NewSessionService(&stubAuthAPI{}, users, st, nopLog)

	svc.RefreshUserData(context.Background())

	if u := svc.CurrentUser(); u == nil || u.Credits != 2 {
		t.Fatalf("stale cache should be kept on failure, got %+v", u)
	}
}

func TestSessionService_RefreshUserData_MalformedToken(t *testing.T) {
	st := newMemStore()
	st.sess = domain.UserSession("not-a-jwt", &domain.User{ID: 7})

	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			t.Fatalf("malformed token must not trigger a fetch")
			return nil, nil
		},
	}
	svc := NewSessionService(&stubAuthAPI{}, users, st, nopLog)

	svc.RefreshUserData(context.Background())
}

func TestSessionService_SubscribersNotified(t *testing.T) {
	auth := &stubAuthAPI{
		loginFn: func(context.Context, string, string) (string, error) { return testToken(2), nil },
	}
	users := &stubUserAPI{
		getUserFn: func(context.Context, string, int) (*domain.User, error) {
			return &domain.User{ID: 2}, nil
		},
	}
	svc := NewSessionService(auth, users, newMemStore(), nopLog)

	var states []domain.SessionState
	svc.Subscribe(func(s domain.Session) { states = append(states, s.State) })

	svc.Login(context.Background(), "a", "b")
	svc.Logout()

	if len(states) != 2 || states[0] != domain.StateUser || states[1] != domain.StateLoggedOut {
		t.Fatalf("unexpected notifications: %v", states)
	}
}
