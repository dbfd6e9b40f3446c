package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := tempStore(t)

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sess.State != domain.StateLoggedOut {
		t.Fatalf("expected logged-out session, got %+v", sess)
	}
}

func TestFileStore_SaveLoadRoundtrip(t *testing.T) {
	s := tempStore(t)

	in := domain.UserSession("tok-123", &domain.User{ID: 7, Username: "alice", Credits: 2})
	if err := s.Save(in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if out.State != domain.StateUser || out.Token != "tok-123" {
		t.Fatalf("unexpected session: %+v", out)
	}
	if out.User == nil || out.User.Username != "alice" || out.User.Credits != 2 {
		t.Fatalf("unexpected cached user: %+v", out.User)
	}
}

func TestFileStore_SaveReplacesPreviousSession(t *testing.T) {
	s := tempStore(t)

	if err := s.Save(domain.UserSession("user-tok", nil)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Save(domain.AdminSession("admin-tok", &domain.User{Username: "root"})); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if out.State != domain.StateAdmin || out.Token != "admin-tok" {
		t.Fatalf("expected admin session only, got %+v", out)
	}
}

func TestFileStore_SaveNormalizesLoggedOut(t *testing.T) {
	s := tempStore(t)

	if err := s.Save(domain.Session{State: domain.StateLoggedOut, Token: "stale"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if out.Token != "" {
		t.Fatalf("logged-out session kept a token: %+v", out)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := NewFileStore(path)
	sess, err := s.Load()
	if err == nil {
		t.Fatalf("expected error for corrupt file")
	}
	if sess.State != domain.StateLoggedOut {
		t.Fatalf("corrupt file should yield logged-out session, got %+v", sess)
	}
}

func TestFileStore_ClearIdempotent(t *testing.T) {
	s := tempStore(t)

	if err := s.Save(domain.UserSession("tok", nil)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}

	sess, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sess.Authenticated() {
		t.Fatalf("expected cleared session, got %+v", sess)
	}
}

func TestFileStore_FilePermissions(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(domain.UserSession("tok", nil)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}
