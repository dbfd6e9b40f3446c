package stubserver

import (
	"errors"
	"testing"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(5, "admin", "pw")
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func addPlayer(t *testing.T, s *State, username string, credits int) *domain.User {
	t.Helper()
	u, err := s.CreateUser(ports.CreateUserInput{Username: username, Password: "pw", Credits: credits})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestState_Submit_Atomic(t *testing.T) {
	s := newTestState(t)
	alice := addPlayer(t, s, "alice", 2)
	bob := addPlayer(t, s, "bob", 2)

	if err := s.Submit(alice.ID, []int{1, 2}); err != nil {
		t.Fatalf("alice submit: %v", err)
	}

	// Bob's overlapping submission fails entirely: box 3 stays free and his
	// credits stay untouched.
	if err := s.Submit(bob.ID, []int{2, 3}); !errors.Is(err, domain.ErrBoxTaken) {
		t.Fatalf("expected ErrBoxTaken, got %v", err)
	}

	for _, b := range s.Boxes() {
		if b.ID == 3 && b.Taken() {
			t.Fatalf("failed submit must not claim any box")
		}
	}
	got, _ := s.GetUser(bob.ID)
	if got.Credits != 2 {
		t.Fatalf("failed submit must not spend credits: %d", got.Credits)
	}
}

func TestState_Submit_DuplicateIDsRejected(t *testing.T) {
	s := newTestState(t)
	alice := addPlayer(t, s, "alice", 2)

	if err := s.Submit(alice.ID, []int{1, 1}); !errors.Is(err, domain.ErrSelectionIncomplete) {
		t.Fatalf("expected ErrSelectionIncomplete for duplicates, got %v", err)
	}
}

func TestState_Submit_ZeroCredits(t *testing.T) {
	s := newTestState(t)
	alice := addPlayer(t, s, "alice", 0)

	if err := s.Submit(alice.ID, nil); !errors.Is(err, domain.ErrSelectionIncomplete) {
		t.Fatalf("expected rejection for zero-credit submit, got %v", err)
	}
}

func TestState_Reset(t *testing.T) {
	s := newTestState(t)
	alice := addPlayer(t, s, "alice", 1)

	if err := s.Submit(alice.ID, []int{4}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Reset()

	for _, b := range s.Boxes() {
		if b.Taken() {
			t.Fatalf("box %d still taken after reset", b.ID)
		}
	}
}

func TestState_SearchCaseInsensitive(t *testing.T) {
	s := newTestState(t)
	addPlayer(t, s, "Alice", 0)
	addPlayer(t, s, "bob", 0)

	got := s.SearchUsers("ali")
	if len(got) != 1 || got[0].Username != "Alice" {
		t.Fatalf("unexpected search result: %v", got)
	}
	if got := s.SearchUsers(""); len(got) != 2 {
		t.Fatalf("empty term should match everyone, got %v", got)
	}
}

func TestState_Authenticate(t *testing.T) {
	s := newTestState(t)
	addPlayer(t, s, "alice", 1)

	if _, err := s.Authenticate("alice", "pw"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := s.Authenticate("alice", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.AuthenticateAdmin("admin", "pw"); err != nil {
		t.Fatalf("AuthenticateAdmin: %v", err)
	}
	if _, err := s.AuthenticateAdmin("admin", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
