// Package stubserver is an in-memory implementation of the mystery-box REST
// contract. It backs cmd/boxstub for local development and the integration
// tests; it is not the production backend.
package stubserver

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

type account struct {
	domain.User
	passwordHash []byte
}

// State holds the whole game world behind one mutex. All methods enforce the
// same semantics the real backend does, so client behaviour observed against
// the stub carries over.
type State struct {
	mu        sync.Mutex
	users     map[int]*account
	nextID    int
	boxes     []domain.Box
	color     domain.BoxColor
	loginText domain.LoginText

	adminUser string
	adminHash []byte
}

// NewState seeds boxCount empty boxes and the single admin account.
func NewState(boxCount int, adminUser, adminPassword string) (*State, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	boxes := make([]domain.Box, boxCount)
	for i := range boxes {
		boxes[i] = domain.Box{ID: i + 1}
	}

	return &State{
		users:     make(map[int]*account),
		nextID:    1,
		boxes:     boxes,
		color:     domain.ColorGreen,
		loginText: domain.LoginText{},
		adminUser: adminUser,
		adminHash: hash,
	}, nil
}

// Authenticate checks player credentials and returns the account record.
func (s *State) Authenticate(username, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.users {
		if a.Username == username {
			if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
				return nil, domain.ErrInvalidCredentials
			}
			u := a.User
			return &u, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

// AuthenticateAdmin checks the admin credentials.
func (s *State) AuthenticateAdmin(username, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username != s.adminUser || bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.User{ID: 0, Username: s.adminUser}, nil
}

// CreateUser adds a player account. Usernames are unique.
func (s *State) CreateUser(in ports.CreateUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.users {
		if a.Username == in.Username {
			return nil, domain.ErrUserExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &account{
		User: domain.User{
			ID:       s.nextID,
			Username: in.Username,
			Email:    in.Email,
			Credits:  in.Credits,
		},
		passwordHash: hash,
	}
	s.users[a.ID] = a
	s.nextID++

	u := a.User
	return &u, nil
}

// GetUser returns one account record.
func (s *State) GetUser(id int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := a.User
	return &u, nil
}

// ListUsers returns all accounts ordered by id.
func (s *State) ListUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// SearchUsers returns accounts whose username contains term,
// case-insensitive.
func (s *State) SearchUsers(term string) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = strings.ToLower(term)
	var out []domain.User
	for _, u := range s.listLocked() {
		if strings.Contains(strings.ToLower(u.Username), term) {
			out = append(out, u)
		}
	}
	return out
}

// DeleteUser removes an account. Boxes already claimed stay claimed.
func (s *State) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// SetCredits replaces a user's credit balance.
func (s *State) SetCredits(id, credits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if credits < 0 {
		return domain.ErrNegativeCredits
	}
	a, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	a.Credits = credits
	return nil
}

// Boxes returns a snapshot of the box universe.
func (s *State) Boxes() []domain.Box {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// Submit claims the given boxes for userID and spends the matching credits.
// The whole submission is atomic: either every box is free and the credits
// match, or nothing changes.
func (s *State) Submit(userID int, boxIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if a.Credits == 0 || len(boxIDs) != a.Credits {
		return domain.ErrSelectionIncomplete
	}

	seen := make(map[int]struct{}, len(boxIDs))
	idx := make([]int, 0, len(boxIDs))
	for _, id := range boxIDs {
		if _, dup := seen[id]; dup {
			return domain.ErrSelectionIncomplete
		}
		seen[id] = struct{}{}

		i := s.boxIndex(id)
		if i < 0 {
			return domain.ErrBoxNotFound
		}
		if s.boxes[i].Taken() {
			return domain.ErrBoxTaken
		}
		idx = append(idx, i)
	}

	owner := userID
	for _, i := range idx {
		s.boxes[i].SelectedBy = &owner
	}
	a.Credits -= len(boxIDs)
	return nil
}

// Reset clears every box's owner.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.boxes {
		s.boxes[i].SelectedBy = nil
	}
}

// Color returns the global theme.
func (s *State) Color() domain.BoxColor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// SetColor updates the global theme.
func (s *State) SetColor(c domain.BoxColor) error {
	if !c.Valid() {
		return domain.ErrInvalidColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
	return nil
}

// LoginText returns the login-screen copy.
func (s *State) LoginText() domain.LoginText {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(domain.LoginText, len(s.loginText))
	for k, v := range s.loginText {
		out[k] = v
	}
	return out
}

// SetLoginText replaces the login-screen copy.
func (s *State) SetLoginText(lt domain.LoginText) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loginText = make(domain.LoginText, len(lt))
	for k, v := range lt {
		s.loginText[k] = v
	}
}

// listLocked must be called with s.mu held.
func (s *State) listLocked() []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, a := range s.users {
		out = append(out, a.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *State) boxIndex(id int) int {
	for i, b := range s.boxes {
		if b.ID == id {
			return i
		}
	}
	return -1
}
