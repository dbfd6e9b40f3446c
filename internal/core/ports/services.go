package ports

import (
	"context"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

// SessionManager owns the current identity. It is the single writer of
// session state; everything else observes it through the accessors or
// Subscribe.
type SessionManager interface {
	// Login authenticates as a player. Returns false on failure; the reason
	// is available via Err. Never propagates an error past this boundary.
	Login(ctx context.Context, username, password string) bool
	// AdminLogin authenticates as an admin, replacing any player session.
	AdminLogin(ctx context.Context, username, password string) bool
	// Logout discards all session state. Idempotent.
	Logout()
	// RefreshUserData re-fetches the cached player record. No-op for admins
	// and logged-out sessions; failures are logged and swallowed.
	RefreshUserData(ctx context.Context)

	Session() domain.Session
	Token() string
	CurrentUser() *domain.User
	IsAuthenticated() bool
	IsAdmin() bool
	// Err returns the last human-readable auth error, empty when none.
	Err() string

	// Subscribe registers fn to run after every session change.
	Subscribe(fn func(domain.Session))
}

// SelectionController drives the pick-and-submit flow for the active player.
type SelectionController interface {
	LoadBoxes(ctx context.Context) error
	Toggle(boxID int) error
	Submit(ctx context.Context) error

	Boxes() []domain.Box
	Selected() []int
	Required() int
	Message() string
	SuccessMsg() string
	Err() string
}

// AdminConsole orchestrates user management and global game settings. Every
// user mutation returns the freshly re-listed users: the client keeps no
// authoritative cache.
type AdminConsole interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int) ([]domain.User, error)
	SetCredits(ctx context.Context, id, credits int) ([]domain.User, error)
	ResetAllBoxes(ctx context.Context) error
	GetBoxColor(ctx context.Context) (domain.BoxColor, error)
	SetBoxColor(ctx context.Context, color domain.BoxColor) error
	GetLoginText(ctx context.Context) (domain.LoginText, error)
	SetLoginText(ctx context.Context, settings domain.LoginText) error
}
