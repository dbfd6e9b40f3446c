package ports

import (
	"context"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

// AuthAPI covers the two unauthenticated login endpoints.
type AuthAPI interface {
	// Login exchanges player credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// AdminLogin exchanges admin credentials for a bearer token plus the
	// admin's account record (the server returns it inline, no extra fetch).
	AdminLogin(ctx context.Context, username, password string) (string, *domain.User, error)
}

// CreateUserInput carries the fields for a new player account.
type CreateUserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Credits  int    `json:"credits" validate:"gte=0"`
}

// UserAPI covers the user-management resource.
type UserAPI interface {
	GetUser(ctx context.Context, token string, id int) (*domain.User, error)
	GetAllUsers(ctx context.Context, token string) ([]domain.User, error)
	SearchUsers(ctx context.Context, token, username string) ([]domain.User, error)
	CreateUser(ctx context.Context, token string, in CreateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, token string, id int) error
	UpdateUserCredits(ctx context.Context, token string, id, credits int) error
}

// BoxAPI covers the box-selection resource.
type BoxAPI interface {
	GetBoxes(ctx context.Context, token string) ([]domain.Box, error)
	SubmitBoxes(ctx context.Context, token string, userID int, boxIDs []int) error
	ResetAllBoxes(ctx context.Context, token string) error
}

// SettingsAPI covers the global game settings.
type SettingsAPI interface {
	GetBoxColor(ctx context.Context, token string) (domain.BoxColor, error)
	SetBoxColor(ctx context.Context, token string, color domain.BoxColor) error
	GetLoginText(ctx context.Context, token string) (domain.LoginText, error)
	SetLoginText(ctx context.Context, token string, settings domain.LoginText) error
}
