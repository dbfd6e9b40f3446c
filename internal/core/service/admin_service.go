package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

// AdminService orchestrates the admin console: user management and global
// game settings. Every mutation is followed by a re-list so the admin view
// always reflects server state.
type AdminService struct {
	users    ports.UserAPI
	boxes    ports.BoxAPI
	settings ports.SettingsAPI
	session  ports.SessionManager
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAdminService(users ports.UserAPI, boxes ports.BoxAPI, settings ports.SettingsAPI, session ports.SessionManager, log zerolog.Logger) *AdminService {
	return &AdminService{
		users:    users,
		boxes:    boxes,
		settings: settings,
		session:  session,
		validate: validator.New(),
		log:      log,
	}
}

// ListUsers returns every user account.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAllUsers(ctx, s.session.Token())
}

// SearchUsers filters users by username. An empty term means list all.
func (s *AdminService) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListUsers(ctx)
	}
	return s.users.SearchUsers(ctx, s.session.Token(), term)
}

// CreateUser validates the input locally, creates the account, and returns
// the refreshed user list. Validation failures never reach the network.
func (s *AdminService) CreateUser(ctx context.Context, in ports.CreateUserInput) ([]domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	created, err := s.users.CreateUser(ctx, s.session.Token(), in)
	if err != nil {
		return nil, err
	}
	if created != nil {
		s.log.Info().Str("username", in.Username).Int("user_id", created.ID).Msg("user created")
	}
	return s.ListUsers(ctx)
}

// DeleteUser removes an account and returns the refreshed user list.
// Destructive; confirmation happens out-of-band.
func (s *AdminService) DeleteUser(ctx context.Context, id int) ([]domain.User, error) {
	if err := s.users.DeleteUser(ctx, s.session.Token(), id); err != nil {
		return nil, err
	}
	s.log.Info().Int("user_id", id).Msg("user deleted")
	return s.ListUsers(ctx)
}

// SetCredits updates a user's credit balance and returns the refreshed list.
func (s *AdminService) SetCredits(ctx context.Context, id, credits int) ([]domain.User, error) {
	if credits < 0 {
		return nil, domain.ErrNegativeCredits
	}
	if err := s.users.UpdateUserCredits(ctx, s.session.Token(), id, credits); err != nil {
		return nil, err
	}
	s.log.Info().Int("user_id", id).Int("credits", credits).Msg("credits updated")
	return s.ListUsers(ctx)
}

// ResetAllBoxes clears every box's owner. Destructive, global, and
// irreversible from the client's side.
func (s *AdminService) ResetAllBoxes(ctx context.Context) error {
	if err := s.boxes.ResetAllBoxes(ctx, s.session.Token()); err != nil {
		return err
	}
	s.log.Info().Msg("all boxes reset")
	return nil
}

// GetBoxColor returns the global theme.
func (s *AdminService) GetBoxColor(ctx context.Context) (domain.BoxColor, error) {
	return s.settings.GetBoxColor(ctx, s.session.Token())
}

// SetBoxColor updates the global theme. Unknown themes fail locally.
func (s *AdminService) SetBoxColor(ctx context.Context, color domain.BoxColor) error {
	if !color.Valid() {
		return domain.ErrInvalidColor
	}
	return s.settings.SetBoxColor(ctx, s.session.Token(), color)
}

// GetLoginText fetches the login-screen copy.
func (s *AdminService) GetLoginText(ctx context.Context) (domain.LoginText, error) {
	return s.settings.GetLoginText(ctx, s.session.Token())
}

// SetLoginText replaces the login-screen copy.
func (s *AdminService) SetLoginText(ctx context.Context, settings domain.LoginText) error {
	return s.settings.SetLoginText(ctx, s.session.Token(), settings)
}
