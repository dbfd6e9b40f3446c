package client

import (
	"context"
	"net/http"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

const userBase = "/api/user-management"

// usersEnvelope matches the backend's list shape: {"data": [User...]}.
type usersEnvelope struct {
	Data []domain.User `json:"data"`
}

// GetUser fetches a single user record. The backend returns a one-element
// data array; an empty array means the id is unknown.
func (c *Client) GetUser(ctx context.Context, token string, id int) (*domain.User, error) {
	var resp usersEnvelope
	err := c.do(ctx, http.MethodPost, userBase+"/admin/get-user",
		token, map[string]int{"id": id}, &resp, "Failed to fetch user data")
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, &APIError{Status: http.StatusNotFound, Message: "Failed to fetch user data"}
	}
	u := resp.Data[0]
	return &u, nil
}

// GetAllUsers lists every user account.
func (c *Client) GetAllUsers(ctx context.Context, token string) ([]domain.User, error) {
	var resp usersEnvelope
	err := c.get(ctx, userBase+"/admin/get-all-users", token, &resp, "Failed to fetch users")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SearchUsers lists users whose username matches the given term. The match
// policy (substring, case handling) is the server's.
func (c *Client) SearchUsers(ctx context.Context, token, username string) ([]domain.User, error) {
	var resp usersEnvelope
	err := c.do(ctx, http.MethodPost, userBase+"/admin/search-users-by-username",
		token, map[string]string{"username": username}, &resp, "Failed to search users")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateUser creates a player account and returns the created record.
func (c *Client) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, error) {
	var resp struct {
		Data *domain.User `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, userBase+"/admin/create-user",
		token, in, &resp, "Failed to create user")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteUser removes a user account. Destructive; confirmation is the
// caller's responsibility.
func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, userBase+"/admin/delete-user",
		token, map[string]int{"id": id}, nil, "Failed to delete user")
}

// UpdateUserCredits sets a user's credit balance.
func (c *Client) UpdateUserCredits(ctx context.Context, token string, id, credits int) error {
	return c.do(ctx, http.MethodPut, userBase+"/admin/update-user-credits",
		token, map[string]int{"id": id, "credits": credits}, nil, "Failed to update user credits")
}
