package client

import (
	"context"
	"net/http"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userLoginResponse struct {
	Token string `json:"token"`
}

type adminLoginResponse struct {
	Token string       `json:"token"`
	Admin *domain.User `json:"admin"`
}

// Login exchanges player credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp userLoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/user/login",
		"", credentials{Username: username, Password: password}, &resp,
		"Failed to connect to the server")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// AdminLogin exchanges admin credentials for a bearer token and the admin's
// own account record.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, *domain.User, error) {
	var resp adminLoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/admin/login",
		"", credentials{Username: username, Password: password}, &resp,
		"Failed to connect to the server")
	if err != nil {
		return "", nil, err
	}
	return resp.Token, resp.Admin, nil
}
