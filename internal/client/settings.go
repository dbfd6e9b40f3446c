package client

import (
	"context"
	"net/http"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

// GetBoxColor returns the global box theme.
func (c *Client) GetBoxColor(ctx context.Context, token string) (domain.BoxColor, error) {
	var resp struct {
		Color domain.BoxColor `json:"color"`
	}
	err := c.get(ctx, boxBase+"/box-color", token, &resp, "Failed to fetch box color")
	if err != nil {
		return "", err
	}
	return resp.Color, nil
}

// SetBoxColor updates the global box theme. Admin only.
func (c *Client) SetBoxColor(ctx context.Context, token string, color domain.BoxColor) error {
	return c.do(ctx, http.MethodPut, boxBase+"/admin/set-box-color",
		token, map[string]domain.BoxColor{"color": color}, nil, "Failed to update box color")
}

// GetLoginText fetches the login-screen copy.
func (c *Client) GetLoginText(ctx context.Context, token string) (domain.LoginText, error) {
	var resp struct {
		Data domain.LoginText `json:"data"`
	}
	err := c.get(ctx, boxBase+"/login-text", token, &resp, "Failed to fetch login text")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SetLoginText replaces the login-screen copy. Admin only.
func (c *Client) SetLoginText(ctx context.Context, token string, settings domain.LoginText) error {
	return c.do(ctx, http.MethodPut, boxBase+"/admin/login-text",
		token, map[string]domain.LoginText{"settings": settings}, nil, "Failed to update login text")
}
