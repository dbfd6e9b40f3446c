package client

import (
	"context"
	"net/http"

	"github.com/mysterybox-game/boxctl/internal/client/metrics"
	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

const boxBase = "/api/box-selection"

type boxesEnvelope struct {
	Data []domain.Box `json:"data"`
}

// GetBoxes fetches the whole box universe.
func (c *Client) GetBoxes(ctx context.Context, token string) ([]domain.Box, error) {
	var resp boxesEnvelope
	err := c.get(ctx, boxBase+"/boxes", token, &resp, "Failed to fetch boxes")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type submitRequest struct {
	UserID int   `json:"userId"`
	BoxIDs []int `json:"boxIds"`
}

// SubmitBoxes submits a final selection for the given user. The server
// decrements credits and claims the boxes; callers must re-fetch afterwards.
func (c *Client) SubmitBoxes(ctx context.Context, token string, userID int, boxIDs []int) error {
	err := c.do(ctx, http.MethodPost, boxBase+"/submit-selected-boxes",
		token, submitRequest{UserID: userID, BoxIDs: boxIDs}, nil, "Failed to submit boxes")
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	return nil
}

// ResetAllBoxes clears every box's owner. Destructive and global.
func (c *Client) ResetAllBoxes(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPut, boxBase+"/set-all-boxes-to-unselected",
		token, nil, nil, "Failed to reset boxes")
}
