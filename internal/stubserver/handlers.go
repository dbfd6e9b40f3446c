package stubserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

// handlers binds the in-memory state to the REST surface.
type handlers struct {
	state  *State
	secret string
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *handlers) userLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.state.Authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := issueToken(h.secret, user.ID, user.Username, domain.RoleUser)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *handlers) adminLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	admin, err := h.state.AuthenticateAdmin(req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := issueToken(h.secret, admin.ID, admin.Username, domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "admin": admin})
}

type idRequest struct {
	ID int `json:"id"`
}

// getUser serves both the admin console and a player refreshing its own
// record; players may only fetch themselves.
func (h *handlers) getUser(c echo.Context) error {
	var req idRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	role, _ := c.Get("role").(string)
	if role != domain.RoleAdmin {
		subject, _ := c.Get("user_id").(int)
		if subject != req.ID {
			return domain.ErrForbidden
		}
	}

	user, err := h.state.GetUser(req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"data": []*domain.User{user}})
}

func (h *handlers) getAllUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"data": h.state.ListUsers()})
}

func (h *handlers) searchUsers(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": h.state.SearchUsers(req.Username)})
}

func (h *handlers) createUser(c echo.Context) error {
	var req ports.CreateUserInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.state.CreateUser(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{"data": created})
}

func (h *handlers) deleteUser(c echo.Context) error {
	var req idRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.state.DeleteUser(req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *handlers) updateCredits(c echo.Context) error {
	var req struct {
		ID      int `json:"id"`
		Credits int `json:"credits"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.state.SetCredits(req.ID, req.Credits); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "credits updated"})
}

func (h *handlers) getBoxes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"data": h.state.Boxes()})
}

func (h *handlers) submitBoxes(c echo.Context) error {
	var req struct {
		UserID int   `json:"userId"`
		BoxIDs []int `json:"boxIds"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// Players can only spend their own credits.
	if role, _ := c.Get("role").(string); role != domain.RoleAdmin {
		if subject, _ := c.Get("user_id").(int); subject != req.UserID {
			return domain.ErrForbidden
		}
	}

	if err := h.state.Submit(req.UserID, req.BoxIDs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "boxes submitted"})
}

func (h *handlers) resetBoxes(c echo.Context) error {
	h.state.Reset()
	return c.JSON(http.StatusOK, map[string]string{"message": "all boxes reset"})
}

func (h *handlers) getBoxColor(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]domain.BoxColor{"color": h.state.Color()})
}

func (h *handlers) setBoxColor(c echo.Context) error {
	var req struct {
		Color domain.BoxColor `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.state.SetColor(req.Color); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "box color updated"})
}

func (h *handlers) getLoginText(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"data": h.state.LoginText()})
}

func (h *handlers) setLoginText(c echo.Context) error {
	var req struct {
		Settings domain.LoginText `json:"settings"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	h.state.SetLoginText(req.Settings)
	return c.JSON(http.StatusOK, map[string]any{"data": h.state.LoginText()})
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
