package stubserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// newHTTPErrorHandler maps domain errors to deterministic status codes and
// renders the {"error": "<message>"} envelope the client parses.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrBoxNotFound):
		return http.StatusNotFound, "box not found"
	case errors.Is(err, domain.ErrBoxTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrSelectionIncomplete):
		return http.StatusBadRequest, "selection does not match credit balance"
	case errors.Is(err, domain.ErrNegativeCredits):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidColor):
		return http.StatusBadRequest, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
