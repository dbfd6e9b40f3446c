package stubserver

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options configures a stub instance.
type Options struct {
	JWTSecret     string
	BoxCount      int
	AdminUsername string
	AdminPassword string
}

// New builds the Echo instance with the full REST surface registered and
// returns it together with the backing state, which tests may inspect and
// seed directly.
func New(opts Options, log zerolog.Logger) (*echo.Echo, *State, error) {
	state, err := NewState(opts.BoxCount, opts.AdminUsername, opts.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	h := &handlers{state: state, secret: opts.JWTSecret}
	authn := auth(opts.JWTSecret)
	admin := adminOnly()

	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Auth ---
	e.POST("/api/auth/user/login", h.userLogin)
	e.POST("/api/auth/admin/login", h.adminLogin)

	// --- User management ---
	um := e.Group("/api/user-management", authn)
	um.POST("/admin/get-user", h.getUser) // players may fetch their own record
	um.GET("/admin/get-all-users", h.getAllUsers, admin)
	um.POST("/admin/search-users-by-username", h.searchUsers, admin)
	um.POST("/admin/create-user", h.createUser, admin)
	um.DELETE("/admin/delete-user", h.deleteUser, admin)
	um.PUT("/admin/update-user-credits", h.updateCredits, admin)

	// --- Box selection ---
	bs := e.Group("/api/box-selection")
	bs.GET("/login-text", h.getLoginText) // readable before login
	bs.GET("/boxes", h.getBoxes, authn)
	bs.POST("/submit-selected-boxes", h.submitBoxes, authn)
	bs.GET("/box-color", h.getBoxColor, authn)
	bs.PUT("/set-all-boxes-to-unselected", h.resetBoxes, authn, admin)
	bs.PUT("/admin/set-box-color", h.setBoxColor, authn, admin)
	bs.PUT("/admin/login-text", h.setLoginText, authn, admin)

	return e, state, nil
}
