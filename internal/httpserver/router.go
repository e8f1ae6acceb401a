package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	ProfileHandler  *ProfileHTTP
	EmployeeHandler *EmployeeHTTP
	Sessions        auth.Verifier
	// APIPrefix is prepended to every API route, e.g. "/api".
	APIPrefix string
	// Ready reports whether dependencies such as the database are reachable.
	Ready func(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

// Register installs the error handler, validator and every route on e.
func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
		}
		return c.NoContent(http.StatusOK)
	})

	authMw := auth.NewBearerAuth(d.Sessions)

	api := e.Group(d.APIPrefix)

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	api.POST("/reset-password", d.AuthHandler.ResetPassword)

	private := api.Group("")
	private.Use(authMw.RequireAuth)

	private.PUT("/profile/username", d.ProfileHandler.UpdateUsername)
	private.POST("/profile/password", d.ProfileHandler.ChangePassword)

	private.GET("/employees", d.EmployeeHandler.List)
	private.GET("/employees/:id", d.EmployeeHandler.Get)
	private.POST("/employees", d.EmployeeHandler.Create)
	private.PUT("/employees/:id", d.EmployeeHandler.Update)
	private.DELETE("/employees/:id", d.EmployeeHandler.Delete)
}
