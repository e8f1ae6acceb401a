package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/middleware/auth"
	"github.com/Skotchmaster/staff_records/internal/service"
	"github.com/Skotchmaster/staff_records/internal/transport"
)

type ProfileHTTP struct {
	Svc *service.AuthService
}

func currentUser(c echo.Context) (uint, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token.")
	}
	return id, nil
}

func (h *ProfileHTTP) UpdateUsername(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_update_username")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username must be at least 3 characters.")
	}

	user, err := h.Svc.UpdateUsername(ctx, userID, req.NewUserName)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Username is already taken.")
		}
		return httpError(err, "Failed to update username.")
	}

	l.Info("username_updated")
	return ok(c, http.StatusOK, "Username updated successfully.", user)
}

func (h *ProfileHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_change_password")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("change_password_error", "status", 400, "error", err)
		return err
	}

	if err := h.Svc.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		return httpError(err, "Failed to change password.")
	}

	l.Info("password_changed")
	return ok(c, http.StatusOK, "Password changed successfully.", nil)
}
