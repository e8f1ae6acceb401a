package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/service"
	"github.com/Skotchmaster/staff_records/internal/transport"
)

type AuthHTTP struct {
	Svc   *service.AuthService
	Reset *service.ResetService
	// EchoResetToken returns the raw reset token in the forgot-password
	// response instead of relying only on the out-of-band hand-off.
	EchoResetToken bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return err
	}

	if _, err := h.Svc.Register(ctx, req.UserName, req.MobileNumber, req.Password); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "Username already exists.")
		}
		return httpError(err, "Server error during registration.")
	}

	return ok(c, http.StatusCreated, "User registered successfully.", nil)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	res, err := h.Svc.Login(ctx, req.UserName, req.Password)
	if err != nil {
		return httpError(err, "Server error during login.")
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return ok(c, http.StatusOK, "", transport.LoginData{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_forgot_password")

	var req transport.ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("forgot_password_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Reset.Request(ctx, req.UserName, req.MobileNumber)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found or mobile number mismatch.")
		}
		return httpError(err, "Could not create password reset token.")
	}

	if !h.EchoResetToken {
		return ok(c, http.StatusOK, "Reset instructions have been sent.", nil)
	}
	return ok(c, http.StatusOK, "Token generated successfully.", transport.TokenData{Token: res.Token})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset_password")

	var req transport.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("reset_password_error", "status", 400, "error", err)
		return err
	}

	if err := h.Reset.Consume(ctx, req.Token, req.NewPassword); err != nil {
		return httpError(err, "Server error during password reset.")
	}

	return ok(c, http.StatusOK, "Password has been reset successfully.", nil)
}
