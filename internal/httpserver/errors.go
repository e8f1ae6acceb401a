package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/service"
)

// httpError maps a service error to its status. fallback is the message
// used for 500s, which never carry the underlying cause to the client.
func httpError(err error, fallback string) *echo.HTTPError {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Msg)
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, service.ErrInvalidOldPassword):
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect old password.")
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found.")
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired token.")
	case errors.Is(err, service.ErrDuplicateEmpID):
		return echo.NewHTTPError(http.StatusBadRequest, "Employee ID already exists.")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found.")
	case errors.Is(err, service.ErrDetailWriteFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add employee details.").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.").SetInternal(err)
	}
	return c.Validate(req)
}
