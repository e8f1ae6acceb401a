package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/transport"
)

func ok(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, transport.Response{Success: true, Message: message, Data: data})
}

// ErrorHandler renders every error as {"success": false, "message": ...}.
// Anything that is not an *echo.HTTPError becomes a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error."

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(code)
		}
		if code >= 500 && he.Internal != nil {
			logging.FromContext(c.Request().Context()).Error("internal_error", "status", code, "error", he.Internal)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, transport.Response{Success: false, Message: msg})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}
