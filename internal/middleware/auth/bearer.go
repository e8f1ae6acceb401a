package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/logging"
	loggingmw "github.com/Skotchmaster/staff_records/internal/middleware/logging"
	"github.com/Skotchmaster/staff_records/internal/tokens"
)

const (
	ContextUserID   = loggingmw.UserIDKey
	ContextUsername = "username"
)

type Verifier interface {
	Verify(raw string) (*tokens.Identity, error)
}

type BearerAuth struct {
	Sessions Verifier
}

func NewBearerAuth(v Verifier) *BearerAuth {
	return &BearerAuth{Sessions: v}
}

// RequireAuth rejects the request with 401 unless it carries a valid
// "Authorization: Bearer <token>" header. The verified identity is stored
// under ContextUserID and ContextUsername.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization token not found.")
		}

		ident, err := m.Sessions.Verify(raw)
		if err != nil {
			logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token.")
		}

		c.Set(ContextUserID, ident.UserID)
		c.Set(ContextUsername, ident.Username)

		l := logging.FromContext(c.Request().Context()).With("user_id", ident.UserID)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the identity stored by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok && id != 0
}
