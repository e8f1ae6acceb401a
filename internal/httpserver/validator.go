package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/util"
)

// Validator adapts go-playground/validator to echo and turns the first
// failed rule into a message the client can show.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := util.NormalizeDate(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusBadRequest, message(verrs[0])).SetInternal(err)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing required fields."
	case "eqfield":
		return "Passwords don't match."
	case "min":
		if strings.HasSuffix(fe.Field(), "UserName") {
			return "Username must be at least 3 characters."
		}
		return fe.Field() + " is too short."
	case "calendar_date":
		return "Joined date must be in YYYY-MM-DD format."
	case "gte":
		return "Salary must be a positive number."
	default:
		return "Invalid value for " + fe.Field() + "."
	}
}
