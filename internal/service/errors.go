package service

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrInvalidOldPassword    = errors.New("old password is incorrect")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrDuplicateEmpID        = errors.New("employee ID already exists")
	ErrDetailWriteFailed     = errors.New("failed to save employee details")
	ErrNotFound              = errors.New("employee not found")
	ErrWriteFailed           = errors.New("failed to save employee")
	ErrInternal              = errors.New("internal server error")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
