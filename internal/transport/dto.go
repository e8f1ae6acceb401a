// Package transport holds the JSON request and response bodies of the HTTP
// API. Field names follow the browser client.
package transport

import (
	"time"

	"github.com/Skotchmaster/staff_records/internal/models"
)

type RegisterRequest struct {
	UserName        string `json:"userName"        validate:"required,min=3"`
	MobileNumber    string `json:"mobileNumber"    validate:"required"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	UserName     string `json:"userName"     validate:"required"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"           validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type UpdateUsernameRequest struct {
	NewUserName string `json:"newUserName" validate:"required,min=3"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword"     validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type EmployeeRequest struct {
	EmpID       string  `json:"empID"       validate:"required"`
	EmpName     string  `json:"empName"     validate:"required"`
	Designation string  `json:"designation"`
	Department  string  `json:"department"`
	JoinedDate  string  `json:"joinedDate"  validate:"omitempty,calendar_date"`
	Salary      float64 `json:"salary"      validate:"gte=0"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

// Response is the envelope of every reply, successful or not.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type LoginData struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type TokenData struct {
	Token string `json:"token"`
}

type CreatedEmployeeData struct {
	MastCode uint `json:"mastCode"`
}
