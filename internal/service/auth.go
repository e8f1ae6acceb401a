package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/staff_records/internal/events"
	"github.com/Skotchmaster/staff_records/internal/hash"
	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/models"
	"github.com/Skotchmaster/staff_records/internal/repo"
	"github.com/Skotchmaster/staff_records/internal/tokens"
)

const MinUsernameLength = 3

type AuthService struct {
	Repo     *repo.GormRepo
	Hasher   *hash.Hasher
	Sessions *tokens.SessionIssuer
	Events   events.Publisher

	dummyOnce sync.Once
	dummyHash string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type userEvent struct {
	UserID   uint   `json:"userID"`
	Username string `json:"userName"`
}

func validUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return invalid("Username must be at least 3 characters.")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, phone, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)
	if username == "" || phone == "" || password == "" {
		return nil, invalid("Missing required fields.")
	}
	if err := validUsername(username); err != nil {
		return nil, err
	}

	pwHash, err := s.Hasher.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, ErrInternal
	}

	user := &models.User{Username: username, MobileNumber: phone, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 400, "reason", "username already exists")
			return nil, ErrUsernameTaken
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, ErrInternal
	}

	publish(ctx, s.Events, idKey(user.ID), events.UserRegistered, userEvent{UserID: user.ID, Username: user.Username})
	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

// VerifyCredentials answers ErrInvalidCredentials for an unknown username and
// for a wrong password alike. An unknown username still pays for one bcrypt
// comparison so the two cases take comparable time.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Hasher.CheckPassword(s.dummy(), password)
			return nil, ErrInvalidCredentials
		}
		logging.FromContext(ctx).Error("login_error", "status", 500, "error", err)
		return nil, ErrInternal
	}
	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.HashPassword("staff-records-placeholder")
	})
	return s.dummyHash
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		}
		return nil, err
	}

	token, exp, err := s.Sessions.Issue(user.ID, user.Username)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue session", "error", err)
		return nil, ErrInternal
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", userID)

	if oldPassword == "" || newPassword == "" {
		return invalid("Missing required fields.")
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		l.Error("change_password_error", "status", 500, "error", err)
		return ErrInternal
	}
	if !s.Hasher.CheckPassword(user.PasswordHash, oldPassword) {
		l.Warn("change_password_error", "status", 401, "reason", "old password mismatch")
		return ErrInvalidOldPassword
	}
	return s.setPassword(ctx, s.Repo, userID, newPassword)
}

// SetPassword rehashes without checking the current password.
func (s *AuthService) SetPassword(ctx context.Context, userID uint, newPassword string) error {
	return s.setPassword(ctx, s.Repo, userID, newPassword)
}

func (s *AuthService) setPassword(ctx context.Context, r *repo.GormRepo, userID uint, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.set_password", "user_id", userID)

	if newPassword == "" {
		return invalid("Missing required fields.")
	}
	pwHash, err := s.Hasher.HashPassword(newPassword)
	if err != nil {
		l.Error("set_password_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return ErrInternal
	}
	if err := r.UpdatePasswordHash(ctx, userID, pwHash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		l.Error("set_password_error", "status", 500, "error", err)
		return ErrInternal
	}
	return nil
}

func (s *AuthService) UpdateUsername(ctx context.Context, userID uint, newUsername string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_username", "user_id", userID)

	newUsername = strings.TrimSpace(newUsername)
	if err := validUsername(newUsername); err != nil {
		return nil, err
	}

	user, err := s.Repo.UpdateUsername(ctx, userID, newUsername)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, repo.ErrDuplicate):
		l.Warn("update_username_error", "status", 409, "reason", "username already taken")
		return nil, ErrUsernameTaken
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrUserNotFound
	default:
		l.Error("update_username_error", "status", 500, "error", err)
		return nil, ErrInternal
	}
}
