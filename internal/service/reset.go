package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/staff_records/internal/events"
	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/models"
	"github.com/Skotchmaster/staff_records/internal/repo"
)

const (
	DefaultResetTTL = 10 * time.Minute
	resetTokenBytes = 32
)

// ResetService issues and consumes single-use password reset tokens. Tokens
// are independent of sessions: neither kind can stand in for the other.
type ResetService struct {
	Repo   *repo.GormRepo
	Auth   *AuthService
	Events events.Publisher
	TTL    time.Duration
	Now    func() time.Time
	// MustDeliver turns a failed password_reset_requested publish into a
	// failed request. Set it when the token is not returned to the caller.
	MustDeliver bool
}

type ResetRequest struct {
	Token     string
	ExpiresAt time.Time
}

type resetEvent struct {
	UserID       uint      `json:"userID"`
	Username     string    `json:"userName"`
	MobileNumber string    `json:"mobileNumber"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ResetService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultResetTTL
	}
	return s.TTL
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Request issues a token for the user matching both username and phone.
func (s *ResetService) Request(ctx context.Context, username, phone string) (*ResetRequest, error) {
	l := logging.FromContext(ctx).With("svc", "reset.request")

	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)
	if username == "" || phone == "" {
		return nil, invalid("Missing required fields.")
	}

	user, err := s.Repo.FindUserByUsernameAndPhone(ctx, username, phone)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("reset_request_failed", "status", 404, "reason", "no user with that username and phone")
			return nil, ErrUserNotFound
		}
		l.Error("reset_request_failed", "status", 500, "error", err)
		return nil, ErrInternal
	}

	now := s.now()
	if n, err := s.Repo.PurgeExpiredResets(ctx, user.ID, now); err != nil {
		l.Warn("reset_purge_failed", "user_id", user.ID, "error", err)
	} else if n > 0 {
		l.Debug("reset_purged", "user_id", user.ID, "rows", n)
	}

	token, err := newResetToken()
	if err != nil {
		l.Error("reset_request_failed", "status", 500, "reason", "cannot generate token", "error", err)
		return nil, ErrInternal
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(s.ttl()),
	}
	if err := s.Repo.CreateReset(ctx, reset); err != nil {
		l.Error("reset_request_failed", "status", 500, "reason", "cannot store token", "error", err)
		return nil, ErrInternal
	}

	ev := resetEvent{
		UserID:       user.ID,
		Username:     user.Username,
		MobileNumber: user.MobileNumber,
		Token:        token,
		ExpiresAt:    reset.ExpiresAt,
	}
	if s.MustDeliver {
		if s.Events == nil {
			l.Error("reset_request_failed", "status", 500, "reason", "no delivery channel configured")
			return nil, ErrInternal
		}
		if err := s.Events.Publish(ctx, idKey(user.ID), events.PasswordResetRequested, ev); err != nil {
			l.Error("reset_request_failed", "status", 500, "reason", "cannot hand off token", "error", err)
			return nil, ErrInternal
		}
	} else {
		publish(ctx, s.Events, idKey(user.ID), events.PasswordResetRequested, ev)
	}

	l.Info("reset_requested", "user_id", user.ID, "expires_at", reset.ExpiresAt)
	return &ResetRequest{Token: token, ExpiresAt: reset.ExpiresAt}, nil
}

// Consume sets a new password and deletes the token in one transaction. A
// failed password update leaves the token usable. The token is invalid once
// now is past its expiry.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "reset.consume")

	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return invalid("Missing required fields.")
	}

	now := s.now()
	var userID uint
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		reset, err := tx.FindResetByHash(ctx, hashResetToken(token))
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return err
		}
		if now.After(reset.ExpiresAt) {
			return ErrInvalidOrExpiredToken
		}

		if err := s.Auth.setPassword(ctx, tx, reset.UserID, newPassword); err != nil {
			return err
		}

		if err := tx.DeleteReset(ctx, reset.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return err
		}
		userID = reset.UserID
		return nil
	})

	switch {
	case err == nil:
		l.Info("password_reset", "user_id", userID)
		return nil
	case errors.Is(err, ErrInvalidOrExpiredToken):
		l.Warn("reset_consume_failed", "status", 400, "reason", "invalid or expired token")
		return ErrInvalidOrExpiredToken
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInternal), errors.Is(err, ErrUserNotFound):
		return err
	default:
		l.Error("reset_consume_failed", "status", 500, "error", err)
		return ErrInternal
	}
}
