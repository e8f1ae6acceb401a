package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is the fixed lifetime of every session.
const SessionTTL = time.Hour

var ErrUnauthenticated = errors.New("unauthenticated")

type SessionClaims struct {
	UserID   uint   `json:"id"`
	Username string `json:"userName"`
	jwt.RegisteredClaims
}

// Identity is what a verified session proves about the caller.
type Identity struct {
	UserID   uint
	Username string
}

// SessionIssuer signs and verifies stateless bearer sessions. The secret is
// fixed at construction; rotating it invalidates every outstanding session.
type SessionIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewSessionIssuer(secret []byte) *SessionIssuer {
	return &SessionIssuer{secret: secret, now: time.Now}
}

// WithClock replaces the time source, used by tests to pin issuance and expiry.
func (s *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	cp := *s
	cp.now = now
	return &cp
}

// Issue returns the signed token and its expiry. Claims carry whole seconds,
// so the issue time is truncated first and the returned expiry is exactly
// the one embedded in the token.
func (s *SessionIssuer) Issue(userID uint, username string) (string, time.Time, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	exp := issuedAt.Add(SessionTTL)

	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Verify fails with ErrUnauthenticated for empty, malformed, wrongly signed
// or expired tokens. A token stops verifying at exactly its expiry instant.
func (s *SessionIssuer) Verify(raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if claims.UserID == 0 || claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return nil, fmt.Errorf("%w: subject mismatch", ErrUnauthenticated)
	}

	return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
