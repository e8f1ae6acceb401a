package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/staff_records/internal/db/dbtest"
	"github.com/Skotchmaster/staff_records/internal/hash"
	"github.com/Skotchmaster/staff_records/internal/repo"
	"github.com/Skotchmaster/staff_records/internal/tokens"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type published struct {
	Key     string
	Type    string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{Key: key, Type: eventType, Payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Auth      *AuthService
	Reset     *ResetService
	Employees *EmployeeService
	Events    *recordingPublisher
	Clock     *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := dbtest.NewSQLite(t)
	r := &repo.GormRepo{DB: gdb}
	pub := &recordingPublisher{}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	auth := &AuthService{
		Repo:     r,
		Hasher:   hash.NewHasher(bcrypt.MinCost),
		Sessions: tokens.NewSessionIssuer([]byte("test-jwt-secret")),
		Events:   pub,
	}
	return &testEnv{
		DB:        gdb,
		Repo:      r,
		Auth:      auth,
		Reset:     &ResetService{Repo: r, Auth: auth, Events: pub, TTL: 10 * time.Minute, Now: clock.Now},
		Employees: &EmployeeService{Repo: r, Events: pub},
		Events:    pub,
		Clock:     clock,
	}
}

func (e *testEnv) register(t *testing.T, username, phone, password string) uint {
	t.Helper()
	u, err := e.Auth.Register(context.Background(), username, phone, password)
	require.NoError(t, err)
	return u.ID
}
