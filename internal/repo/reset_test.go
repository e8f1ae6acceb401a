package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/staff_records/internal/models"
)

func TestResetLifecycle(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	exp := time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC)
	reset := &models.PasswordReset{UserID: env.user.ID, TokenHash: "abc", ExpiresAt: exp}
	require.NoError(t, env.repo.CreateReset(ctx, reset))
	require.NotZero(t, reset.ID)

	got, err := env.repo.FindResetByHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, env.user.ID, got.UserID)
	assert.True(t, exp.Equal(got.ExpiresAt), "expiry must round-trip, got %s", got.ExpiresAt)

	_, err = env.repo.FindResetByHash(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.repo.DeleteReset(ctx, reset.ID))
	assert.ErrorIs(t, env.repo.DeleteReset(ctx, reset.ID), ErrNotFound)

	_, err = env.repo.FindResetByHash(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReset_DuplicateHash(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	exp := time.Now().UTC().Add(time.Minute)
	require.NoError(t, env.repo.CreateReset(ctx, &models.PasswordReset{UserID: env.user.ID, TokenHash: "same", ExpiresAt: exp}))
	err := env.repo.CreateReset(ctx, &models.PasswordReset{UserID: env.user.ID, TokenHash: "same", ExpiresAt: exp})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPurgeExpiredResets(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, env.repo.CreateReset(ctx, &models.PasswordReset{UserID: env.user.ID, TokenHash: "old", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, env.repo.CreateReset(ctx, &models.PasswordReset{UserID: env.user.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}))

	n, err := env.repo.PurgeExpiredResets(ctx, env.user.ID, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = env.repo.FindResetByHash(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.repo.FindResetByHash(ctx, "live")
	assert.NoError(t, err)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := env.repo.InTx(ctx, func(tx *GormRepo) error {
		if err := tx.UpdatePasswordHash(ctx, env.user.ID, "changed"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := env.repo.GetUserByID(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.PasswordHash)
}
