package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/staff_records/internal/models"
)

func (r *GormRepo) CreateReset(ctx context.Context, reset *models.PasswordReset) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return translate(db.Create(reset).Error)
}

func (r *GormRepo) FindResetByHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var reset models.PasswordReset
	if err := db.Where("token_hash = ?", tokenHash).First(&reset).Error; err != nil {
		return nil, translate(err)
	}
	return &reset, nil
}

// DeleteReset returns ErrNotFound when the row is already gone, which is how
// a concurrent second consumer of the same token learns it lost.
func (r *GormRepo) DeleteReset(ctx context.Context, id uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&models.PasswordReset{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpiredResets drops the user's rows that expired before now.
func (r *GormRepo) PurgeExpiredResets(ctx context.Context, userID uint, now time.Time) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Where("user_id = ? AND expires_at < ?", userID, now).Delete(&models.PasswordReset{})
	return res.RowsAffected, translate(res.Error)
}
