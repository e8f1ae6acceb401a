package repo

import (
	"context"

	"github.com/Skotchmaster/staff_records/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return translate(db.Create(u).Error)
}

// FindUserByUsername is an exact, case-sensitive match.
func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("user_name = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) FindUserByUsernameAndPhone(ctx context.Context, username, phone string) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("user_name = ? AND mobile_number = ?", username, phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, id uint, passwordHash string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("user_id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) UpdateUsername(ctx context.Context, id uint, username string) (*models.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("user_id = ?", id).Update("user_name", username)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var user models.User
	if err := db.Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
