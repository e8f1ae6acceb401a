package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate key")
	ErrDetailWrite = errors.New("employee detail write failed")
)

type GormRepo struct {
	DB *gorm.DB
	// OpTimeout bounds every storage call; zero means no bound.
	OpTimeout time.Duration
}

func (r *GormRepo) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.OpTimeout <= 0 {
		return r.DB.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.OpTimeout)
	return r.DB.WithContext(ctx), cancel
}

// InTx runs fn against a repository bound to a single transaction. Any error
// returned by fn rolls the whole transaction back.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	conn, cancel := r.conn(ctx)
	defer cancel()

	return conn.Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
