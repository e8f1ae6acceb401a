package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/staff_records/internal/models"
)

const detailSavepoint = "employee_detail"

const recordColumns = `m.mast_code, m.user_id, m.emp_id, m.emp_name, m.designation, m.department, m.joined_date, m.salary,
d.emp_detail_id, d.address_line1, d.address_line2, d.city, d.state, d.country`

func recordQuery(db *gorm.DB) *gorm.DB {
	return db.Table("employee_masters AS m").
		Select(recordColumns).
		Joins("LEFT JOIN employee_details AS d ON d.mast_code = m.mast_code")
}

// likePattern escapes LIKE wildcards so q is matched literally.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(q)) + "%"
}

func matching(query *gorm.DB, q string) *gorm.DB {
	if q = strings.TrimSpace(q); q == "" {
		return query
	}
	p := likePattern(q)
	return query.Where(
		`LOWER(m.emp_name) LIKE ? ESCAPE '\' OR LOWER(m.emp_id) LIKE ? ESCAPE '\' OR LOWER(m.designation) LIKE ? ESCAPE '\' OR LOWER(m.department) LIKE ? ESCAPE '\'`,
		p, p, p, p,
	)
}

// ListEmployees matches q case-insensitively as a substring of name, empID,
// designation or department. An empty q lists everything.
func (r *GormRepo) ListEmployees(ctx context.Context, q string) ([]models.EmployeeRecord, error) {
	return r.ListEmployeesPage(ctx, q, 0, 0)
}

// ListEmployeesPage is ListEmployees restricted to limit rows starting at
// offset. A limit of zero means no limit.
func (r *GormRepo) ListEmployeesPage(ctx context.Context, q string, offset, limit int) ([]models.EmployeeRecord, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query := matching(recordQuery(db), q).Order("m.mast_code ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	records := make([]models.EmployeeRecord, 0)
	if err := query.Scan(&records).Error; err != nil {
		return nil, translate(err)
	}
	return records, nil
}

func (r *GormRepo) GetEmployee(ctx context.Context, mastCode uint) (*models.EmployeeRecord, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var records []models.EmployeeRecord
	if err := recordQuery(db).Where("m.mast_code = ?", mastCode).Limit(1).Scan(&records).Error; err != nil {
		return nil, translate(err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// CreateEmployee inserts the master row, then the detail row that references
// it. A failed detail insert is rolled back to its savepoint and the master
// row is deleted again before the transaction commits, so the caller never
// sees a master without its detail. The detail failure is reported as
// ErrDetailWrite.
func (r *GormRepo) CreateEmployee(ctx context.Context, master *models.EmployeeMaster, detail *models.EmployeeDetail) (uint, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var detailErr error
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(master).Error; err != nil {
			return translate(err)
		}

		detail.MastCode = master.MastCode
		if err := insertDetail(tx, detail); err != nil {
			detailErr = err
			return compensateMaster(tx, master.MastCode)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if detailErr != nil {
		master.MastCode = 0
		return 0, fmt.Errorf("%w: %v", ErrDetailWrite, detailErr)
	}
	return master.MastCode, nil
}

func insertDetail(tx *gorm.DB, detail *models.EmployeeDetail) error {
	if err := tx.SavePoint(detailSavepoint).Error; err != nil {
		return err
	}
	if err := tx.Create(detail).Error; err != nil {
		if rbErr := tx.RollbackTo(detailSavepoint).Error; rbErr != nil {
			return fmt.Errorf("%v (rollback to savepoint: %v)", err, rbErr)
		}
		return err
	}
	return nil
}

func compensateMaster(tx *gorm.DB, mastCode uint) error {
	res := tx.Delete(&models.EmployeeMaster{}, mastCode)
	if res.Error != nil {
		return fmt.Errorf("compensate master %d: %w", mastCode, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("compensate master %d: %d rows deleted", mastCode, res.RowsAffected)
	}
	return nil
}

// UpdateEmployee rewrites the master row and then the detail row. When no
// detail row exists yet one is inserted instead.
func (r *GormRepo) UpdateEmployee(ctx context.Context, mastCode uint, master *models.EmployeeMaster, detail *models.EmployeeDetail) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.EmployeeMaster
		if err := tx.Select("mast_code").Where("mast_code = ?", mastCode).First(&existing).Error; err != nil {
			return translate(err)
		}

		if err := tx.Model(&models.EmployeeMaster{}).Where("mast_code = ?", mastCode).Updates(map[string]any{
			"emp_id":      master.EmpID,
			"emp_name":    master.EmpName,
			"designation": master.Designation,
			"department":  master.Department,
			"joined_date": master.JoinedDate,
			"salary":      master.Salary,
		}).Error; err != nil {
			return translate(err)
		}

		res := tx.Model(&models.EmployeeDetail{}).Where("mast_code = ?", mastCode).Updates(map[string]any{
			"address_line1": detail.AddressLine1,
			"address_line2": detail.AddressLine2,
			"city":          detail.City,
			"state":         detail.State,
			"country":       detail.Country,
		})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		detail.EmpDetailID = 0
		detail.MastCode = mastCode
		return translate(tx.Create(detail).Error)
	})
}

// DeleteEmployee removes the master row only; the detail row goes with it
// through the ON DELETE CASCADE foreign key.
func (r *GormRepo) DeleteEmployee(ctx context.Context, mastCode uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&models.EmployeeMaster{}, mastCode)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountEmployees counts the records ListEmployees would return for q.
func (r *GormRepo) CountEmployees(ctx context.Context, q string) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var n int64
	err := matching(db.Table("employee_masters AS m"), q).Count(&n).Error
	return n, translate(err)
}
