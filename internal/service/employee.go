package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/staff_records/internal/events"
	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/models"
	"github.com/Skotchmaster/staff_records/internal/repo"
	"github.com/Skotchmaster/staff_records/internal/util"
)

type EmployeeService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// EmployeeInput is the writable part of an employee record.
type EmployeeInput struct {
	EmpID       string
	EmpName     string
	Designation string
	Department  string
	JoinedDate  string
	Salary      float64

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Country      string
}

type employeeEvent struct {
	MastCode uint   `json:"mastCode"`
	EmpID    string `json:"empID,omitempty"`
	UserID   uint   `json:"userID,omitempty"`
}

func (in EmployeeInput) normalize() (EmployeeInput, error) {
	in.EmpID = strings.TrimSpace(in.EmpID)
	in.EmpName = strings.TrimSpace(in.EmpName)
	if in.EmpID == "" || in.EmpName == "" {
		return in, invalid("Employee ID and name are required.")
	}
	if in.Salary < 0 {
		return in, invalid("Salary cannot be negative.")
	}
	joined, err := util.NormalizeDate(strings.TrimSpace(in.JoinedDate))
	if err != nil {
		return in, invalid("Joined date must be in YYYY-MM-DD format.")
	}
	in.JoinedDate = joined
	return in, nil
}

func (in EmployeeInput) rows(userID uint) (*models.EmployeeMaster, *models.EmployeeDetail) {
	master := &models.EmployeeMaster{
		UserID:      userID,
		EmpID:       in.EmpID,
		EmpName:     in.EmpName,
		Designation: in.Designation,
		Department:  in.Department,
		JoinedDate:  in.JoinedDate,
		Salary:      in.Salary,
	}
	detail := &models.EmployeeDetail{
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
	}
	return master, detail
}

func (s *EmployeeService) List(ctx context.Context, q string) ([]models.EmployeeRecord, error) {
	records, err := s.Repo.ListEmployees(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Error("employee_list_error", "status", 500, "error", err)
		return nil, ErrInternal
	}
	return records, nil
}

// ListPage is List cut to one page; page is 1-based.
func (s *EmployeeService) ListPage(ctx context.Context, q string, page, size int) ([]models.EmployeeRecord, error) {
	from, limit := util.Calculate(page, size)
	records, err := s.Repo.ListEmployeesPage(ctx, q, from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("employee_list_error", "status", 500, "page", page, "error", err)
		return nil, ErrInternal
	}
	return records, nil
}

func (s *EmployeeService) Get(ctx context.Context, mastCode uint) (*models.EmployeeRecord, error) {
	rec, err := s.Repo.GetEmployee(ctx, mastCode)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		logging.FromContext(ctx).Error("employee_get_error", "status", 500, "mast_code", mastCode, "error", err)
		return nil, ErrInternal
	}
	return rec, nil
}

// Create stores both rows and returns the new mastCode. When the detail row
// cannot be written the master row is removed again and ErrDetailWriteFailed
// is returned.
func (s *EmployeeService) Create(ctx context.Context, userID uint, in EmployeeInput) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "employee.create", "user_id", userID)

	in, err := in.normalize()
	if err != nil {
		return 0, err
	}

	master, detail := in.rows(userID)
	mastCode, err := s.Repo.CreateEmployee(ctx, master, detail)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrDuplicate):
		l.Warn("employee_create_error", "status", 400, "reason", "duplicate employee id", "emp_id", in.EmpID)
		return 0, ErrDuplicateEmpID
	case errors.Is(err, repo.ErrDetailWrite):
		l.Error("employee_create_error", "status", 500, "reason", "detail write failed, master compensated", "error", err)
		return 0, ErrDetailWriteFailed
	default:
		l.Error("employee_create_error", "status", 500, "error", err)
		return 0, ErrInternal
	}

	publish(ctx, s.Events, idKey(mastCode), events.EmployeeCreated, employeeEvent{MastCode: mastCode, EmpID: in.EmpID, UserID: userID})
	return mastCode, nil
}

func (s *EmployeeService) Update(ctx context.Context, mastCode uint, in EmployeeInput) error {
	l := logging.FromContext(ctx).With("svc", "employee.update", "mast_code", mastCode)

	in, err := in.normalize()
	if err != nil {
		return err
	}

	master, detail := in.rows(0)
	err = s.Repo.UpdateEmployee(ctx, mastCode, master, detail)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicate):
		l.Warn("employee_update_error", "status", 400, "reason", "duplicate employee id", "emp_id", in.EmpID)
		return ErrDuplicateEmpID
	default:
		l.Error("employee_update_error", "status", 500, "error", err)
		return ErrWriteFailed
	}

	publish(ctx, s.Events, idKey(mastCode), events.EmployeeUpdated, employeeEvent{MastCode: mastCode, EmpID: in.EmpID})
	return nil
}

func (s *EmployeeService) Delete(ctx context.Context, mastCode uint) error {
	if err := s.Repo.DeleteEmployee(ctx, mastCode); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		logging.FromContext(ctx).Error("employee_delete_error", "status", 500, "mast_code", mastCode, "error", err)
		return ErrInternal
	}

	publish(ctx, s.Events, idKey(mastCode), events.EmployeeDeleted, employeeEvent{MastCode: mastCode})
	return nil
}

// Count reports how many records List would return for q.
func (s *EmployeeService) Count(ctx context.Context, q string) (int64, error) {
	n, err := s.Repo.CountEmployees(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Error("employee_count_error", "status", 500, "error", err)
		return 0, ErrInternal
	}
	return n, nil
}
