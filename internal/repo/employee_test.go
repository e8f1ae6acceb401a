package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/staff_records/internal/db/dbtest"
	"github.com/Skotchmaster/staff_records/internal/models"
)

type repoEnv struct {
	db   *gorm.DB
	repo *GormRepo
	user *models.User
}

func newRepoEnv(t *testing.T) *repoEnv {
	t.Helper()

	gdb := dbtest.NewSQLite(t)
	r := &GormRepo{DB: gdb}

	user := &models.User{Username: "alice", MobileNumber: "9876543210", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), user))

	return &repoEnv{db: gdb, repo: r, user: user}
}

func (e *repoEnv) master(empID, name string) *models.EmployeeMaster {
	return &models.EmployeeMaster{
		UserID:      e.user.ID,
		EmpID:       empID,
		EmpName:     name,
		Designation: "Engineer",
		Department:  "R&D",
		JoinedDate:  "2024-01-15",
		Salary:      1000,
	}
}

func detail(city string) *models.EmployeeDetail {
	return &models.EmployeeDetail{AddressLine1: "1 Main St", City: city, State: "KA", Country: "IN"}
}

func (e *repoEnv) countDetails(t *testing.T, mastCode uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.EmployeeDetail{}).Where("mast_code = ?", mastCode).Count(&n).Error)
	return n
}

func TestCreateEmployee_WritesBothRows(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	id, err := env.repo.CreateEmployee(ctx, env.master("E1", "Alice Smith"), detail("Pune"))
	require.NoError(t, err)
	require.NotZero(t, id)

	rec, err := env.repo.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "E1", rec.EmpID)
	assert.Equal(t, "Alice Smith", rec.EmpName)
	assert.Equal(t, env.user.ID, rec.UserID)
	require.NotNil(t, rec.City)
	assert.Equal(t, "Pune", *rec.City)
	require.NotNil(t, rec.EmpDetailID)
	assert.EqualValues(t, 1, env.countDetails(t, id))
}

func TestCreateEmployee_DuplicateEmpID(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	_, err := env.repo.CreateEmployee(ctx, env.master("E1", "First"), detail("Pune"))
	require.NoError(t, err)

	_, err = env.repo.CreateEmployee(ctx, env.master("E1", "Second"), detail("Delhi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := env.repo.CountEmployees(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var details int64
	require.NoError(t, env.db.Model(&models.EmployeeDetail{}).Count(&details).Error)
	assert.EqualValues(t, 1, details)
}

func TestCreateEmployee_DetailFailureCompensatesMaster(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	restore := dbtest.FailCreatesOn(t, env.db, "employee_details")

	m := env.master("E9", "Orphan")
	id, err := env.repo.CreateEmployee(ctx, m, detail("Nowhere"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDetailWrite)
	assert.Zero(t, id)
	assert.Zero(t, m.MastCode)

	n, err := env.repo.CountEmployees(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	var masters int64
	require.NoError(t, env.db.Model(&models.EmployeeMaster{}).Where("emp_id = ?", "E9").Count(&masters).Error)
	assert.Zero(t, masters)

	restore()

	id, err = env.repo.CreateEmployee(ctx, env.master("E9", "Retry"), detail("Pune"))
	require.NoError(t, err, "the business key must be free again after compensation")
	assert.NotZero(t, id)
}

func TestGetEmployee_NotFound(t *testing.T) {
	env := newRepoEnv(t)

	rec, err := env.repo.GetEmployee(context.Background(), 404)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEmployee_MissingDetailIsNull(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	m := env.master("E2", "No Address")
	require.NoError(t, env.db.Create(m).Error)

	rec, err := env.repo.GetEmployee(ctx, m.MastCode)
	require.NoError(t, err)
	assert.Equal(t, "E2", rec.EmpID)
	assert.Nil(t, rec.EmpDetailID)
	assert.Nil(t, rec.AddressLine1)
	assert.Nil(t, rec.City)
}

func TestListEmployees_Filter(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	fixtures := []*models.EmployeeMaster{
		{UserID: env.user.ID, EmpID: "ENG-001", EmpName: "Alice Smith", Designation: "Engineer", Department: "Platform"},
		{UserID: env.user.ID, EmpID: "OPS-002", EmpName: "Bob Jones", Designation: "Manager", Department: "Operations"},
		{UserID: env.user.ID, EmpID: "FIN-003", EmpName: "Carol 100%", Designation: "Analyst", Department: "Finance"},
	}
	for _, m := range fixtures {
		_, err := env.repo.CreateEmployee(ctx, m, detail("Pune"))
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		q    string
		want []string
	}{
		{name: "empty lists all", q: "", want: []string{"ENG-001", "OPS-002", "FIN-003"}},
		{name: "blank lists all", q: "   ", want: []string{"ENG-001", "OPS-002", "FIN-003"}},
		{name: "name case-insensitive", q: "aLiCe", want: []string{"ENG-001"}},
		{name: "emp id substring", q: "ops-0", want: []string{"OPS-002"}},
		{name: "designation", q: "analyst", want: []string{"FIN-003"}},
		{name: "department", q: "PLATF", want: []string{"ENG-001"}},
		{name: "matches across fields", q: "o", want: []string{"ENG-001", "OPS-002", "FIN-003"}},
		{name: "percent is literal", q: "%", want: []string{"FIN-003"}},
		{name: "underscore is literal", q: "_", want: []string{}},
		{name: "no match", q: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := env.repo.ListEmployees(ctx, tt.q)
			require.NoError(t, err)

			got := make([]string, 0, len(recs))
			for _, r := range recs {
				got = append(got, r.EmpID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListEmployees_LeftJoin(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	_, err := env.repo.CreateEmployee(ctx, env.master("E1", "With"), detail("Pune"))
	require.NoError(t, err)
	require.NoError(t, env.db.Create(env.master("E2", "Without")).Error)

	recs, err := env.repo.ListEmployees(ctx, "")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.NotNil(t, recs[0].City)
	assert.Nil(t, recs[1].City)
}

func TestUpdateEmployee_UpdatesBothRows(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	id, err := env.repo.CreateEmployee(ctx, env.master("E1", "Old Name"), detail("Pune"))
	require.NoError(t, err)

	upd := env.master("E1-B", "New Name")
	upd.Salary = 0
	require.NoError(t, env.repo.UpdateEmployee(ctx, id, upd, detail("Delhi")))

	rec, err := env.repo.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "E1-B", rec.EmpID)
	assert.Equal(t, "New Name", rec.EmpName)
	assert.Zero(t, rec.Salary)
	require.NotNil(t, rec.City)
	assert.Equal(t, "Delhi", *rec.City)
	assert.EqualValues(t, 1, env.countDetails(t, id))
}

func TestUpdateEmployee_InsertsMissingDetail(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	m := env.master("E2", "No Address")
	require.NoError(t, env.db.Create(m).Error)
	assert.Zero(t, env.countDetails(t, m.MastCode))

	require.NoError(t, env.repo.UpdateEmployee(ctx, m.MastCode, env.master("E2", "No Address"), detail("Chennai")))

	assert.EqualValues(t, 1, env.countDetails(t, m.MastCode))
	rec, err := env.repo.GetEmployee(ctx, m.MastCode)
	require.NoError(t, err)
	require.NotNil(t, rec.City)
	assert.Equal(t, "Chennai", *rec.City)
}

func TestUpdateEmployee_Errors(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	err := env.repo.UpdateEmployee(ctx, 999, env.master("X", "X"), detail("X"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.repo.CreateEmployee(ctx, env.master("E1", "One"), detail("Pune"))
	require.NoError(t, err)
	id2, err := env.repo.CreateEmployee(ctx, env.master("E2", "Two"), detail("Pune"))
	require.NoError(t, err)

	err = env.repo.UpdateEmployee(ctx, id2, env.master("E1", "Two"), detail("Goa"))
	assert.ErrorIs(t, err, ErrDuplicate)

	rec, err := env.repo.GetEmployee(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, "E2", rec.EmpID)
	require.NotNil(t, rec.City)
	assert.Equal(t, "Pune", *rec.City, "failed update must not touch the detail row")
}

func TestDeleteEmployee_CascadesDetail(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	id, err := env.repo.CreateEmployee(ctx, env.master("E1", "Gone"), detail("Pune"))
	require.NoError(t, err)
	require.EqualValues(t, 1, env.countDetails(t, id))

	require.NoError(t, env.repo.DeleteEmployee(ctx, id))

	_, err = env.repo.GetEmployee(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, env.countDetails(t, id))

	assert.ErrorIs(t, env.repo.DeleteEmployee(ctx, id), ErrNotFound)
}

func TestDetailRequiresExistingMaster(t *testing.T) {
	env := newRepoEnv(t)

	err := env.db.Create(&models.EmployeeDetail{MastCode: 12345, City: "Nowhere"}).Error
	require.Error(t, err, "foreign key must reject a detail without its master")
}

func TestListEmployeesPage(t *testing.T) {
	env := newRepoEnv(t)
	ctx := context.Background()

	for _, id := range []string{"E1", "E2", "E3"} {
		_, err := env.repo.CreateEmployee(ctx, env.master(id, "Name "+id), detail("Pune"))
		require.NoError(t, err)
	}

	page, err := env.repo.ListEmployeesPage(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "E2", page[0].EmpID)

	page, err = env.repo.ListEmployeesPage(ctx, "name", 2, 5)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "E3", page[0].EmpID)

	n, err := env.repo.CountEmployees(ctx, "name e")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = env.repo.CountEmployees(ctx, "e2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
