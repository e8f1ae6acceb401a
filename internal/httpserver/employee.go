package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/service"
	"github.com/Skotchmaster/staff_records/internal/transport"
)

type EmployeeHTTP struct {
	Svc *service.EmployeeService
}

func mastCodeParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Employee not found.")
	}
	return uint(id), nil
}

func toInput(req transport.EmployeeRequest) service.EmployeeInput {
	return service.EmployeeInput{
		EmpID:        req.EmpID,
		EmpName:      req.EmpName,
		Designation:  req.Designation,
		Department:   req.Department,
		JoinedDate:   req.JoinedDate,
		Salary:       req.Salary,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
	}
}

// HeaderTotalCount carries the number of matches across all pages.
const HeaderTotalCount = "X-Total-Count"

// List returns every match unless page or size is given. A paged reply
// reports the full match count in HeaderTotalCount.
func (h *EmployeeHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	q := c.QueryParam("q")

	pageParam, sizeParam := c.QueryParam("page"), c.QueryParam("size")
	if pageParam == "" && sizeParam == "" {
		records, err := h.Svc.List(ctx, q)
		if err != nil {
			return httpError(err, "Error fetching employees.")
		}
		return ok(c, http.StatusOK, "", records)
	}

	page, _ := strconv.Atoi(pageParam)
	size, _ := strconv.Atoi(sizeParam)
	records, err := h.Svc.ListPage(ctx, q, page, size)
	if err != nil {
		return httpError(err, "Error fetching employees.")
	}
	total, err := h.Svc.Count(ctx, q)
	if err != nil {
		return httpError(err, "Error fetching employees.")
	}
	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	return ok(c, http.StatusOK, "", records)
}

func (h *EmployeeHTTP) Get(c echo.Context) error {
	id, err := mastCodeParam(c)
	if err != nil {
		return err
	}
	rec, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err, "Error fetching employee.")
	}
	return ok(c, http.StatusOK, "", rec)
}

func (h *EmployeeHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee_create")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req transport.EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("employee_create_error", "status", 400, "error", err)
		return err
	}

	mastCode, err := h.Svc.Create(ctx, userID, toInput(req))
	if err != nil {
		return httpError(err, "Failed to add employee.")
	}

	l.Info("employee_created", "mast_code", mastCode)
	return ok(c, http.StatusCreated, "Employee added successfully.", transport.CreatedEmployeeData{MastCode: mastCode})
}

func (h *EmployeeHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee_update")

	id, err := mastCodeParam(c)
	if err != nil {
		return err
	}

	var req transport.EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("employee_update_error", "status", 400, "error", err)
		return err
	}

	if err := h.Svc.Update(ctx, id, toInput(req)); err != nil {
		return httpError(err, "Failed to update employee details.")
	}

	l.Info("employee_updated", "mast_code", id)
	return ok(c, http.StatusOK, "Employee updated successfully.", nil)
}

func (h *EmployeeHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := mastCodeParam(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return httpError(err, "Failed to delete employee.")
	}

	logging.FromContext(ctx).Info("employee_deleted", "handler", "employee_delete", "mast_code", id)
	return ok(c, http.StatusOK, "Employee deleted successfully.", nil)
}
