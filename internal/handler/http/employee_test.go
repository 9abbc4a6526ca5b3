package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== TEST DOUBLES =====

type fakeEmployeeService struct {
	getResp   employee.EmployeeResponse
	getErr    error
	lastGetID string

	createResp employee.EmployeeResponse
	createErr  error
	lastCreate employee.CreateEmployeeRequest

	updateResp   employee.EmployeeResponse
	updateErr    error
	lastUpdateID string
	lastUpdate   employee.UpdateEmployeeRequest

	listResp   []employee.EmployeeResponse
	listTotal  int64
	listErr    error
	lastFilter employee.EmployeeFilter
}

func (f *fakeEmployeeService) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	f.lastGetID = id
	return f.getResp, f.getErr
}

func (f *fakeEmployeeService) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	f.lastCreate = req
	return f.createResp, f.createErr
}

func (f *fakeEmployeeService) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	f.lastUpdateID = id
	f.lastUpdate = req
	return f.updateResp, f.updateErr
}

func (f *fakeEmployeeService) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, int64, error) {
	f.lastFilter = filter
	return f.listResp, f.listTotal, f.listErr
}

// ===== CREATE =====

func TestEmployeeHandler_CreateEmployee_Created(t *testing.T) {
	svc := &fakeEmployeeService{createResp: employee.EmployeeResponse{
		ID:       "emp-1",
		FullName: "Riley Crew",
		Email:    "riley@example.com",
		Role:     "employee",
		IsActive: true,
	}}
	handler := NewEmployeeHandler(svc)

	body, _ := json.Marshal(employee.CreateEmployeeRequest{
		FullName: "Riley Crew",
		Email:    "riley@example.com",
		Password: "str0ngPassw0rd!",
		Role:     "employee",
	})
	req := adminRequest(t, http.MethodPost, "/employees", body)
	w := httptest.NewRecorder()

	handler.CreateEmployee(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "riley@example.com", svc.lastCreate.Email)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, "Employee created successfully", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Riley Crew", data["full_name"])
}

func TestEmployeeHandler_CreateEmployee_EmailExists(t *testing.T) {
	svc := &fakeEmployeeService{createErr: employee.ErrEmailExists}
	handler := NewEmployeeHandler(svc)

	body, _ := json.Marshal(employee.CreateEmployeeRequest{
		FullName: "Riley Crew",
		Email:    "riley@example.com",
		Password: "str0ngPassw0rd!",
		Role:     "employee",
	})
	req := adminRequest(t, http.MethodPost, "/employees", body)
	w := httptest.NewRecorder()

	handler.CreateEmployee(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// ===== GET =====

func TestEmployeeHandler_GetEmployee_ForbiddenForOtherEmployee(t *testing.T) {
	svc := &fakeEmployeeService{getErr: employee.ErrUnauthorized}
	handler := NewEmployeeHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/employees/emp-2", nil)
	w := routeRequest(http.MethodGet, "/employees/{id}", handler.GetEmployee, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "emp-2", svc.lastGetID)
}

// ===== LIST =====

func TestEmployeeHandler_ListEmployees_ParsesQueryParams(t *testing.T) {
	svc := &fakeEmployeeService{
		listResp:  []employee.EmployeeResponse{{ID: "emp-1", FullName: "Riley Crew"}},
		listTotal: 31,
	}
	handler := NewEmployeeHandler(svc)

	req := adminRequest(t, http.MethodGet, "/employees?search=riley&role=employee&is_active=true&page=2&limit=10&sort_by=full_name&sort_order=asc", nil)
	w := httptest.NewRecorder()

	handler.ListEmployees(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.Search)
	assert.Equal(t, "riley", *svc.lastFilter.Search)
	require.NotNil(t, svc.lastFilter.Role)
	assert.Equal(t, "employee", *svc.lastFilter.Role)
	require.NotNil(t, svc.lastFilter.IsActive)
	assert.True(t, *svc.lastFilter.IsActive)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 10, svc.lastFilter.Limit)
	assert.Equal(t, "full_name", svc.lastFilter.SortBy)
	assert.Equal(t, "asc", svc.lastFilter.SortOrder)

	resp := decodeEnvelope(t, w)
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(10), meta["limit"])
	assert.Equal(t, float64(31), meta["total_items"])
	assert.Equal(t, float64(4), meta["total_pages"])
}

func TestEmployeeHandler_ListEmployees_Defaults(t *testing.T) {
	svc := &fakeEmployeeService{listResp: []employee.EmployeeResponse{}}
	handler := NewEmployeeHandler(svc)

	req := adminRequest(t, http.MethodGet, "/employees", nil)
	w := httptest.NewRecorder()

	handler.ListEmployees(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.lastFilter.Page)
	assert.Equal(t, 20, svc.lastFilter.Limit)
	assert.Nil(t, svc.lastFilter.Search)
	assert.Nil(t, svc.lastFilter.Role)
	assert.Nil(t, svc.lastFilter.IsActive)
}

// ===== UPDATE =====

func TestEmployeeHandler_UpdateEmployee_Success(t *testing.T) {
	svc := &fakeEmployeeService{updateResp: employee.EmployeeResponse{
		ID:       "emp-1",
		FullName: "Riley Crew",
		IsActive: false,
	}}
	handler := NewEmployeeHandler(svc)

	inactive := false
	body, _ := json.Marshal(employee.UpdateEmployeeRequest{IsActive: &inactive})
	req := adminRequest(t, http.MethodPatch, "/employees/emp-1", body)
	w := routeRequest(http.MethodPatch, "/employees/{id}", handler.UpdateEmployee, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", svc.lastUpdateID)
	require.NotNil(t, svc.lastUpdate.IsActive)
	assert.False(t, *svc.lastUpdate.IsActive)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, "Employee updated successfully", resp["message"])
}
