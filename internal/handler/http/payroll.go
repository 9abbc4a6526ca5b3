package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewcall/crewcall-backend-go/internal/domain/payroll"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type PayrollHandler interface {
	// Pay state
	MarkPaid(w http.ResponseWriter, r *http.Request)
	BulkMarkPaidByEmployee(w http.ResponseWriter, r *http.Request)
	BatchMarkPaidBySelection(w http.ResponseWriter, r *http.Request)

	// Summary
	Summary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// adminFromContext pulls the acting admin's ID from the verified token.
// Routes using it sit behind the admin middleware, so the role itself is
// already checked by the time a handler runs.
func adminFromContext(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}

	adminID, ok := claims["user_id"].(string)
	if !ok || adminID == "" {
		return "", false
	}

	return adminID, true
}

// ========== PAY STATE ==========

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")
	if shiftID == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	adminID, ok := adminFromContext(r)
	if !ok {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.MarkPaid(r.Context(), shiftID, adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) BulkMarkPaidByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	adminID, ok := adminFromContext(r)
	if !ok {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	var req payroll.BulkMarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.BulkMarkPaidByEmployee(r.Context(), employeeID, adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Without confirm the result is a preview of what would be settled.
	response.Success(w, result)
}

func (h *payrollHandlerImpl) BatchMarkPaidBySelection(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminFromContext(r)
	if !ok {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	var req payroll.BulkSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.BatchMarkPaidBySelection(r.Context(), adminID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter := payroll.SummaryFilter{
		Period: r.URL.Query().Get("period"),
	}

	result, err := h.payrollService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
