package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	LogShift(w http.ResponseWriter, r *http.Request)
	GetShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	UpdateShift(w http.ResponseWriter, r *http.Request)
	DeleteShift(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService}
}

// LogShift records a worked shift. Who the shift belongs to is resolved by
// the service from the caller's token, so a non-admin cannot log hours for
// anyone else.
func (h *shiftHandlerImpl) LogShift(w http.ResponseWriter, r *http.Request) {
	var req shift.LogShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.shiftService.LogShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift logged", result)
}

func (h *shiftHandlerImpl) GetShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	result, err := h.shiftService.GetShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := shift.ShiftFilter{
		Page:  1,
		Limit: 20,
	}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if period := r.URL.Query().Get("period"); period != "" {
		filter.Period = period
	}
	if paidStr := r.URL.Query().Get("paid"); paidStr != "" {
		if paid, err := strconv.ParseBool(paidStr); err == nil {
			filter.Paid = &paid
		}
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if sortBy := r.URL.Query().Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := r.URL.Query().Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	shifts, total, err := h.shiftService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, shifts, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func (h *shiftHandlerImpl) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.shiftService.UpdateShift(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift ID is required", nil)
		return
	}

	if err := h.shiftService.DeleteShift(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}
