package http

import (
	"encoding/json"
	"net/http"

	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type ScheduleHandler interface {
	// Scheduled Shift
	CreateScheduledShift(w http.ResponseWriter, r *http.Request)
	GetScheduledShift(w http.ResponseWriter, r *http.Request)
	ListScheduledShifts(w http.ResponseWriter, r *http.Request)
	UpdateScheduledShift(w http.ResponseWriter, r *http.Request)
	DeleteScheduledShift(w http.ResponseWriter, r *http.Request)
	DeletePastShifts(w http.ResponseWriter, r *http.Request)

	// Assignment
	GetAssignees(w http.ResponseWriter, r *http.Request)
	SetAssignees(w http.ResponseWriter, r *http.Request)
	AddAssignees(w http.ResponseWriter, r *http.Request)
	RemoveAssignees(w http.ResponseWriter, r *http.Request)

	// My Schedule
	MySchedule(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// ==================== SCHEDULED SHIFT HANDLERS ====================

func (h *scheduleHandlerImpl) CreateScheduledShift(w http.ResponseWriter, r *http.Request) {
	createdBy, ok := adminFromContext(r)
	if !ok {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	var req schedule.CreateScheduledShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.scheduleService.CreateScheduledShift(r.Context(), createdBy, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Scheduled shift created successfully", result)
}

func (h *scheduleHandlerImpl) GetScheduledShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	result, err := h.scheduleService.GetScheduledShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *scheduleHandlerImpl) ListScheduledShifts(w http.ResponseWriter, r *http.Request) {
	filter := schedule.ScheduleFilter{
		Scope: r.URL.Query().Get("scope"),
	}

	result, err := h.scheduleService.ListScheduledShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *scheduleHandlerImpl) UpdateScheduledShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	var req schedule.UpdateScheduledShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.scheduleService.UpdateScheduledShift(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *scheduleHandlerImpl) DeleteScheduledShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	if err := h.scheduleService.DeleteScheduledShift(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Scheduled shift deleted successfully", nil)
}

// DeletePastShifts clears everything on the past side of the board. Failures
// are reported per shift, so a partial result still comes back as a success.
func (h *scheduleHandlerImpl) DeletePastShifts(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.DeletePastShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== ASSIGNMENT HANDLERS ====================

func (h *scheduleHandlerImpl) GetAssignees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	result, err := h.scheduleService.GetAssignees(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *scheduleHandlerImpl) SetAssignees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	var req schedule.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.scheduleService.SetAssignees(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *scheduleHandlerImpl) AddAssignees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	var req schedule.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.scheduleService.AddAssignees(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Assignees added successfully", result)
}

func (h *scheduleHandlerImpl) RemoveAssignees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheduled shift ID is required", nil)
		return
	}

	var req schedule.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.scheduleService.RemoveAssignees(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== MY SCHEDULE HANDLERS ====================

func (h *scheduleHandlerImpl) MySchedule(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	employeeID, ok := claims["user_id"].(string)
	if !ok || employeeID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	result, err := h.scheduleService.MySchedule(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
