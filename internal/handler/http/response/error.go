package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewcall/crewcall-backend-go/internal/domain/auth"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/domain/schedule"
	"github.com/crewcall/crewcall-backend-go/internal/domain/shift"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Anything unmapped is
// logged with its cause and leaves as a generic 500: internal failure
// detail never reaches the client.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleAccountNotInvited):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleSignInDisabled):
		ServiceUnavailable(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrCannotDemoteSelf):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrCannotDeactivateSelf):
		Forbidden(w, err.Error())

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift record not found")
	case errors.Is(err, shift.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Schedule domain errors
	case errors.Is(err, schedule.ErrScheduledShiftNotFound):
		NotFound(w, "Scheduled shift not found")
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, schedule.ErrDuplicateAssignee):
		Conflict(w, "Employee is already assigned to this shift")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
