package audit

import "github.com/crewcall/crewcall-backend-go/internal/pkg/validator"

// RecordRequest describes one action to write to the trail. Recording is
// fire-and-forget, so there is nothing to validate beyond what the caller
// already knows to be true.
type RecordRequest struct {
	ActorID    string
	Action     Action
	EntityType string
	EntityID   *string
	Detail     map[string]interface{}
}

type Filter struct {
	ActorID    *string `json:"actor_id,omitempty"`
	Action     *string `json:"action,omitempty"`
	EntityType *string `json:"entity_type,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50 // Default limit
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 200",
		})
	}

	if f.ActorID != nil && !validator.IsValidUUID(*f.ActorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor_id",
			Message: "actor_id must be a valid employee ID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AuditTrailResponse struct {
	ID         string                 `json:"id"`
	ActorID    string                 `json:"actor_id"`
	ActorName  *string                `json:"actor_name,omitempty"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *string                `json:"entity_id,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}
