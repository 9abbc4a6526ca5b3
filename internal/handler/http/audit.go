package http

import (
	"net/http"
	"strconv"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListAuditTrail(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

// ListAuditTrail implements AuditHandler
func (h *auditHandlerImpl) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{
		Page:  1,
		Limit: 50,
	}

	if actorID := r.URL.Query().Get("actor_id"); actorID != "" {
		filter.ActorID = &actorID
	}
	if action := r.URL.Query().Get("action"); action != "" {
		filter.Action = &action
	}
	if entityType := r.URL.Query().Get("entity_type"); entityType != "" {
		filter.EntityType = &entityType
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

	entries, total, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, entries, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}
