package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit trail repository
func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Create writes a single audit entry
func (r *auditRepository) Create(ctx context.Context, trail *audit.AuditTrail) error {
	q := GetQuerier(ctx, r.db)

	if trail.ID == "" {
		trail.ID = uuid.New().String()
	}

	detailJSON, err := json.Marshal(trail.Detail)
	if err != nil {
		return fmt.Errorf("failed to marshal audit detail: %w", err)
	}

	query := `
		INSERT INTO audit_trails (id, actor_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = q.Exec(ctx, query,
		trail.ID,
		trail.ActorID,
		string(trail.Action),
		trail.EntityType,
		trail.EntityID,
		detailJSON,
		trail.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit trail: %w", err)
	}

	return nil
}

// CreateBatch writes multiple audit entries in one statement
func (r *auditRepository) CreateBatch(ctx context.Context, trails []*audit.AuditTrail) error {
	if len(trails) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(trails))
	valueArgs := make([]interface{}, 0, len(trails)*7)

	for i, trail := range trails {
		if trail.ID == "" {
			trail.ID = uuid.New().String()
		}

		detailJSON, err := json.Marshal(trail.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal audit detail: %w", err)
		}

		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		valueArgs = append(valueArgs,
			trail.ID,
			trail.ActorID,
			string(trail.Action),
			trail.EntityType,
			trail.EntityID,
			detailJSON,
			trail.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO audit_trails (id, actor_id, action, entity_type, entity_id, detail, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	_, err := q.Exec(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("failed to batch create audit trails: %w", err)
	}

	return nil
}

// List retrieves audit entries newest first
func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.AuditTrail, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.ActorID != nil && *filter.ActorID != "" {
		baseWhere += fmt.Sprintf(" AND t.actor_id = $%d", argIdx)
		args = append(args, *filter.ActorID)
		argIdx++
	}
	if filter.Action != nil && *filter.Action != "" {
		baseWhere += fmt.Sprintf(" AND t.action = $%d", argIdx)
		args = append(args, *filter.Action)
		argIdx++
	}
	if filter.EntityType != nil && *filter.EntityType != "" {
		baseWhere += fmt.Sprintf(" AND t.entity_type = $%d", argIdx)
		args = append(args, *filter.EntityType)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM audit_trails t WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit trails: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT t.id, t.actor_id, t.action, t.entity_type, t.entity_id, t.detail, t.created_at,
		       e.full_name AS actor_name
		FROM audit_trails t
		LEFT JOIN employees e ON e.id = t.actor_id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit trails: %w", err)
	}
	defer rows.Close()

	var trails []*audit.AuditTrail
	for rows.Next() {
		var t audit.AuditTrail
		var action string
		var detailJSON []byte
		var createdAt time.Time

		err := rows.Scan(&t.ID, &t.ActorID, &action, &t.EntityType, &t.EntityID, &detailJSON, &createdAt, &t.ActorName)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit trail: %w", err)
		}

		t.Action = audit.Action(action)
		t.CreatedAt = createdAt
		if detailJSON != nil {
			if err := json.Unmarshal(detailJSON, &t.Detail); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal audit detail: %w", err)
			}
		}

		trails = append(trails, &t)
	}

	return trails, total, nil
}
