package audit

import "context"

// Repository defines the audit trail repository interface
type Repository interface {
	Create(ctx context.Context, trail *AuditTrail) error
	CreateBatch(ctx context.Context, trails []*AuditTrail) error
	List(ctx context.Context, filter Filter) ([]*AuditTrail, int64, error)
}
