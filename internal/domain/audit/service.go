package audit

import "context"

// Service defines the audit trail service interface
type Service interface {
	// Record queues an audit entry for async persistence. It never blocks
	// the calling operation and never surfaces a failure; a lost entry is
	// logged, not returned.
	Record(ctx context.Context, req RecordRequest)

	// List retrieves audit entries, newest first.
	List(ctx context.Context, filter Filter) ([]AuditTrailResponse, int64, error)

	// Lifecycle
	Stop()
}
