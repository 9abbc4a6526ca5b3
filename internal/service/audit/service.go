package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/google/uuid"
)

// Config holds audit trail service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   audit.Repository
	config Config

	queue  chan *audit.AuditTrail
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewAuditService creates a new audit trail service with background workers
func NewAuditService(repo audit.Repository, cfg Config) audit.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		config: cfg,
		queue:  make(chan *audit.AuditTrail, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("audit trail workers started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker batches queued entries and flushes them on size or interval.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*audit.AuditTrail, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("audit batch insert failed",
				"worker", id,
				"count", len(batch),
				"error", err,
			)
		}

		batch = batch[:0]
	}

	for {
		select {
		case trail := <-s.queue:
			batch = append(batch, trail)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever Record managed to queue before shutdown.
			for {
				select {
				case trail := <-s.queue:
					batch = append(batch, trail)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Record implements audit.Service. The entry is stamped here so its
// timestamp reflects the action, not the flush that persists it.
func (s *service) Record(ctx context.Context, req audit.RecordRequest) {
	trail := &audit.AuditTrail{
		ID:         uuid.New().String(),
		ActorID:    req.ActorID,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Detail:     req.Detail,
		CreatedAt:  time.Now().UTC(),
	}

	select {
	case s.queue <- trail:
	default:
		// Queue full, try direct insert. The insert outlives the request
		// context on purpose: the action already happened.
		insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.repo.Create(insertCtx, trail); err != nil {
			slog.Error("audit entry dropped",
				"action", trail.Action,
				"actor_id", trail.ActorID,
				"error", err,
			)
		}
	}
}

// List implements audit.Service.
func (s *service) List(ctx context.Context, filter audit.Filter) ([]audit.AuditTrailResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	trails, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]audit.AuditTrailResponse, len(trails))
	for i, t := range trails {
		responses[i] = audit.AuditTrailResponse{
			ID:         t.ID,
			ActorID:    t.ActorID,
			ActorName:  t.ActorName,
			Action:     string(t.Action),
			EntityType: t.EntityType,
			EntityID:   t.EntityID,
			Detail:     t.Detail,
			CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	return responses, total, nil
}

// Stop flushes pending entries and stops the workers.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("audit trail workers stopped")
}
