package integration

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProgressInterval is the number of attempted records between flushes
const DefaultProgressInterval = 10

// ProgressReporter throttles processed_items writes to the job store.
// An observer polling mid-run sees a value lagging by at most interval-1.
type ProgressReporter struct {
	store     integration.SyncJobStore
	jobID     uuid.UUID
	interval  int
	attempted int
	flushed   int
	logger    *zap.Logger
}

// NewProgressReporter creates a ProgressReporter for one job
func NewProgressReporter(store integration.SyncJobStore, jobID uuid.UUID, interval int, logger *zap.Logger) *ProgressReporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressReporter{
		store:    store,
		jobID:    jobID,
		interval: interval,
		logger:   logger,
	}
}

// Record counts one attempted record, whatever its outcome, and flushes on
// every interval boundary. A failed flush is logged and the next boundary
// retries with the newer count.
func (p *ProgressReporter) Record(ctx context.Context) {
	p.attempted++
	if p.attempted%p.interval != 0 {
		return
	}
	if err := p.store.UpdateProgress(ctx, p.jobID, p.attempted); err != nil {
		p.logger.Warn("Failed to flush sync progress",
			zap.String("job_id", p.jobID.String()),
			zap.Int("processed", p.attempted),
			zap.Error(err),
		)
		return
	}
	p.flushed = p.attempted
}

// Attempted returns the number of records counted so far
func (p *ProgressReporter) Attempted() int {
	return p.attempted
}

// Flushed returns the last value successfully written to the store
func (p *ProgressReporter) Flushed() int {
	return p.flushed
}
