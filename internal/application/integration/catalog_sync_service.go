package integration

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/infrastructure/logger"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSyncAlreadyRunning is returned when a run is requested while another
// run is still in flight in this process
var ErrSyncAlreadyRunning = shared.NewDomainError("SYNC_IN_PROGRESS", "A catalog sync is already running")

// CatalogSyncConfig tunes one CatalogSyncService
type CatalogSyncConfig struct {
	PreviewPageSize   int
	FullPageSize      int
	ProgressInterval  int
	ErrorSummaryLimit int
	FinalizeRetries   int
	FinalizeBackoff   time.Duration
}

// DefaultCatalogSyncConfig returns the default tuning
func DefaultCatalogSyncConfig() CatalogSyncConfig {
	return CatalogSyncConfig{
		PreviewPageSize:   10,
		FullPageSize:      250,
		ProgressInterval:  DefaultProgressInterval,
		ErrorSummaryLimit: DefaultErrorSummaryLimit,
		FinalizeRetries:   3,
		FinalizeBackoff:   500 * time.Millisecond,
	}
}

func (c CatalogSyncConfig) withDefaults() CatalogSyncConfig {
	d := DefaultCatalogSyncConfig()
	if c.PreviewPageSize <= 0 {
		c.PreviewPageSize = d.PreviewPageSize
	}
	if c.FullPageSize <= 0 {
		c.FullPageSize = d.FullPageSize
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = d.ProgressInterval
	}
	if c.ErrorSummaryLimit <= 0 {
		c.ErrorSummaryLimit = d.ErrorSummaryLimit
	}
	if c.FinalizeRetries <= 0 {
		c.FinalizeRetries = d.FinalizeRetries
	}
	if c.FinalizeBackoff < 0 {
		c.FinalizeBackoff = 0
	}
	return c
}

// PageSize returns the fetch limit for mode
func (c CatalogSyncConfig) PageSize(mode integration.SyncMode) int {
	if mode == integration.SyncModePreview {
		return c.PreviewPageSize
	}
	return c.FullPageSize
}

// CatalogSyncService runs catalog synchronization passes
type CatalogSyncService struct {
	source     integration.CatalogSource
	jobs       integration.SyncJobStore
	reconciler *Reconciler
	summaries  integration.SummaryStore
	metrics    *telemetry.SyncMetrics
	config     CatalogSyncConfig
	logger     *zap.Logger
	running    atomic.Bool
}

// NewCatalogSyncService creates a new CatalogSyncService.
// summaries may be nil, in which case no snapshot is written.
func NewCatalogSyncService(
	source integration.CatalogSource,
	jobs integration.SyncJobStore,
	scope TransactionScope,
	summaries integration.SummaryStore,
	config CatalogSyncConfig,
	logger *zap.Logger,
) *CatalogSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogSyncService{
		source:     source,
		jobs:       jobs,
		reconciler: NewReconciler(scope),
		summaries:  summaries,
		config:     config.withDefaults(),
		logger:     logger,
	}
}

// SetSyncMetrics sets the metrics recorder
func (s *CatalogSyncService) SetSyncMetrics(m *telemetry.SyncMetrics) {
	s.metrics = m
}

// IsRunning reports whether a run is in flight
func (s *CatalogSyncService) IsRunning() bool {
	return s.running.Load()
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// Run executes one synchronization pass.
//
// Validation and conflict errors are returned before any job is created.
// A failed fetch finalizes the job as failed and returns both the response
// and an error wrapping integration.ErrSourceUnavailable. Per-record
// failures never abort the pass and are reported in the response.
func (s *CatalogSyncService) Run(ctx context.Context, input RunSyncInput) (*SyncResponse, error) {
	opts := input.Options.Normalized()
	if err := validateRunInput(input.Credentials, opts); err != nil {
		return nil, err
	}

	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncAlreadyRunning
	}
	defer s.running.Store(false)

	ctx, span := telemetry.StartSpan(ctx, "catalog_sync.run", telemetry.AttrSyncMode.String(opts.Mode.String()))
	defer span.End()
	started := time.Now()

	job, err := integration.NewSyncJob(opts.Mode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create sync job: %w", err)
	}

	base := s.logger
	if rid := logger.GetRequestID(ctx); rid != "" {
		base = base.With(zap.String("request_id", rid))
	}
	ctx, log := logger.WithJobID(ctx, base, job.ID.String())
	log = logger.WithTraceContext(ctx, log.With(zap.String("mode", opts.Mode.String())))
	span.SetAttributes(telemetry.AttrJobID.String(job.ID.String()))

	pageSize := s.config.PageSize(opts.Mode)
	fetched := s.source.Fetch(ctx, integration.FetchRequest{
		Credentials: input.Credentials,
		Limit:       pageSize,
		Page:        1,
	})
	if !fetched.Success {
		log.Warn("Remote catalog fetch failed", zap.String("message", fetched.Message))
		s.failJob(ctx, log, job, fetched.Message)
		s.metrics.RecordRun(ctx, opts.Mode.String(), job.Status.String(), time.Since(started))
		err := fmt.Errorf("%w: %s", integration.ErrSourceUnavailable, fetched.Message)
		telemetry.RecordError(span, err)
		return &SyncResponse{
			Success: false,
			JobID:   job.ID,
			Status:  job.Status,
			Errors:  []string{},
			Message: fetched.Message,
		}, err
	}

	if err := job.Start(len(fetched.Records)); err != nil {
		log.Error("Sync job cannot start", zap.Error(err))
		s.failJob(ctx, log, job, err.Error())
		s.metrics.RecordRun(ctx, opts.Mode.String(), job.Status.String(), time.Since(started))
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.jobs.Start(ctx, job); err != nil {
		log.Error("Failed to mark sync job running", zap.Error(err))
		s.failJob(ctx, log, job, err.Error())
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("start sync job: %w", err)
	}
	span.SetAttributes(telemetry.AttrTotalItems.Int(job.TotalItems), telemetry.AttrPageSize.Int(pageSize))
	log.Info("Catalog sync started", zap.Int("total_items", job.TotalItems))

	tally, collector, runErr := s.reconcileAll(ctx, log, job, fetched.Records, opts)

	if runErr != nil {
		if err := job.Abort(tally, runErr.Error()); err != nil {
			log.Error("Failed to abort sync job", zap.Error(err))
		}
	} else if err := job.Finish(tally, collector.Summary()); err != nil {
		log.Error("Failed to close sync job", zap.Error(err))
	}
	if err := s.finalize(ctx, log, job); err != nil {
		telemetry.RecordError(span, err)
	}

	s.saveSummary(ctx, log, job, collector.Messages())
	s.metrics.RecordRun(ctx, opts.Mode.String(), job.Status.String(), time.Since(started))

	log.Info("Catalog sync finished",
		zap.String("status", job.Status.String()),
		zap.Int("processed", tally.Processed),
		zap.Int("created", tally.Created),
		zap.Int("updated", tally.Updated),
		zap.Int("skipped", tally.Skipped),
		zap.Int("errors", tally.Failed),
		zap.Duration("duration", job.Duration()),
	)

	resp := &SyncResponse{
		Success:   job.Status == integration.SyncJobStatusCompleted,
		JobID:     job.ID,
		Status:    job.Status,
		Processed: tally.Processed,
		Created:   tally.Created,
		Updated:   tally.Updated,
		Skipped:   tally.Skipped,
		Total:     job.TotalItems,
		Errors:    collector.Messages(),
	}
	if runErr != nil {
		resp.Message = runErr.Error()
		return resp, runErr
	}
	return resp, nil
}

// reconcileAll walks records in order. It stops early only when ctx is done.
func (s *CatalogSyncService) reconcileAll(
	ctx context.Context,
	log *zap.Logger,
	job *integration.SyncJob,
	records []integration.RemoteProductRecord,
	opts integration.SyncOptions,
) (integration.SyncTally, *ErrorCollector, error) {
	var tally integration.SyncTally
	collector := NewErrorCollector(s.config.ErrorSummaryLimit)
	progress := NewProgressReporter(s.jobs, job.ID, s.config.ProgressInterval, log)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			log.Warn("Catalog sync cancelled", zap.Int("processed", tally.Processed), zap.Error(err))
			return tally, collector, fmt.Errorf("sync cancelled: %w", err)
		}

		result := s.reconciler.Apply(ctx, rec, opts)
		accumulate(&tally, result)
		if result.Failed() {
			collector.Add(result.Message())
			log.Warn("Failed to reconcile remote product",
				zap.String("sku", result.SKU),
				zap.String("external_id", result.ExternalID),
				zap.Error(result.Err),
			)
		}
		s.metrics.RecordItem(ctx, string(result.Outcome))
		progress.Record(ctx)
	}
	return tally, collector, nil
}

func accumulate(t *integration.SyncTally, r ItemResult) {
	t.Processed++
	switch r.Outcome {
	case OutcomeCreated:
		t.Created++
	case OutcomeUpdated:
		t.Updated++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeFailed:
		t.Failed++
	}
}

// failJob closes job as failed and persists it
func (s *CatalogSyncService) failJob(ctx context.Context, log *zap.Logger, job *integration.SyncJob, message string) {
	if err := job.Fail(message); err != nil {
		log.Error("Failed to mark sync job failed", zap.Error(err))
		return
	}
	_ = s.finalize(ctx, log, job)
}

// finalize writes the terminal job state, retrying with linear backoff.
// It ignores cancellation of ctx so that a cancelled run still lands in a
// terminal state.
func (s *CatalogSyncService) finalize(ctx context.Context, log *zap.Logger, job *integration.SyncJob) error {
	ctx = context.WithoutCancel(ctx)

	var err error
	for attempt := 1; attempt <= s.config.FinalizeRetries; attempt++ {
		if err = s.jobs.Finalize(ctx, job); err == nil {
			return nil
		}
		log.Error("Failed to finalize sync job",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.config.FinalizeRetries),
			zap.String("status", job.Status.String()),
			zap.Error(err),
		)
		if attempt < s.config.FinalizeRetries {
			time.Sleep(s.config.FinalizeBackoff * time.Duration(attempt))
		}
	}
	return fmt.Errorf("finalize sync job %s: %w", job.ID, err)
}

func (s *CatalogSyncService) saveSummary(ctx context.Context, log *zap.Logger, job *integration.SyncJob, errs []string) {
	if s.summaries == nil {
		return
	}
	summary := integration.SyncSummary{
		JobID:     job.ID,
		Timestamp: time.Now(),
		Processed: job.ProcessedItems,
		Created:   job.CreatedItems,
		Updated:   job.UpdatedItems,
		Errors:    errs,
	}
	if err := s.summaries.Save(context.WithoutCancel(ctx), summary); err != nil {
		log.Warn("Failed to save sync summary", zap.Error(err))
	}
}

func validateRunInput(creds integration.Credentials, opts integration.SyncOptions) error {
	if err := creds.Validate(); err != nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Remote credentials require endpoint, key and secret")
	}
	if err := opts.Validate(); err != nil {
		return shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Connection test and queries
// ---------------------------------------------------------------------------

// TestConnection asks the remote source for a single record. No job is
// created.
func (s *CatalogSyncService) TestConnection(ctx context.Context, creds integration.Credentials) (*ConnectionTestResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Remote credentials require endpoint, key and secret")
	}

	ctx, span := telemetry.StartSpan(ctx, "catalog_sync.test_connection")
	defer span.End()

	res := s.source.Fetch(ctx, integration.FetchRequest{Credentials: creds, Limit: 1, Page: 1})
	if !res.Success {
		telemetry.MarkFailed(span, res.Message)
		s.logger.Info("Remote catalog connection test failed", zap.String("message", res.Message))
	}
	return &ConnectionTestResponse{
		Success: res.Success,
		Message: res.Message,
		Sampled: len(res.Records),
	}, nil
}

// GetJob returns one sync job
func (s *CatalogSyncService) GetJob(ctx context.Context, id uuid.UUID) (*SyncJobResponse, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSyncJobResponse(job)
	return &resp, nil
}

// ListJobs returns the newest jobs first
func (s *CatalogSyncService) ListJobs(ctx context.Context, limit int) ([]SyncJobResponse, error) {
	jobs, err := s.jobs.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]SyncJobResponse, len(jobs))
	for i := range jobs {
		out[i] = ToSyncJobResponse(&jobs[i])
	}
	return out, nil
}

// LastSummary returns the snapshot of the most recent run
func (s *CatalogSyncService) LastSummary(ctx context.Context) (*integration.SyncSummary, error) {
	if s.summaries == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No sync summary recorded")
	}
	summary, err := s.summaries.Latest(ctx)
	if err != nil {
		if errors.Is(err, integration.ErrSummaryNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "No sync summary recorded")
		}
		return nil, err
	}
	return summary, nil
}
