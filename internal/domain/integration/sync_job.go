package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// SyncJobStatus
// ---------------------------------------------------------------------------

// SyncJobStatus represents the lifecycle state of a sync job
type SyncJobStatus string

const (
	SyncJobStatusPending   SyncJobStatus = "pending"
	SyncJobStatusRunning   SyncJobStatus = "running"
	SyncJobStatusCompleted SyncJobStatus = "completed"
	SyncJobStatusFailed    SyncJobStatus = "failed"
)

// IsValid checks if the status is valid
func (s SyncJobStatus) IsValid() bool {
	switch s {
	case SyncJobStatusPending, SyncJobStatusRunning, SyncJobStatusCompleted, SyncJobStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s SyncJobStatus) IsTerminal() bool {
	return s == SyncJobStatusCompleted || s == SyncJobStatusFailed
}

// String returns the string representation of SyncJobStatus
func (s SyncJobStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncTally
// ---------------------------------------------------------------------------

// SyncTally counts per-record outcomes of one run
type SyncTally struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Succeeded is the number of records that were created or updated
func (t SyncTally) Succeeded() int {
	return t.Created + t.Updated
}

// ---------------------------------------------------------------------------
// SyncJob Entity
// ---------------------------------------------------------------------------

// SyncJob is the persisted record of one synchronization pass.
// Status only moves pending -> running -> {completed, failed} and
// ProcessedItems never decreases.
type SyncJob struct {
	shared.BaseEntity
	Mode           SyncMode
	Status         SyncJobStatus
	TotalItems     int
	ProcessedItems int
	CreatedItems   int
	UpdatedItems   int
	SkippedItems   int
	ErrorCount     int
	ErrorMessage   string
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// NewSyncJob creates a pending job with zero counters
func NewSyncJob(mode SyncMode) (*SyncJob, error) {
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_SYNC_MODE", fmt.Sprintf("Invalid sync mode: %s", mode))
	}
	return &SyncJob{
		BaseEntity: shared.NewBaseEntity(),
		Mode:       mode,
		Status:     SyncJobStatusPending,
	}, nil
}

// Start moves a pending job to running with the fetched record count
func (j *SyncJob) Start(totalItems int) error {
	if j.Status != SyncJobStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start sync job from state: %s", j.Status))
	}
	if totalItems < 0 {
		return shared.NewDomainError("INVALID_TOTAL_ITEMS", "Total items cannot be negative")
	}

	now := time.Now()
	j.Status = SyncJobStatusRunning
	j.TotalItems = totalItems
	j.StartedAt = &now
	j.UpdatedAt = now
	return nil
}

// RecordProgress advances the processed counter of a running job
func (j *SyncJob) RecordProgress(processed int) error {
	if j.Status != SyncJobStatusRunning {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record progress in state: %s", j.Status))
	}
	if processed < j.ProcessedItems {
		return shared.NewDomainError("INVALID_PROGRESS",
			fmt.Sprintf("Processed items cannot decrease from %d to %d", j.ProcessedItems, processed))
	}

	j.ProcessedItems = processed
	j.UpdatedAt = time.Now()
	return nil
}

// Finish closes a running job. The job is failed only when errors were
// recorded and nothing was created or updated; partial success completes.
func (j *SyncJob) Finish(tally SyncTally, errorSummary string) error {
	if j.Status != SyncJobStatusRunning {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finish sync job from state: %s", j.Status))
	}
	if err := j.RecordProgress(tally.Processed); err != nil {
		return err
	}

	status := SyncJobStatusCompleted
	if tally.Failed > 0 && tally.Succeeded() == 0 {
		status = SyncJobStatusFailed
	}

	j.CreatedItems = tally.Created
	j.UpdatedItems = tally.Updated
	j.SkippedItems = tally.Skipped
	j.ErrorCount = tally.Failed
	j.ErrorMessage = errorSummary
	j.close(status)
	return nil
}

// Fail closes a non-terminal job as failed, keeping any progress made
func (j *SyncJob) Fail(message string) error {
	return j.Abort(j.Tally(), message)
}

// Abort closes a non-terminal job as failed with the counters reached so far
func (j *SyncJob) Abort(tally SyncTally, message string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail sync job from terminal state: %s", j.Status))
	}
	if tally.Processed < j.ProcessedItems {
		return shared.NewDomainError("INVALID_PROGRESS",
			fmt.Sprintf("Processed items cannot decrease from %d to %d", j.ProcessedItems, tally.Processed))
	}

	j.ProcessedItems = tally.Processed
	j.CreatedItems = tally.Created
	j.UpdatedItems = tally.Updated
	j.SkippedItems = tally.Skipped
	j.ErrorCount = tally.Failed
	j.ErrorMessage = message
	j.close(SyncJobStatusFailed)
	return nil
}

func (j *SyncJob) close(status SyncJobStatus) {
	now := time.Now()
	j.Status = status
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IsTerminal returns true once the job has completed or failed
func (j *SyncJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// Tally returns the job counters
func (j *SyncJob) Tally() SyncTally {
	return SyncTally{
		Processed: j.ProcessedItems,
		Created:   j.CreatedItems,
		Updated:   j.UpdatedItems,
		Skipped:   j.SkippedItems,
		Failed:    j.ErrorCount,
	}
}

// Duration returns how long the job ran, or has been running
func (j *SyncJob) Duration() time.Duration {
	if j.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if j.CompletedAt != nil {
		end = *j.CompletedAt
	}
	return end.Sub(*j.StartedAt)
}

// ---------------------------------------------------------------------------
// SyncJobStore port
// ---------------------------------------------------------------------------

// SyncJobStore persists sync job lifecycle writes
type SyncJobStore interface {
	// Create inserts a new pending job
	Create(ctx context.Context, job *SyncJob) error

	// Start persists the running transition and total item count
	Start(ctx context.Context, job *SyncJob) error

	// UpdateProgress writes only the processed counter. Implementations
	// must not lower a stored value.
	UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error

	// Finalize persists the terminal status, counters and error message
	Finalize(ctx context.Context, job *SyncJob) error

	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*SyncJob, error)

	// ListRecent returns the newest jobs first
	ListRecent(ctx context.Context, limit int) ([]SyncJob, error)
}
