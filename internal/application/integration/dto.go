package integration

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Run DTOs
// ---------------------------------------------------------------------------

// RunSyncInput is the input of one sync run
type RunSyncInput struct {
	Credentials integration.Credentials
	Options     integration.SyncOptions
}

// SyncResponse is returned to the caller of a run. On a fetch failure only
// Success, JobID and Message are meaningful.
type SyncResponse struct {
	Success   bool                      `json:"success"`
	JobID     uuid.UUID                 `json:"job_id"`
	Status    integration.SyncJobStatus `json:"status"`
	Processed int                       `json:"processed"`
	Created   int                       `json:"created"`
	Updated   int                       `json:"updated"`
	Skipped   int                       `json:"skipped"`
	Total     int                       `json:"total"`
	Errors    []string                  `json:"errors"`
	Message   string                    `json:"message,omitempty"`
}

// ConnectionTestResponse reports whether the remote source answered
type ConnectionTestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Sampled int    `json:"sampled"`
}

// ---------------------------------------------------------------------------
// Job DTOs
// ---------------------------------------------------------------------------

// SyncJobResponse represents a sync job in API responses
type SyncJobResponse struct {
	ID             uuid.UUID                 `json:"id"`
	Mode           integration.SyncMode      `json:"mode"`
	Status         integration.SyncJobStatus `json:"status"`
	TotalItems     int                       `json:"total_items"`
	ProcessedItems int                       `json:"processed_items"`
	CreatedItems   int                       `json:"created_items"`
	UpdatedItems   int                       `json:"updated_items"`
	SkippedItems   int                       `json:"skipped_items"`
	ErrorCount     int                       `json:"error_count"`
	ErrorMessage   string                    `json:"error_message,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	StartedAt      *time.Time                `json:"started_at,omitempty"`
	CompletedAt    *time.Time                `json:"completed_at,omitempty"`
}

// ToSyncJobResponse converts a domain SyncJob
func ToSyncJobResponse(job *integration.SyncJob) SyncJobResponse {
	return SyncJobResponse{
		ID:             job.ID,
		Mode:           job.Mode,
		Status:         job.Status,
		TotalItems:     job.TotalItems,
		ProcessedItems: job.ProcessedItems,
		CreatedItems:   job.CreatedItems,
		UpdatedItems:   job.UpdatedItems,
		SkippedItems:   job.SkippedItems,
		ErrorCount:     job.ErrorCount,
		ErrorMessage:   job.ErrorMessage,
		CreatedAt:      job.CreatedAt,
		StartedAt:      job.StartedAt,
		CompletedAt:    job.CompletedAt,
	}
}
