package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SyncSummary is a best-effort snapshot of the most recent run kept for
// debugging screens. It is not authoritative; the SyncJob is.
type SyncSummary struct {
	JobID     uuid.UUID `json:"job_id"`
	Timestamp time.Time `json:"timestamp"`
	Processed int       `json:"processed"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Errors    []string  `json:"errors"`
}

// SummaryStore keeps the latest SyncSummary in an ephemeral store
type SummaryStore interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, summary SyncSummary) error

	// Latest returns ErrSummaryNotFound when nothing is stored
	Latest(ctx context.Context) (*SyncSummary, error)

	// Close releases the underlying connection
	Close() error
}
