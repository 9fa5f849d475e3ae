package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// InMemorySummaryStore keeps the latest SyncSummary in process memory.
// It is suitable for single-instance deployments and tests.
type InMemorySummaryStore struct {
	mu        sync.RWMutex
	summary   *integration.SyncSummary
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemorySummaryStore creates a store whose snapshot expires after ttl;
// zero keeps it until overwritten
func NewInMemorySummaryStore(ttl time.Duration) *InMemorySummaryStore {
	return &InMemorySummaryStore{ttl: ttl, now: time.Now}
}

// Save replaces the stored snapshot
func (s *InMemorySummaryStore) Save(_ context.Context, summary integration.SyncSummary) error {
	summary.Errors = append([]string{}, summary.Errors...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
	if s.ttl > 0 {
		s.expiresAt = s.now().Add(s.ttl)
	} else {
		s.expiresAt = time.Time{}
	}
	return nil
}

// Latest returns a copy of the snapshot or integration.ErrSummaryNotFound
func (s *InMemorySummaryStore) Latest(_ context.Context) (*integration.SyncSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.summary == nil {
		return nil, integration.ErrSummaryNotFound
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return nil, integration.ErrSummaryNotFound
	}
	out := *s.summary
	out.Errors = append([]string{}, s.summary.Errors...)
	return &out, nil
}

// Close is a no-op
func (s *InMemorySummaryStore) Close() error {
	return nil
}

var _ integration.SummaryStore = (*InMemorySummaryStore)(nil)
