package integration

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ProductMapping Entity
// ---------------------------------------------------------------------------

// ProductMapping links a remote product to the local product it was synced
// into. There is at most one mapping per ExternalID.
type ProductMapping struct {
	ID           uuid.UUID
	ExternalID   string
	LocalID      uuid.UUID
	SKU          string
	LastSyncedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProductMapping creates a mapping stamped with syncedAt
func NewProductMapping(externalID string, localID uuid.UUID, sku string, syncedAt time.Time) (*ProductMapping, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, ErrMappingInvalidExternalID
	}
	if localID == uuid.Nil {
		return nil, ErrMappingInvalidLocalID
	}

	return &ProductMapping{
		ID:           uuid.New(),
		ExternalID:   externalID,
		LocalID:      localID,
		SKU:          sku,
		LastSyncedAt: syncedAt,
		CreatedAt:    syncedAt,
		UpdatedAt:    syncedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// MappingStore port
// ---------------------------------------------------------------------------

// MappingStore persists product mappings
type MappingStore interface {
	// UpsertMapping inserts the mapping or refreshes LocalID, SKU and
	// LastSyncedAt on the row with the same ExternalID
	UpsertMapping(ctx context.Context, mapping *ProductMapping) error

	// FindByExternalID returns shared.ErrNotFound when absent
	FindByExternalID(ctx context.Context, externalID string) (*ProductMapping, error)
}
