package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	existing := &catalog.Product{SKU: "B"}

	tests := []struct {
		name     string
		existing *catalog.Product
		opts     integration.SyncOptions
		want     Action
	}{
		{"found and update allowed", existing, integration.SyncOptions{UpdateExisting: true}, ActionUpdate},
		{"found and update allowed ignores createNew", existing, integration.SyncOptions{UpdateExisting: true, CreateNew: true}, ActionUpdate},
		{"found and update disabled", existing, integration.SyncOptions{CreateNew: true}, ActionSkip},
		{"missing and create allowed", nil, integration.SyncOptions{CreateNew: true}, ActionCreate},
		{"missing and create allowed ignores updateExisting", nil, integration.SyncOptions{CreateNew: true, UpdateExisting: true}, ActionCreate},
		{"missing and create disabled", nil, integration.SyncOptions{UpdateExisting: true}, ActionSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.existing, tt.opts))
		})
	}
}

func newTestReconciler() (*Reconciler, *MockProductStore, *MockMappingStore) {
	products := new(MockProductStore)
	mappings := new(MockMappingStore)
	return NewReconciler(NewNoOpTransactionScope(products, mappings)), products, mappings
}

func existingProduct(t *testing.T, sku string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Existing "+sku)
	require.NoError(t, err)
	p.Description = "local description"
	p.Price = decimal.RequireFromString("5.00")
	p.Stock = 1
	p.Images = []string{"https://cdn.example.com/local.jpg"}
	return p
}

func TestReconciler_Apply_Create(t *testing.T) {
	ctx := context.Background()
	rec := integration.RemoteProductRecord{
		ExternalID:  "1001",
		SKU:         "A",
		Name:        "Alpha",
		Description: "first",
		Price:       "12.50",
		Stock:       4,
		Weight:      "0.75",
		Dimensions:  "1x2x3",
		Images:      []string{"https://cdn.example.com/a.jpg"},
	}

	t.Run("creates with images when importImages", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		products.On("FindBySKU", ctx, "A").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.SKU == "A" &&
				p.Title == "Alpha" &&
				p.IsActive &&
				p.Price.Equal(decimal.RequireFromString("12.50")) &&
				p.Stock == 4 &&
				len(p.Images) == 1
		})).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.MatchedBy(func(m *integration.ProductMapping) bool {
			return m.ExternalID == "1001" && m.SKU == "A" && !m.LastSyncedAt.IsZero()
		})).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{CreateNew: true, ImportImages: true})

		assert.Equal(t, OutcomeCreated, res.Outcome)
		assert.NotEmpty(t, res.ProductID)
		assert.NoError(t, res.Err)
		products.AssertExpectations(t)
		mappings.AssertExpectations(t)
	})

	t.Run("creates without images when importImages is off", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		products.On("FindBySKU", ctx, "A").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return len(p.Images) == 0
		})).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{CreateNew: true})
		assert.Equal(t, OutcomeCreated, res.Outcome)
		products.AssertExpectations(t)
	})

	t.Run("unparseable price defaults to zero", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		bad := rec
		bad.Price = "twelve"
		products.On("FindBySKU", ctx, "A").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Price.IsZero()
		})).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, bad, integration.SyncOptions{CreateNew: true})
		assert.Equal(t, OutcomeCreated, res.Outcome)
		products.AssertExpectations(t)
	})

	t.Run("skips when createNew is off", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		products.On("FindBySKU", ctx, "A").Return(nil, shared.ErrNotFound)

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true})

		assert.Equal(t, OutcomeSkipped, res.Outcome)
		products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mappings.AssertNotCalled(t, "UpsertMapping", mock.Anything, mock.Anything)
	})
}

func TestReconciler_Apply_Update(t *testing.T) {
	ctx := context.Background()
	rec := integration.RemoteProductRecord{
		ExternalID:  "2002",
		SKU:         "B",
		Name:        "Bravo renamed",
		Description: "remote description",
		Price:       "9.99",
		Stock:       42,
		Weight:      "2",
		Dimensions:  "4x4x4",
		Images:      []string{"https://cdn.example.com/b1.jpg", "https://cdn.example.com/b2.jpg"},
	}

	t.Run("full update replaces images when importImages", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		local := existingProduct(t, "B")
		products.On("FindBySKU", ctx, "B").Return(local, nil)
		products.On("Update", ctx, local).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.MatchedBy(func(m *integration.ProductMapping) bool {
			return m.LocalID == local.ID && m.ExternalID == "2002"
		})).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true, ImportImages: true})

		require.Equal(t, OutcomeUpdated, res.Outcome)
		assert.Equal(t, local.ID, res.ProductID)
		assert.Equal(t, "remote description", local.Description)
		assert.True(t, local.Price.Equal(decimal.RequireFromString("9.99")))
		assert.Equal(t, 42, local.Stock)
		assert.Equal(t, rec.Images, local.Images)
		assert.Equal(t, "Existing B", local.Title, "title is not overwritten on update")
		assert.Equal(t, "B", local.SKU)
		mappings.AssertExpectations(t)
	})

	t.Run("empty remote images leave local images", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		local := existingProduct(t, "B")
		noImages := rec
		noImages.Images = nil
		products.On("FindBySKU", ctx, "B").Return(local, nil)
		products.On("Update", ctx, local).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, noImages, integration.SyncOptions{UpdateExisting: true, ImportImages: true})

		require.Equal(t, OutcomeUpdated, res.Outcome)
		assert.Equal(t, []string{"https://cdn.example.com/local.jpg"}, local.Images)
	})

	t.Run("importImages off leaves local images", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		local := existingProduct(t, "B")
		products.On("FindBySKU", ctx, "B").Return(local, nil)
		products.On("Update", ctx, local).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true})

		require.Equal(t, OutcomeUpdated, res.Outcome)
		assert.Equal(t, []string{"https://cdn.example.com/local.jpg"}, local.Images)
	})

	t.Run("stock only writes stock and nothing else", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		local := existingProduct(t, "B")
		products.On("FindBySKU", ctx, "B").Return(local, nil)
		products.On("UpdateStock", ctx, local.ID, 42).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true, SyncStockOnly: true, ImportImages: true})

		require.Equal(t, OutcomeUpdated, res.Outcome)
		assert.Equal(t, 42, local.Stock)
		assert.Equal(t, "local description", local.Description)
		assert.True(t, local.Price.Equal(decimal.RequireFromString("5.00")))
		assert.Equal(t, []string{"https://cdn.example.com/local.jpg"}, local.Images)
		products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		products.AssertExpectations(t)
	})

	t.Run("skips existing when updateExisting is off", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		local := existingProduct(t, "B")
		products.On("FindBySKU", ctx, "B").Return(local, nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{CreateNew: true})

		assert.Equal(t, OutcomeSkipped, res.Outcome)
		products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		mappings.AssertNotCalled(t, "UpsertMapping", mock.Anything, mock.Anything)
	})
}

func TestReconciler_Apply_Failures(t *testing.T) {
	ctx := context.Background()
	rec := integration.RemoteProductRecord{ExternalID: "3003", SKU: "C", Name: "Charlie", Price: "1"}
	opts := integration.SyncOptions{UpdateExisting: true, CreateNew: true}

	t.Run("lookup failure", func(t *testing.T) {
		r, products, _ := newTestReconciler()
		products.On("FindBySKU", ctx, "C").Return(nil, errors.New("connection reset"))

		res := r.Apply(ctx, rec, opts)

		require.True(t, res.Failed())
		assert.Equal(t, "C: lookup failed: connection reset", res.Message())
	})

	t.Run("create failure", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		products.On("FindBySKU", ctx, "C").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		res := r.Apply(ctx, rec, opts)

		require.True(t, res.Failed())
		assert.Equal(t, "C: create failed: disk full", res.Message())
		mappings.AssertNotCalled(t, "UpsertMapping", mock.Anything, mock.Anything)
	})

	t.Run("mapping failure fails the record", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		products.On("FindBySKU", ctx, "C").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.Anything).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(errors.New("unique violation"))

		res := r.Apply(ctx, rec, opts)

		require.True(t, res.Failed())
		assert.Contains(t, res.Message(), "mapping upsert failed")
	})

	t.Run("oversized name cannot be created", func(t *testing.T) {
		r, products, _ := newTestReconciler()
		long := rec
		long.Name = strings.Repeat("n", 256)
		products.On("FindBySKU", ctx, "C").Return(nil, shared.ErrNotFound)

		res := r.Apply(ctx, long, opts)

		require.True(t, res.Failed())
		assert.Contains(t, res.Message(), "cannot exceed 255 characters")
		products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReconciler_Apply_KeepsRemoteValues(t *testing.T) {
	ctx := context.Background()
	opts := integration.SyncOptions{UpdateExisting: true, CreateNew: true}

	t.Run("negative price is created", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		rec := integration.RemoteProductRecord{ExternalID: "e2", SKU: "NEG", Name: "Refund", Price: "-5", Weight: "-1"}
		products.On("FindBySKU", ctx, "NEG").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Price.Equal(decimal.NewFromInt(-5)) && p.Weight.IsNegative()
		})).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, opts)

		assert.Equal(t, OutcomeCreated, res.Outcome)
		products.AssertExpectations(t)
	})

	t.Run("empty name is created with empty title", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		rec := integration.RemoteProductRecord{ExternalID: "e3", SKU: "NONAME", Name: "", Price: "2"}
		products.On("FindBySKU", ctx, "NONAME").Return(nil, shared.ErrNotFound)
		products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.SKU == "NONAME" && p.Title == ""
		})).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, opts)

		assert.Equal(t, OutcomeCreated, res.Outcome)
		products.AssertExpectations(t)
	})

	t.Run("negative stock is written in stock only mode", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		local := existingProduct(t, "C")
		rec := integration.RemoteProductRecord{ExternalID: "3003", SKU: "C", Name: "Charlie", Stock: -2}
		products.On("FindBySKU", ctx, "C").Return(local, nil)
		products.On("UpdateStock", ctx, local.ID, -2).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true, SyncStockOnly: true})

		assert.Equal(t, OutcomeUpdated, res.Outcome)
		assert.Equal(t, -2, local.Stock)
	})
}

func TestReconciler_Apply_BlankSKU(t *testing.T) {
	ctx := context.Background()
	rec := integration.RemoteProductRecord{ExternalID: "4004", SKU: "  ", Name: "No SKU"}

	t.Run("create policy never looks up", func(t *testing.T) {
		r, products, mappings := newTestReconciler()
		products.On("Create", ctx, mock.Anything).Return(nil)
		mappings.On("UpsertMapping", ctx, mock.Anything).Return(nil)

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true, CreateNew: true, BlankSKUPolicy: integration.BlankSKUCreate})

		assert.Equal(t, OutcomeCreated, res.Outcome)
		products.AssertNotCalled(t, "FindBySKU", mock.Anything, mock.Anything)
	})

	t.Run("skip policy touches nothing", func(t *testing.T) {
		r, products, mappings := newTestReconciler()

		res := r.Apply(ctx, rec, integration.SyncOptions{UpdateExisting: true, CreateNew: true, BlankSKUPolicy: integration.BlankSKUSkip})

		assert.Equal(t, OutcomeSkipped, res.Outcome)
		products.AssertExpectations(t)
		mappings.AssertExpectations(t)
	})
}
