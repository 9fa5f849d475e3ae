package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	appintegration "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	scope := NewGormTransactionScope(db.DB)
	products := NewGormProductRepository(db.DB)
	mappings := NewGormProductMappingRepository(db.DB)

	t.Run("commit writes product and mapping", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appintegration.CatalogRepositories) error {
			p := newTestProduct(t, "TX-1", "Committed")
			if err := repos.Products().Create(ctx, p); err != nil {
				return err
			}
			m, err := integration.NewProductMapping("ext-tx-1", p.ID, p.SKU, time.Now())
			if err != nil {
				return err
			}
			return repos.Mappings().UpsertMapping(ctx, m)
		})
		require.NoError(t, err)

		_, err = products.FindBySKU(ctx, "TX-1")
		assert.NoError(t, err)
		_, err = mappings.FindByExternalID(ctx, "ext-tx-1")
		assert.NoError(t, err)
	})

	t.Run("mapping failure rolls back the product", func(t *testing.T) {
		boom := errors.New("mapping upsert failed")
		err := scope.Execute(ctx, func(repos appintegration.CatalogRepositories) error {
			if err := repos.Products().Create(ctx, newTestProduct(t, "TX-2", "Rolled back")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		count, err := products.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
