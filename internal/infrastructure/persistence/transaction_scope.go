package persistence

import (
	"context"

	appintegration "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// If fn returns an error, the transaction is rolled back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appintegration.CatalogRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

// gormCatalogRepositories provides the catalog stores within a transaction.
type gormCatalogRepositories struct {
	tx *gorm.DB
}

// Products returns the product store scoped to the current transaction.
func (r *gormCatalogRepositories) Products() catalog.ProductStore {
	return NewGormProductRepository(r.tx)
}

// Mappings returns the mapping store scoped to the current transaction.
func (r *gormCatalogRepositories) Mappings() integration.MappingStore {
	return NewGormProductMappingRepository(r.tx)
}

var (
	_ appintegration.TransactionScope    = (*GormTransactionScope)(nil)
	_ appintegration.CatalogRepositories = (*gormCatalogRepositories)(nil)
)
