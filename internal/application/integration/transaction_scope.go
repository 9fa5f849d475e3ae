package integration

import (
	"context"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
)

// CatalogRepositories gives access to the stores touched while reconciling
// one record. Implementations scope both stores to the same transaction.
type CatalogRepositories interface {
	Products() catalog.ProductStore
	Mappings() integration.MappingStore
}

// TransactionScope runs fn so that the product write and the mapping upsert
// commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos CatalogRepositories) error) error
}

// NoOpTransactionScope runs fn directly against the given stores.
// Use it with stores that have no transaction support.
type NoOpTransactionScope struct {
	products catalog.ProductStore
	mappings integration.MappingStore
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(products catalog.ProductStore, mappings integration.MappingStore) *NoOpTransactionScope {
	return &NoOpTransactionScope{products: products, mappings: mappings}
}

// Execute calls fn with the wrapped stores
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos CatalogRepositories) error) error {
	return fn(s)
}

// Products returns the product store
func (s *NoOpTransactionScope) Products() catalog.ProductStore {
	return s.products
}

// Mappings returns the mapping store
func (s *NoOpTransactionScope) Mappings() integration.MappingStore {
	return s.mappings
}

var (
	_ TransactionScope    = (*NoOpTransactionScope)(nil)
	_ CatalogRepositories = (*NoOpTransactionScope)(nil)
)
