package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductStore is the catalog persistence port used by the sync pipeline
type ProductStore interface {
	// FindBySKU returns shared.ErrNotFound when no product carries the SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product
	Update(ctx context.Context, product *Product) error

	// UpdateStock writes only the stock column of a product
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error

	// Count returns the number of products in the catalog
	Count(ctx context.Context) (int64, error)
}
