package persistence

import (
	"context"
	"errors"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductMappingRepository implements integration.MappingStore using GORM
type GormProductMappingRepository struct {
	db *gorm.DB
}

// NewGormProductMappingRepository creates a new GormProductMappingRepository
func NewGormProductMappingRepository(db *gorm.DB) *GormProductMappingRepository {
	return &GormProductMappingRepository{db: db}
}

// UpsertMapping inserts the mapping or refreshes the row with the same
// external product ID. id and created_at of an existing row are kept.
func (r *GormProductMappingRepository) UpsertMapping(ctx context.Context, mapping *integration.ProductMapping) error {
	model := models.ProductMappingModelFromDomain(mapping)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"local_product_id", "sku", "last_synced_at", "updated_at"}),
		}).
		Create(model).Error
}

// FindByExternalID finds the mapping for a remote product
func (r *GormProductMappingRepository) FindByExternalID(ctx context.Context, externalID string) (*integration.ProductMapping, error) {
	var model models.ProductMappingModel
	if err := r.db.WithContext(ctx).
		Where("external_product_id = ?", externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Count returns the number of mappings
func (r *GormProductMappingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductMappingModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ integration.MappingStore = (*GormProductMappingRepository)(nil)
