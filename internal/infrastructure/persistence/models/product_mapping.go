package models

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/google/uuid"
)

// ProductMappingModel is the persistence model for the ProductMapping domain entity.
type ProductMappingModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	ExternalProductID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_mappings_external"`
	LocalProductID    uuid.UUID `gorm:"type:uuid;not null;index:idx_product_mappings_local"`
	SKU               string    `gorm:"type:varchar(100);not null;default:''"`
	LastSyncedAt      time.Time `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductMappingModel) TableName() string {
	return "product_mappings"
}

// ToDomain converts the persistence model to a domain ProductMapping entity.
func (m *ProductMappingModel) ToDomain() *integration.ProductMapping {
	return &integration.ProductMapping{
		ID:           m.ID,
		ExternalID:   m.ExternalProductID,
		LocalID:      m.LocalProductID,
		SKU:          m.SKU,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductMapping entity.
func (m *ProductMappingModel) FromDomain(pm *integration.ProductMapping) {
	m.ID = pm.ID
	m.ExternalProductID = pm.ExternalID
	m.LocalProductID = pm.LocalID
	m.SKU = pm.SKU
	m.LastSyncedAt = pm.LastSyncedAt
	m.CreatedAt = pm.CreatedAt
	m.UpdatedAt = pm.UpdatedAt
}

// ProductMappingModelFromDomain creates a new persistence model from a domain ProductMapping entity.
func ProductMappingModelFromDomain(pm *integration.ProductMapping) *ProductMappingModel {
	m := &ProductMappingModel{}
	m.FromDomain(pm)
	return m
}
