package models

import (
	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
// SKU is unique only among non-blank values so that records without a SKU
// can be created more than once.
type ProductModel struct {
	BaseModel
	SKU         string          `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_products_sku,where:sku <> ''"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Weight      decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Dimensions  string          `gorm:"type:varchar(100)"`
	Images      []string        `gorm:"type:text;serializer:json"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	images := m.Images
	if images == nil {
		images = []string{}
	}
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		SKU:         m.SKU,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		Weight:      m.Weight,
		Dimensions:  m.Dimensions,
		Images:      images,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SKU = p.SKU
	m.Title = p.Title
	m.Description = p.Description
	m.Price = p.Price
	m.Stock = p.Stock
	m.Weight = p.Weight
	m.Dimensions = p.Dimensions
	m.Images = p.Images
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
