package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxSKULength   = 100
	maxTitleLength = 255
)

// Product is a locally owned catalog entry. SKU is its natural key and is
// fixed at creation.
type Product struct {
	shared.BaseEntity
	SKU         string
	Title       string
	Description string
	Price       decimal.Decimal
	Stock       int
	Weight      decimal.Decimal
	Dimensions  string
	Images      []string
	IsActive    bool
}

// ProductDetails holds the fields a full remote refresh may overwrite.
// Images are handled separately by ReplaceImages.
type ProductDetails struct {
	Description string
	Price       decimal.Decimal
	Stock       int
	Weight      decimal.Decimal
	Dimensions  string
}

// NewProduct creates an active product with zero price and no images
func NewProduct(sku, title string) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if utf8.RuneCountInString(sku) > maxSKULength {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Title:      strings.TrimSpace(title),
		Price:      decimal.Zero,
		Weight:     decimal.Zero,
		Images:     make([]string, 0),
		IsActive:   true,
	}, nil
}

// HasSKU reports whether the product carries a non-blank natural key
func (p *Product) HasSKU() bool {
	return strings.TrimSpace(p.SKU) != ""
}

// UpdateDetails overwrites descriptive, price, stock and shipping fields.
// Remote values are taken as-is, including negative quantities.
func (p *Product) UpdateDetails(d ProductDetails) {
	p.Description = d.Description
	p.Price = d.Price
	p.Stock = d.Stock
	p.Weight = d.Weight
	p.Dimensions = d.Dimensions
	p.Touch()
}

// SetStock changes only the stock quantity
func (p *Product) SetStock(stock int) {
	p.Stock = stock
	p.Touch()
}

// ReplaceImages swaps the image list. An empty list is ignored so a remote
// record without images never wipes local ones.
func (p *Product) ReplaceImages(images []string) {
	if len(images) == 0 {
		return
	}
	p.Images = append(make([]string, 0, len(images)), images...)
	p.Touch()
}

// validateTitle enforces the title column width. An empty title is allowed.
func validateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) > maxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 255 characters")
	}
	return nil
}
