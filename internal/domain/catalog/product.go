package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// Product represents a sellable product with a single stock counter.
// Catalog management (pricing rules, categories, units) lives outside this
// service; orders only read the product and mutate its stock through the
// inventory ledger.
type Product struct {
	shared.BaseEntity
	Name  string          `gorm:"type:varchar(100);not null"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock int64           `gorm:"not null;default:0;check:stock >= 0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, stock int64) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Stock:      stock,
	}, nil
}

// HasStock returns true if at least qty units are available
func (p *Product) HasStock(qty int64) bool {
	return p.Stock >= qty
}
