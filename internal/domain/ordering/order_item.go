package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// OrderItem is a line on an order. Price is a snapshot of the catalog price
// taken when the line was first created; later catalog changes never rewrite
// it. At most one line exists per (order, product) pair.
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uniq_order_product"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uniq_order_product"`
	Quantity  int64           `gorm:"not null;check:quantity > 0"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order line with a price snapshot
func NewOrderItem(orderID, productID uuid.UUID, quantity int64, price decimal.Decimal) (*OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		Price:      price,
	}, nil
}

// LineTotal returns quantity times the snapshot price
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
