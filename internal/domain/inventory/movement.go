package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	// MovementTypeInflow represents stock coming back into inventory
	MovementTypeInflow MovementType = "INFLOW"
	// MovementTypeOutflow represents stock leaving inventory
	MovementTypeOutflow MovementType = "OUTFLOW"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeInflow, MovementTypeOutflow:
		return true
	}
	return false
}

// Well-known movement reasons
const (
	// ReasonSale tags outflows caused by selling stock to an order
	ReasonSale = "sale"
	// ReasonAdjustment tags inflows caused by returning stock to inventory
	ReasonAdjustment = "adjustment"
)

// Movement represents an immutable record of a stock change.
// Once created, movements cannot be modified - corrections are made with
// new movements.
type Movement struct {
	shared.BaseEntity
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_product_type_time,priority:1"`
	Quantity     int64        `gorm:"not null;check:quantity > 0"`
	MovementType MovementType `gorm:"type:varchar(10);not null;index:idx_movement_product_type_time,priority:2"`
	Reason       string       `gorm:"type:varchar(50);not null"`
	OccurredAt   time.Time    `gorm:"type:timestamptz;not null;index:idx_movement_product_type_time,priority:3"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "inventory_movements"
}

// NewMovement creates a new stock movement
func NewMovement(productID uuid.UUID, quantity int64, movementType MovementType, reason string) (*Movement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Movement reason cannot be empty")
	}

	return &Movement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		Quantity:     quantity,
		MovementType: movementType,
		Reason:       reason,
		OccurredAt:   time.Now(),
	}, nil
}

// SignedQuantity returns the quantity with direction applied:
// positive for inflows, negative for outflows.
func (m *Movement) SignedQuantity() int64 {
	if m.MovementType == MovementTypeOutflow {
		return -m.Quantity
	}
	return m.Quantity
}
