package ordering

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusCompleted || target == OrderStatusCanceled
	case OrderStatusCompleted, OrderStatusCanceled:
		return false // Terminal states
	}
	return false
}

// ChangeType records which kind of operation touched the order last
type ChangeType string

const (
	ChangeTypeCreated   ChangeType = "created"
	ChangeTypeUpdate    ChangeType = "update"
	ChangeTypeCompleted ChangeType = "completed"
	ChangeTypeCanceled  ChangeType = "canceled"
	ChangeTypeDelete    ChangeType = "delete"
)

// IsValid returns true if the change type is valid
func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeTypeCreated, ChangeTypeUpdate, ChangeTypeCompleted, ChangeTypeCanceled, ChangeTypeDelete:
		return true
	}
	return false
}

// String returns the string representation of ChangeType
func (c ChangeType) String() string {
	return string(c)
}

// Errors raised by order lifecycle transitions
var (
	ErrAlreadyCompleted = shared.NewDomainError("ALREADY_COMPLETED", "Order is already completed")
	ErrAlreadyCanceled  = shared.NewDomainError("ALREADY_CANCELED", "Order is already canceled")
	ErrOrderClosed      = shared.NewDomainError("ORDER_CLOSED", "Completed or canceled orders cannot be modified")
)

// Order represents a customer order aggregate root. It is the sole writer of
// its status, running total and change-audit fields. Line items are owned by
// the order (cascade on hard delete) but stored and locked individually so
// concurrent mutations of different items can serialize at row granularity.
type Order struct {
	shared.BaseAggregateRoot
	CustomerName   string          `gorm:"type:varchar(100);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Status         OrderStatus     `gorm:"type:varchar(10);not null;index"`
	LastChangeAt   time.Time       `gorm:"type:timestamptz;not null;index"`
	LastChangeType ChangeType      `gorm:"type:varchar(10);not null;index"`
	DeletedAt      *time.Time      `gorm:"type:timestamptz"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order
func NewOrder(customerName string) (*Order, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(customerName) > 100 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 100 characters")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      customerName,
		Total:             decimal.Zero,
		Status:            OrderStatusPending,
		LastChangeAt:      time.Now(),
		LastChangeType:    ChangeTypeCreated,
		Items:             make([]OrderItem, 0),
	}, nil
}

// Touch records the audit trail of a successful mutation
func (o *Order) Touch(changeType ChangeType) {
	now := time.Now()
	o.LastChangeAt = now
	o.LastChangeType = changeType
	o.UpdatedAt = now
}

// AdjustTotal applies a signed delta to the running total. The delta comes
// from item-store results, which guarantee the total never goes negative;
// the invariant is not re-validated here.
func (o *Order) AdjustTotal(delta decimal.Decimal) {
	o.Total = o.Total.Add(delta)
}

// Complete transitions the order to Completed
func (o *Order) Complete() error {
	if o.Status == OrderStatusCompleted {
		return ErrAlreadyCompleted
	}
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", "Canceled orders cannot be completed")
	}
	o.Status = OrderStatusCompleted
	return nil
}

// Cancel transitions the order to Canceled
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCanceled {
		return ErrAlreadyCanceled
	}
	if !o.Status.CanTransitionTo(OrderStatusCanceled) {
		return shared.NewDomainError("INVALID_TRANSITION", "Completed orders cannot be canceled")
	}
	o.Status = OrderStatusCanceled
	return nil
}

// SoftDelete marks the order as removed without deleting the row. An order
// still open at deletion time is forced to Canceled first; the audit trail
// records the deletion itself.
func (o *Order) SoftDelete() {
	now := time.Now()
	o.DeletedAt = &now
	if o.Status != OrderStatusCompleted && o.Status != OrderStatusCanceled {
		o.Status = OrderStatusCanceled
	}
	o.Touch(ChangeTypeDelete)
}

// CanModify returns true if items may still be added or removed
func (o *Order) CanModify() bool {
	return o.Status == OrderStatusPending
}

// IsPending returns true if the order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsCanceled returns true if the order is canceled
func (o *Order) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}

// IsDeleted returns true if the order was soft-deleted
func (o *Order) IsDeleted() bool {
	return o.DeletedAt != nil
}

// ItemsTotal returns the sum of line totals over the loaded items
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].LineTotal())
	}
	return total
}
