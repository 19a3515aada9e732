package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/backend/internal/domain/ordering"
)

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerName string `json:"customer_name" binding:"required,min=1,max=100"`
}

// AddItemRequest represents a request to add product units to an order
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// RemoveItemRequest represents a request to remove product units from an order
type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// OrderListFilter represents filtering options for listing orders
type OrderListFilter struct {
	Status         string
	DateFrom       *time.Time
	DateTo         *time.Time
	LastChangeType string
	LastChangeFrom *time.Time
	LastChangeTo   *time.Time
	Page           int
	PageSize       int
}

// OrderItemResponse represents an order line in responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	CustomerName   string              `json:"customer_name"`
	Total          decimal.Decimal     `json:"total"`
	Status         string              `json:"status"`
	LastChangeAt   time.Time           `json:"last_change_at"`
	LastChangeType string              `json:"last_change_type"`
	DeletedAt      *time.Time          `json:"deleted_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
	Items          []OrderItemResponse `json:"items"`
}

// ListOrdersResponse carries a page of orders together with the pagination
// values that were actually applied after normalization.
type ListOrdersResponse struct {
	Items    []OrderResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// RemoveItemResponse reports the outcome of a remove-item operation. The
// removed count may be lower than the requested quantity when the line held
// fewer units.
type RemoveItemResponse struct {
	Removed int64         `json:"removed"`
	Order   OrderResponse `json:"order"`
}

// ToOrderItemResponse converts a domain order item to a response DTO
func ToOrderItemResponse(item *ordering.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		LineTotal: item.LineTotal(),
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		items = append(items, ToOrderItemResponse(&order.Items[idx]))
	}
	return OrderResponse{
		ID:             order.ID,
		CustomerName:   order.CustomerName,
		Total:          order.Total,
		Status:         order.Status.String(),
		LastChangeAt:   order.LastChangeAt,
		LastChangeType: order.LastChangeType.String(),
		DeletedAt:      order.DeletedAt,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		Version:        order.Version,
		Items:          items,
	}
}
