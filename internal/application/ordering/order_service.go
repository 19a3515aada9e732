package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/ordering"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// OrderService handles order lifecycle operations. Every mutation runs in a
// single transaction scope so the order row, its lines, product stock and
// movement appends commit or roll back together.
type OrderService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(txScope TransactionScope, logger *zap.Logger) *OrderService {
	return &OrderService{
		txScope: txScope,
		logger:  logger,
	}
}

// Create creates a new pending order
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	order, err := ordering.NewOrder(req.CustomerName)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("customer", order.CustomerName))

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its items. Soft-deleted orders are
// returned as well, with their deletion timestamp set.
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var response OrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves orders matching the filter, newest first. Page and page
// size are normalized here and reported back so callers echo the values
// actually applied.
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*ListOrdersResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	if filter.Status != "" && !ordering.OrderStatus(filter.Status).IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown order status")
	}
	if filter.LastChangeType != "" && !ordering.ChangeType(filter.LastChangeType).IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown change type")
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.LastChangeType != "" {
		domainFilter.Filters["last_change_type"] = filter.LastChangeType
	}
	// Date filters apply at day granularity, both bounds inclusive.
	if filter.DateFrom != nil {
		domainFilter.Filters["created_from"] = dayStart(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		domainFilter.Filters["created_before"] = dayStart(*filter.DateTo).Add(24 * time.Hour)
	}
	if filter.LastChangeFrom != nil {
		domainFilter.Filters["last_change_from"] = dayStart(*filter.LastChangeFrom)
	}
	if filter.LastChangeTo != nil {
		domainFilter.Filters["last_change_before"] = dayStart(*filter.LastChangeTo).Add(24 * time.Hour)
	}

	response := ListOrdersResponse{Page: filter.Page, PageSize: filter.PageSize}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		page, err := repos.OrderRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		response.Items = make([]OrderResponse, 0, len(page.Items))
		for idx := range page.Items {
			response.Items = append(response.Items, ToOrderResponse(&page.Items[idx]))
		}
		response.Total = page.Total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// AddItem adds product units to a pending order. Stock is reserved
// immediately: the product counter drops and an outflow movement is
// recorded in the same transaction as the line change.
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*OrderResponse, error) {
	var response OrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsDeleted() || !order.CanModify() {
			return ordering.ErrOrderClosed
		}

		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		ledger := inventory.NewStockLedger(repos.ProductRepo(), repos.MovementRepo())
		if _, err := ledger.Reserve(ctx, product.ID, req.Quantity); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.ErrInsufficientStock.Code {
				return &ordering.InsufficientStockError{Shortfalls: []ordering.StockShortfall{{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: req.Quantity,
					Available: product.Stock,
				}}}
			}
			return err
		}

		store := ordering.NewItemStore(repos.ItemRepo())
		result, err := store.AddOrMerge(ctx, order.ID, product.ID, req.Quantity, product.Price)
		if err != nil {
			return err
		}

		order.AdjustTotal(result.Charged)
		order.Touch(ordering.ChangeTypeUpdate)
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		fresh, err := repos.OrderRepo().FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		response = ToOrderResponse(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item added to order",
		zap.String("order_id", orderID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int64("quantity", req.Quantity))
	return &response, nil
}

// RemoveItem removes product units from a pending order and returns the
// reserved stock. A request above the held quantity removes only what the
// line holds.
func (s *OrderService) RemoveItem(ctx context.Context, orderID uuid.UUID, req RemoveItemRequest) (*RemoveItemResponse, error) {
	var response RemoveItemResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsDeleted() || !order.CanModify() {
			return ordering.ErrOrderClosed
		}

		store := ordering.NewItemStore(repos.ItemRepo())
		result, err := store.Decrease(ctx, order.ID, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}

		ledger := inventory.NewStockLedger(repos.ProductRepo(), repos.MovementRepo())
		if _, err := ledger.Release(ctx, req.ProductID, result.Removed); err != nil {
			return err
		}

		order.AdjustTotal(result.Refunded.Neg())
		order.Touch(ordering.ChangeTypeUpdate)
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		fresh, err := repos.OrderRepo().FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		response = RemoveItemResponse{
			Removed: result.Removed,
			Order:   ToOrderResponse(fresh),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item removed from order",
		zap.String("order_id", orderID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int64("removed", response.Removed))
	return &response, nil
}

// Complete transitions a pending order to Completed. When every line
// already shows a sale outflow since the order was created the deduction
// phase is skipped entirely, so retrying a completion never deducts twice.
// Otherwise availability of every line is checked before any counter
// moves; all shortfalls are reported together and the transaction rolls
// back leaving stock untouched.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var response OrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Complete(); err != nil {
			return err
		}

		items, err := repos.ItemRepo().FindByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		ledger := inventory.NewStockLedger(repos.ProductRepo(), repos.MovementRepo())

		// Retry detection is all-or-nothing: only when every line already
		// shows a sale outflow is the deduction treated as done. A partially
		// applied completion is validated and reserved again in full.
		alreadyDeducted := len(items) > 0
		for idx := range items {
			taken, err := ledger.HasOutflowSince(ctx, items[idx].ProductID, order.CreatedAt)
			if err != nil {
				return err
			}
			if !taken {
				alreadyDeducted = false
				break
			}
		}

		if !alreadyDeducted {
			shortfalls := make([]ordering.StockShortfall, 0)
			for idx := range items {
				item := items[idx]
				product, err := repos.ProductRepo().FindByIDForUpdate(ctx, item.ProductID)
				if err != nil {
					return err
				}
				if product.Stock < item.Quantity {
					shortfalls = append(shortfalls, ordering.StockShortfall{
						ProductID: product.ID,
						Name:      product.Name,
						Requested: item.Quantity,
						Available: product.Stock,
					})
				}
			}
			if len(shortfalls) > 0 {
				return &ordering.InsufficientStockError{Shortfalls: shortfalls}
			}

			for idx := range items {
				if _, err := ledger.Reserve(ctx, items[idx].ProductID, items[idx].Quantity); err != nil {
					return err
				}
			}
		}

		order.Touch(ordering.ChangeTypeCompleted)
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order completed", zap.String("order_id", orderID.String()))
	return &response, nil
}

// Cancel transitions a pending order to Canceled. Stock reserved by the
// order stays deducted; restoring it is a deliberate follow-up adjustment,
// not part of cancellation.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var response OrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		order.Touch(ordering.ChangeTypeCanceled)
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order canceled", zap.String("order_id", orderID.String()))
	return &response, nil
}

// Delete soft-deletes an order. An order still pending is forced to
// Canceled first. Deleting an already deleted order is a no-op.
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsDeleted() {
			return nil
		}
		order.SoftDelete()
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Order deleted", zap.String("order_id", orderID.String()))
	return nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
