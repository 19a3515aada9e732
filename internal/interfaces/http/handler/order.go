package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/orderdesk/backend/internal/application/ordering"
	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	BaseHandler
	service        *appordering.OrderService
	mutationGuards []gin.HandlerFunc
}

// NewOrderHandler creates a new OrderHandler. Mutation guards run before
// every mutating route (idempotency key checks and the like).
func NewOrderHandler(service *appordering.OrderService, mutationGuards ...gin.HandlerFunc) *OrderHandler {
	return &OrderHandler{
		service:        service,
		mutationGuards: mutationGuards,
	}
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)

		mutating := orders.Group("")
		mutating.Use(h.mutationGuards...)
		{
			mutating.POST("", h.Create)
			mutating.PATCH("/:id/complete", h.Complete)
			mutating.POST("/:id/add-item", h.AddItem)
			mutating.POST("/:id/remove-item", h.RemoveItem)
			mutating.PATCH("/:id/cancel", h.Cancel)
			mutating.DELETE("/:id", h.Delete)
		}
	}
}

// listOrdersQuery holds the query parameters of the list endpoint.
// Date filters take YYYY-MM-DD values and apply at day granularity.
type listOrdersQuery struct {
	Status         string `form:"status"`
	DateFrom       string `form:"date_from"`
	DateTo         string `form:"date_to"`
	LastChangeType string `form:"last_change_type"`
	LastChangeFrom string `form:"last_change_from"`
	LastChangeTo   string `form:"last_change_to"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req appordering.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var query listOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	filter := appordering.OrderListFilter{
		Status:         query.Status,
		LastChangeType: query.LastChangeType,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}

	var err error
	if filter.DateFrom, err = parseDate(query.DateFrom); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "date_from must be YYYY-MM-DD")
		return
	}
	if filter.DateTo, err = parseDate(query.DateTo); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "date_to must be YYYY-MM-DD")
		return
	}
	if filter.LastChangeFrom, err = parseDate(query.LastChangeFrom); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "last_change_from must be YYYY-MM-DD")
		return
	}
	if filter.LastChangeTo, err = parseDate(query.LastChangeTo); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "last_change_to must be YYYY-MM-DD")
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Complete handles PATCH /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.service.Complete(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddItem handles POST /orders/:id/add-item
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	var req appordering.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	order, err := h.service.AddItem(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem handles POST /orders/:id/remove-item
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	var req appordering.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.service.RemoveItem(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel handles PATCH /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *OrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
