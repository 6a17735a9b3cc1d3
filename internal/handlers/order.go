package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecofinds/marketplace/internal/events"
	mwauth "github.com/ecofinds/marketplace/internal/middleware/auth"
	"github.com/ecofinds/marketplace/internal/service"
	"github.com/ecofinds/marketplace/internal/util"
)

type OrderHandler struct {
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Producer *events.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(event["order_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// Create turns the caller's cart into an order.
func (h *OrderHandler) Create(c echo.Context) error {
	userID := mwauth.UserID(c)

	var req service.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Checkout.Checkout(c.Request().Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":         "order_created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"buyer_id":     userID,
		"total_amount": order.TotalAmount,
	})

	return success(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Orders.ListByBuyer(
		c.Request().Context(), mwauth.UserID(c), c.QueryParam("status"), offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return paginated(c, "Orders retrieved successfully", orders, total, page, limit)
}

// Sales lists orders that contain at least one line sold by the caller.
func (h *OrderHandler) Sales(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Orders.ListBySeller(
		c.Request().Context(), mwauth.UserID(c), c.QueryParam("status"), offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return paginated(c, "Sales retrieved successfully", orders, total, page, limit)
}

func (h *OrderHandler) All(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Orders.ListAll(
		c.Request().Context(), mwauth.Actor(c), c.QueryParam("status"), offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return paginated(c, "All orders retrieved successfully", orders, total, page, limit)
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Orders.Get(c.Request().Context(), uint(id), mwauth.Actor(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}

	var req service.StatusChange
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), uint(id), mwauth.Actor(c), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":     "order_status_changed",
		"order_id": order.ID,
		"status":   order.Status,
	})

	return success(c, http.StatusOK, "Order status updated successfully", order)
}
