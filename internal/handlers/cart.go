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
)

type CartHandler struct {
	Cart     *service.CartService
	Producer *events.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.Cart.GetCart(c.Request().Context(), mwauth.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, "Cart retrieved successfully", cart)
}

func (h *CartHandler) Add(c echo.Context) error {
	userID := mwauth.UserID(c)

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "product_id required")
	}

	cart, err := h.Cart.AddLine(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
	})

	return success(c, http.StatusOK, "Item added to cart successfully", cart)
}

func (h *CartHandler) Update(c echo.Context) error {
	userID := mwauth.UserID(c)

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "product_id required")
	}

	cart, err := h.Cart.UpdateLine(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_updated",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	return success(c, http.StatusOK, "Cart updated successfully", cart)
}

func (h *CartHandler) Remove(c echo.Context) error {
	userID := mwauth.UserID(c)

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	cart, err := h.Cart.RemoveLine(c.Request().Context(), userID, uint(productID))
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": productID,
	})

	return success(c, http.StatusOK, "Item removed from cart successfully", cart)
}

func (h *CartHandler) Clear(c echo.Context) error {
	userID := mwauth.UserID(c)

	if err := h.Cart.Clear(c.Request().Context(), userID); err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})

	return success(c, http.StatusOK, "Cart cleared successfully", nil)
}
