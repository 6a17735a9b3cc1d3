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
	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
	"github.com/ecofinds/marketplace/internal/search"
	"github.com/ecofinds/marketplace/internal/service"
	"github.com/ecofinds/marketplace/internal/util"
)

type ProductHandler struct {
	Catalog  *service.CatalogService
	Producer *events.Producer
	Index    *search.ProductIndex
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["product_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ProductHandler) index(c echo.Context, product *models.Product) {
	if h.Index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Index.IndexProduct(ctx, product); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}

// List is the public product feed. An authenticated non-admin caller never
// sees their own listings here.
func (h *ProductHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := repo.ProductFilter{
		Category:      c.QueryParam("category"),
		Condition:     c.QueryParam("condition"),
		Search:        c.QueryParam("search"),
		SortBy:        c.QueryParam("sortBy"),
		OnlyAvailable: true,
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if c.QueryParam("featured") == "true" {
		filter.OnlyFeatured = true
	}
	if userID := mwauth.UserID(c); userID != 0 && mwauth.Role(c) != "admin" {
		filter.ExcludeSeller = userID
	}

	total, items, err := h.Catalog.List(c.Request().Context(), filter, offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return paginated(c, "Products retrieved successfully", items, total, page, limit)
}

// MyListings returns the caller's own products, available or not.
func (h *ProductHandler) MyListings(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := repo.ProductFilter{SellerID: mwauth.UserID(c)}
	total, items, err := h.Catalog.List(c.Request().Context(), filter, offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return paginated(c, "Listings retrieved successfully", items, total, page, limit)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Catalog.Get(c.Request().Context(), uint(id), mwauth.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	product, err := h.Catalog.Create(c.Request().Context(), mwauth.UserID(c), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"title":      product.Title,
	})
	h.index(c, product)

	return success(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	product, err := h.Catalog.Update(c.Request().Context(), uint(id), mwauth.Actor(c), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"title":      product.Title,
	})
	h.index(c, product)

	return success(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	if err := h.Catalog.Delete(c.Request().Context(), uint(id), mwauth.Actor(c)); err != nil {
		return serviceError(c, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	if h.Index != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Index.DeleteProduct(ctx, uint(id)); err != nil {
			c.Logger().Errorf("search index delete error: %v", err)
		}
	}

	return success(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) ToggleLike(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	liked, count, err := h.Catalog.ToggleLike(c.Request().Context(), uint(id), mwauth.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, "Like updated", map[string]any{
		"liked":      liked,
		"like_count": count,
	})
}
