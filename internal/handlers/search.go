package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
	"github.com/ecofinds/marketplace/internal/search"
	"github.com/ecofinds/marketplace/internal/util"
	"gorm.io/gorm"
)

// SearchHandler answers free-text product search from elasticsearch and
// hydrates the hits from the database so responses match the catalog shape.
type SearchHandler struct {
	Index *search.ProductIndex
	DB    *gorm.DB
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return fail(c, http.StatusBadRequest, "query parameter q is required")
	}
	if h.Index == nil {
		return fail(c, http.StatusServiceUnavailable, "search is not configured")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	ctx := c.Request().Context()
	total, ids, err := h.Index.Search(ctx, q, from, limit)
	if err != nil {
		return serviceError(c, err)
	}

	products := &repo.ProductRepo{DB: h.DB}
	items, err := products.ListByIDs(ctx, ids)
	if err != nil {
		return serviceError(c, err)
	}

	return paginated(c, "Search results retrieved successfully", rankByID(items, ids), total, page, limit)
}

// rankByID restores the index's relevance order, which the IN query
// hydration discards. Ids with no matching row are skipped.
func rankByID(items []models.Product, ids []uint) []models.Product {
	byID := make(map[uint]models.Product, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	ranked := make([]models.Product, 0, len(items))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ranked = append(ranked, p)
		}
	}
	return ranked
}
