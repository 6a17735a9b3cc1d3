package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/service"
	"github.com/ecofinds/marketplace/internal/util"
)

// Response is the single envelope every endpoint answers with.
type Response struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
}

func success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Response{Status: "success", Message: message, Data: data})
}

func paginated(c echo.Context, message string, data any, total int64, page, limit int) error {
	totalPages := util.TotalPages(total, limit)
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
			HasNextPage:  int64(page) < totalPages,
			HasPrevPage:  page > 1,
		},
	})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{Status: "error", Message: message})
}

// serviceError maps the business-rule error taxonomy onto HTTP codes.
// Unclassified errors surface as a generic 500.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProductGone),
		errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrSelfPurchase),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrValidation):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		return fail(c, http.StatusConflict, err.Error())
	default:
		c.Logger().Errorf("internal error: %v", err)
		return fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
