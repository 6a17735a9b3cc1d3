package service

import "errors"

// Sentinel errors for the marketplace business rules. Services wrap these
// with %w plus context; the handler layer maps them to HTTP codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("product unavailable")
	ErrSelfPurchase      = errors.New("own product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProductGone       = errors.New("product gone")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation")
	ErrConflict          = errors.New("conflict")
)
