package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/logging"
	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/ordernum"
	"github.com/ecofinds/marketplace/internal/repo"
)

// CheckoutService converts a cart into an order. The whole sequence —
// validate lines, write the order, take stock, clear the cart — runs in one
// database transaction, and stock is taken with a conditional decrement so
// two checkouts racing for the last unit cannot both win.
type CheckoutService struct {
	DB        *gorm.DB
	OrderNums *ordernum.Generator
}

type CheckoutRequest struct {
	ShippingAddress models.Address `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	Notes           string         `json:"notes"`
}

func (s *CheckoutService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*models.Order, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	if len(req.Notes) > 500 {
		return nil, fmt.Errorf("%w: notes cannot exceed 500 characters", ErrValidation)
	}

	var order models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := &repo.CartRepo{DB: tx}
		products := &repo.ProductRepo{DB: tx}
		orders := &repo.OrderRepo{DB: tx}

		items, err := carts.Items(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			product, err := products.Get(ctx, it.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", it.ProductID, ErrProductGone)
			}
			if err != nil {
				return err
			}
			if !product.IsAvailable {
				return fmt.Errorf("product %q: %w", product.Title, ErrUnavailable)
			}

			// The conditional decrement is the real stock check; a stale
			// read here only changes the error message.
			ok, err := products.TakeStock(ctx, product.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("product %q: %w: available %d, requested %d",
					product.Title, ErrInsufficientStock, product.Quantity, it.Quantity)
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				Price:     it.Price,
				Quantity:  it.Quantity,
				SellerID:  product.SellerID,
			})
		}

		order = models.Order{
			OrderNumber:     s.OrderNums.Next(),
			BuyerID:         userID,
			Items:           orderItems,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		order.CalculateTotals()

		if err := orders.Create(ctx, &order); err != nil {
			return err
		}

		return carts.Clear(ctx, userID)
	})
	if txErr != nil {
		return nil, txErr
	}

	logging.FromContext(ctx).With("svc", "checkout").
		Info("order created",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"buyer_id", userID,
			"total_amount", order.TotalAmount,
			"total_items", order.TotalItems,
		)
	return &order, nil
}
