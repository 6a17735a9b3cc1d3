package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/logging"
	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
)

type OrderService struct {
	DB *gorm.DB
}

// Actor identifies who is driving an order operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) admin() bool { return a.Role == "admin" }

func (s *OrderService) Get(ctx context.Context, id uint, actor Actor) (*models.Order, error) {
	orders := &repo.OrderRepo{DB: s.DB}

	order, err := orders.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !isBuyer(order, actor) && !isSeller(order, actor) && !actor.admin() {
		return nil, fmt.Errorf("order %d: %w", id, ErrUnauthorized)
	}
	return order, nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, buyerID uint, status string, offset, limit int) (int64, []models.Order, error) {
	orders := &repo.OrderRepo{DB: s.DB}
	return orders.ListByBuyer(ctx, buyerID, status, offset, limit)
}

func (s *OrderService) ListBySeller(ctx context.Context, sellerID uint, status string, offset, limit int) (int64, []models.Order, error) {
	orders := &repo.OrderRepo{DB: s.DB}
	return orders.ListBySeller(ctx, sellerID, status, offset, limit)
}

func (s *OrderService) ListAll(ctx context.Context, actor Actor, status string, offset, limit int) (int64, []models.Order, error) {
	if !actor.admin() {
		return 0, nil, ErrUnauthorized
	}
	orders := &repo.OrderRepo{DB: s.DB}
	return orders.ListAll(ctx, status, offset, limit)
}

// StatusChange carries a requested order transition and its metadata.
type StatusChange struct {
	Status         string `json:"status"`
	CancelReason   string `json:"cancel_reason"`
	TrackingNumber string `json:"tracking_number"`
}

// UpdateStatus drives the order state machine:
//
//	pending   -> confirmed, cancelled
//	confirmed -> shipped, cancelled
//	shipped   -> delivered
//
// Forward transitions need a seller of one of the lines or an admin; the
// buyer may additionally cancel while the order is still pending. Entering
// cancelled restores every line's quantity to its product.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, actor Actor, change StatusChange) (*models.Order, error) {
	status := change.Status
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	var updated *models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := &repo.OrderRepo{DB: tx}
		products := &repo.ProductRepo{DB: tx}

		order, err := orders.Get(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		// The adjacency check comes first so a repeated cancellation
		// reports InvalidTransition rather than an authorization error.
		if !models.CanTransition(order.Status, status) {
			return fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidTransition, order.Status, status)
		}

		buyerCancel := status == models.OrderStatusCancelled &&
			order.Status == models.OrderStatusPending &&
			isBuyer(order, actor)

		if !isSeller(order, actor) && !actor.admin() && !buyerCancel {
			return fmt.Errorf("order %d: %w", id, ErrUnauthorized)
		}

		now := time.Now()
		order.Status = status

		switch status {
		case models.OrderStatusShipped:
			order.TrackingNumber = change.TrackingNumber
		case models.OrderStatusDelivered:
			order.DeliveredAt = &now
		case models.OrderStatusCancelled:
			order.CancelledAt = &now
			order.CancelReason = change.CancelReason
			for _, it := range order.Items {
				if err := products.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		if err := orders.Save(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logging.FromContext(ctx).With("svc", "order.update_status").
		Info("order status changed", "order_id", updated.ID, "status", updated.Status)
	return updated, nil
}

func isBuyer(order *models.Order, actor Actor) bool {
	return order.BuyerID == actor.UserID
}

func isSeller(order *models.Order, actor Actor) bool {
	for _, it := range order.Items {
		if it.SellerID == actor.UserID {
			return true
		}
	}
	return false
}
