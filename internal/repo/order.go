package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/models"
)

type OrderRepo struct {
	DB *gorm.DB
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *OrderRepo) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) Save(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Save(order).Error
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID uint, status string, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("buyer_id = ?", buyerID)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	return r.page(q, offset, limit)
}

// ListBySeller returns orders that contain at least one line sold by the
// given user.
func (r *OrderRepo) ListBySeller(ctx context.Context, sellerID uint, status string, offset, limit int) (int64, []models.Order, error) {
	sub := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_id").
		Where("seller_id = ?", sellerID)

	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id IN (?)", sub)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	return r.page(q, offset, limit)
}

func (r *OrderRepo) ListAll(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	return r.page(q, offset, limit)
}

func (r *OrderRepo) page(q *gorm.DB, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}
