package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/models"
)

type ProductRepo struct {
	DB *gorm.DB
}

// ProductFilter is the availability-query filter set. Zero values mean
// "no constraint".
type ProductFilter struct {
	Category      string
	Condition     string
	MinPrice      *float64
	MaxPrice      *float64
	Search        string
	SortBy        string
	ExcludeSeller uint
	SellerID      uint
	OnlyAvailable bool
	OnlyFeatured  bool
}

var sortColumns = map[string]string{
	"newest":     "created_at DESC",
	"oldest":     "created_at ASC",
	"price-low":  "price ASC",
	"price-high": "price DESC",
	"popular":    "views DESC",
}

func (r *ProductRepo) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	if f.OnlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if f.ExcludeSeller != 0 {
		q = q.Where("seller_id <> ?", f.ExcludeSeller)
	}
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Condition != "" && f.Condition != "all" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("(title LIKE ? OR description LIKE ? OR tags LIKE ?)", like, like, like)
	}
	if f.OnlyFeatured {
		q = q.Where("is_featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	order, ok := sortColumns[f.SortBy]
	if !ok {
		order = sortColumns["newest"]
	}

	var items []models.Product
	if err := q.Preload("Images").Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *ProductRepo) Create(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *ProductRepo) Save(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductRepo) IncrementViews(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

// TakeStock atomically decrements stock, guarded so the quantity can never
// go negative. Returns false when the product has fewer than qty units left,
// which is how concurrent checkouts of the same unit are decided.
func (r *ProductRepo) TakeStock(ctx context.Context, id uint, qty uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RestoreStock is the compensating increment used by order cancellation.
func (r *ProductRepo) RestoreStock(ctx context.Context, id uint, qty uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error
}

// ToggleLike flips the caller's like on a product and reports the resulting
// state plus the new like count.
func (r *ProductRepo) ToggleLike(ctx context.Context, productID, userID uint) (bool, int64, error) {
	var liked bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("product_id = ? AND user_id = ?", productID, userID).
			Delete(&models.ProductLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.ProductLike{ProductID: productID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.ProductLike{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *ProductRepo) ListByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
