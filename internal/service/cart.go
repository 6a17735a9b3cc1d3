package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
)

type CartService struct {
	DB *gorm.DB
}

// CartView is a cart with its lines resolved against live products plus
// the derived totals.
type CartView struct {
	Items       []CartLine `json:"items"`
	TotalItems  uint       `json:"total_items"`
	TotalAmount float64    `json:"total_amount"`
}

type CartLine struct {
	models.CartItem
	Product *models.Product `json:"product,omitempty"`
}

// GetCart returns the user's cart, pruning lines whose product is missing
// or no longer available. The pruned result is persisted.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	carts := &repo.CartRepo{DB: s.DB}
	products := &repo.ProductRepo{DB: s.DB}

	items, err := carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	prods, err := products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(prods))
	for i := range prods {
		byID[prods[i].ID] = &prods[i]
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsAvailable {
			if err := carts.Remove(ctx, userID, it.ProductID); err != nil {
				return nil, err
			}
			continue
		}
		view.Items = append(view.Items, CartLine{CartItem: it, Product: p})
	}
	view.recalc()
	return view, nil
}

// AddLine inserts a line or increments an existing one, capturing the
// product's current price on insert.
func (s *CartService) AddLine(ctx context.Context, userID, productID uint, quantity uint) (*CartView, error) {
	if quantity < 1 {
		quantity = 1
	}

	carts := &repo.CartRepo{DB: s.DB}
	products := &repo.ProductRepo{DB: s.DB}

	product, err := products.Get(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("product %q: %w", product.Title, ErrUnavailable)
	}
	if product.SellerID == userID {
		return nil, fmt.Errorf("product %q: %w", product.Title, ErrSelfPurchase)
	}

	existing, err := carts.Item(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.Quantity {
		return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, product.Quantity, requested)
	}

	if existing != nil {
		existing.Quantity = requested
		if err := carts.Save(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		item := models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		}
		if err := carts.Create(ctx, &item); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, userID)
}

// UpdateLine overwrites a line's quantity after checking live stock. The
// price captured at add time stays as is.
func (s *CartService) UpdateLine(ctx context.Context, userID, productID uint, quantity uint) (*CartView, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidQuantity)
	}

	carts := &repo.CartRepo{DB: s.DB}
	products := &repo.ProductRepo{DB: s.DB}

	product, err := products.Get(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, product.Quantity, quantity)
	}

	item, err := carts.Item(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
	}

	item.Quantity = quantity
	if err := carts.Save(ctx, item); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// RemoveLine deletes a line. Removing an absent line succeeds.
func (s *CartService) RemoveLine(ctx context.Context, userID, productID uint) (*CartView, error) {
	carts := &repo.CartRepo{DB: s.DB}
	if err := carts.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	carts := &repo.CartRepo{DB: s.DB}
	return carts.Clear(ctx, userID)
}

func (v *CartView) recalc() {
	var count uint
	var amount float64
	for _, line := range v.Items {
		count += line.Quantity
		amount += line.Price * float64(line.Quantity)
	}
	v.TotalItems = count
	v.TotalAmount = amount
}
