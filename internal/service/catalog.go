package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
)

type CatalogService struct {
	DB *gorm.DB
}

type ProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       *float64        `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Quantity    *uint           `json:"quantity"`
	Tags        string          `json:"tags"`
	Location    models.Location `json:"location"`
	ImageURLs   []string        `json:"image_urls"`
	IsAvailable *bool           `json:"is_available"`
	IsFeatured  *bool           `json:"is_featured"`
}

func (s *CatalogService) Create(ctx context.Context, sellerID uint, in ProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if in.Price == nil || *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}
	if !models.ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if in.Condition == "" {
		in.Condition = "Good"
	}
	if !models.ValidCondition(in.Condition) {
		return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, in.Condition)
	}

	quantity := uint(1)
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	product := models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       *in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		SellerID:    sellerID,
		IsAvailable: true,
		Quantity:    quantity,
		Tags:        splitTags(in.Tags),
		Location:    in.Location,
		Images:      buildImages(in.ImageURLs, in.Title),
	}

	products := &repo.ProductRepo{DB: s.DB}
	if err := products.Create(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Get loads a product and bumps its view counter unless the viewer owns it.
func (s *CatalogService) Get(ctx context.Context, id uint, viewerID uint) (*models.Product, error) {
	products := &repo.ProductRepo{DB: s.DB}

	product, err := products.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if viewerID == 0 || viewerID != product.SellerID {
		if err := products.IncrementViews(ctx, id); err != nil {
			return nil, err
		}
		product.Views++
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	products := &repo.ProductRepo{DB: s.DB}
	return products.List(ctx, f, offset, limit)
}

// Update mutates a listing; only the owner or an admin may do so.
func (s *CatalogService) Update(ctx context.Context, id uint, actor Actor, in ProductInput) (*models.Product, error) {
	products := &repo.ProductRepo{DB: s.DB}

	product, err := products.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if product.SellerID != actor.UserID && !actor.admin() {
		return nil, fmt.Errorf("product %d: %w", id, ErrUnauthorized)
	}

	if t := strings.TrimSpace(in.Title); t != "" {
		product.Title = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		product.Description = d
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
		}
		product.Price = *in.Price
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
		}
		product.Category = in.Category
	}
	if in.Condition != "" {
		if !models.ValidCondition(in.Condition) {
			return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, in.Condition)
		}
		product.Condition = in.Condition
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}
	if in.Tags != "" {
		product.Tags = splitTags(in.Tags)
	}
	if in.Location.City != "" || in.Location.State != "" || in.Location.Country != "" {
		product.Location = in.Location
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	// Featuring a listing is an admin call, not the seller's.
	if in.IsFeatured != nil && actor.admin() {
		product.IsFeatured = *in.IsFeatured
	}

	if err := products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint, actor Actor) error {
	products := &repo.ProductRepo{DB: s.DB}

	product, err := products.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if product.SellerID != actor.UserID && !actor.admin() {
		return fmt.Errorf("product %d: %w", id, ErrUnauthorized)
	}

	return products.Delete(ctx, id)
}

func (s *CatalogService) ToggleLike(ctx context.Context, id, userID uint) (bool, int64, error) {
	products := &repo.ProductRepo{DB: s.DB}

	if _, err := products.Get(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return false, 0, err
	}
	return products.ToggleLike(ctx, id, userID)
}

func splitTags(raw string) models.StringList {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make(models.StringList, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func buildImages(urls []string, alt string) []models.ProductImage {
	const maxImages = 5
	images := make([]models.ProductImage, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		images = append(images, models.ProductImage{URL: u, Alt: alt})
		if len(images) == maxImages {
			break
		}
	}
	return images
}
