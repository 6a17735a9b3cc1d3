package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/database"
	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/ordernum"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         "user",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createProduct(t *testing.T, db *gorm.DB, sellerID uint, title string, price float64, quantity uint) *models.Product {
	t.Helper()
	product := models.Product{
		Title:       title,
		Description: "test listing for " + title,
		Price:       price,
		Category:    "Electronics",
		Condition:   "Good",
		SellerID:    sellerID,
		IsAvailable: true,
		Quantity:    quantity,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func newCheckout(t *testing.T, db *gorm.DB) *CheckoutService {
	t.Helper()
	nums, err := ordernum.New(1)
	require.NoError(t, err)
	return &CheckoutService{DB: db, OrderNums: nums}
}

// fillCart puts quantity units of the product into the user's cart.
func fillCart(t *testing.T, db *gorm.DB, userID uint, product *models.Product, quantity uint) {
	t.Helper()
	cart := &CartService{DB: db}
	_, err := cart.AddLine(context.Background(), userID, product.ID, quantity)
	require.NoError(t, err)
}

func productQuantity(t *testing.T, db *gorm.DB, id uint) uint {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Quantity
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	return n
}
