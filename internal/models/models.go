package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"unique;not null"     json:"token"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `gorm:"default:USA" json:"country"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"       json:"id"`
	Title       string         `gorm:"not null;size:100"              json:"title"`
	Description string         `gorm:"not null;size:1000"             json:"description"`
	Price       float64        `gorm:"not null;check:price >= 0"      json:"price"`
	Category    string         `gorm:"not null;index"                 json:"category"`
	Condition   string         `gorm:"not null;default:Good"          json:"condition"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	SellerID    uint           `gorm:"index;not null"                 json:"seller_id"`
	IsAvailable bool           `gorm:"default:true;index"             json:"is_available"`
	Quantity    uint           `gorm:"default:1"                      json:"quantity"`
	Tags        StringList     `gorm:"serializer:json"                json:"tags"`
	Location    Location       `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Views       uint           `gorm:"default:0"                      json:"views"`
	IsFeatured  bool           `gorm:"default:false"                  json:"is_featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type StringList []string

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"size:1024"      json:"url"`
	Alt       string `json:"alt"`
}

// ProductLike is one row per (product, user) pair, so a user can like a
// product at most once.
type ProductLike struct {
	ID        uint `gorm:"primaryKey"                            json:"id"`
	ProductID uint `gorm:"uniqueIndex:idx_product_like;not null" json:"product_id"`
	UserID    uint `gorm:"uniqueIndex:idx_product_like;not null" json:"user_id"`
}

// CartItem is one line of a user's cart. Price is captured at add-time and
// is not re-read from the product afterwards; checkout charges this price.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                         json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_line;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_line;not null" json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity > 0"       json:"quantity"`
	Price     float64   `gorm:"not null"                           json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement"        json:"id"`
	OrderNumber     string      `gorm:"unique;not null"                 json:"order_number"`
	BuyerID         uint        `gorm:"index;not null"                  json:"buyer_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64     `gorm:"not null"                        json:"total_amount"`
	TotalItems      uint        `gorm:"not null"                        json:"total_items"`
	Status          string      `gorm:"not null;default:pending;index"  json:"status"`
	PaymentStatus   string      `gorm:"not null;default:pending"        json:"payment_status"`
	PaymentMethod   string      `gorm:"not null;default:cash"           json:"payment_method"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes           string      `gorm:"size:500"                        json:"notes"`
	TrackingNumber  string      `json:"tracking_number"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	CancelReason    string      `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
// Title and Price are copied from the product so later product edits do not
// change the order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	Title     string  `gorm:"not null"       json:"title"`
	Price     float64 `gorm:"not null"       json:"price"`
	Quantity  uint    `gorm:"not null"       json:"quantity"`
	SellerID  uint    `gorm:"index;not null" json:"seller_id"`
}

// CalculateTotals recomputes TotalAmount and TotalItems from the order's
// lines. Totals are never trusted from the client.
func (o *Order) CalculateTotals() {
	var amount float64
	var count uint
	for _, it := range o.Items {
		amount += it.Price * float64(it.Quantity)
		count += it.Quantity
	}
	o.TotalAmount = amount
	o.TotalItems = count
}
