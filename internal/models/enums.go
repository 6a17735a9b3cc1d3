package models

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Furniture",
	"Sports",
	"Toys",
	"Vehicles",
	"Home & Garden",
	"Health & Beauty",
	"Others",
}

var Conditions = []string{"New", "Like New", "Good", "Fair", "Poor"}

var PaymentMethods = []string{"cash", "card", "paypal", "stripe", "other"}

// statusTransitions is the full adjacency table of the order lifecycle.
// delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func CanTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidCategory(c string) bool  { return contains(Categories, c) }
func ValidCondition(c string) bool { return contains(Conditions, c) }

func ValidOrderStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}
func ValidPaymentMethod(m string) bool { return contains(PaymentMethods, m) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
