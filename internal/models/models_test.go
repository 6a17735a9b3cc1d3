package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusShipped},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tc := range allowed {
		require.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusConfirmed, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusConfirmed},
		{OrderStatusConfirmed, OrderStatusPending},
		{"bogus", OrderStatusConfirmed},
		{OrderStatusPending, "bogus"},
	}
	for _, tc := range denied {
		require.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	// No status may transition to itself.
	for s := range statusTransitions {
		require.False(t, CanTransition(s, s), "%s -> %s", s, s)
	}
}

func TestValidators(t *testing.T) {
	require.True(t, ValidCategory("Electronics"))
	require.True(t, ValidCategory("Home & Garden"))
	require.False(t, ValidCategory("electronics"))

	require.True(t, ValidCondition("Like New"))
	require.False(t, ValidCondition("Used"))

	require.True(t, ValidOrderStatus("shipped"))
	require.False(t, ValidOrderStatus("returned"))

	require.True(t, ValidPaymentMethod("cash"))
	require.False(t, ValidPaymentMethod("barter"))
}

func TestOrderCalculateTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Price: 10.00, Quantity: 2},
			{Price: 25.50, Quantity: 1},
		},
	}
	order.CalculateTotals()
	require.Equal(t, 45.50, order.TotalAmount)
	require.Equal(t, uint(3), order.TotalItems)

	empty := Order{}
	empty.CalculateTotals()
	require.Equal(t, 0.0, empty.TotalAmount)
	require.Equal(t, uint(0), empty.TotalItems)
}
