package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserIsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{name: "No lock set", user: User{}, expected: false},
		{name: "Lock in the future", user: User{LockedUntil: &future}, expected: true},
		{name: "Lock expired", user: User{LockedUntil: &past}, expected: false},
		{
			name:     "Suspended but lock expired",
			user:     User{Status: UserSuspended, LockedUntil: &past},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.IsLocked(now))
		})
	}
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{name: "Pending to confirmed", from: OrderPending, to: OrderConfirmed, allowed: true},
		{name: "Pending to cancelled", from: OrderPending, to: OrderCancelled, allowed: true},
		{name: "Pending to shipped", from: OrderPending, to: OrderShipped, allowed: false},
		{name: "Confirmed to processing", from: OrderConfirmed, to: OrderProcessing, allowed: true},
		{name: "Confirmed to cancelled", from: OrderConfirmed, to: OrderCancelled, allowed: true},
		{name: "Processing to shipped", from: OrderProcessing, to: OrderShipped, allowed: true},
		{name: "Processing to cancelled", from: OrderProcessing, to: OrderCancelled, allowed: false},
		{name: "Shipped to delivered", from: OrderShipped, to: OrderDelivered, allowed: true},
		{name: "Delivered to refunded", from: OrderDelivered, to: OrderRefunded, allowed: true},
		{name: "Cancelled is terminal", from: OrderCancelled, to: OrderPending, allowed: false},
		{name: "Refunded is terminal", from: OrderRefunded, to: OrderPending, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderRecalculateTotals(t *testing.T) {
	order := Order{
		Tax:      150,
		Shipping: 300,
		Discount: 0,
		Items: []OrderItem{
			{ProductID: 1, UnitPrice: 1000, Quantity: 2},
			{ProductID: 2, UnitPrice: 500, Quantity: 1},
		},
	}

	order.RecalculateTotals()

	assert.Equal(t, Amount(2500), order.Subtotal)
	assert.Equal(t, Amount(2950), order.Total)
	assert.Equal(t, "25.00", order.Subtotal.String())
	assert.Equal(t, "29.50", order.Total.String())
}

func TestOrderRecalculateTotalsAfterItemChange(t *testing.T) {
	order := Order{
		Items: []OrderItem{{ProductID: 1, UnitPrice: 1000, Quantity: 2}},
	}
	order.RecalculateTotals()
	assert.Equal(t, Amount(2000), order.Subtotal)

	order.Items = append(order.Items, OrderItem{ProductID: 2, UnitPrice: 250, Quantity: 4})
	order.RecalculateTotals()
	assert.Equal(t, Amount(3000), order.Subtotal)
	assert.Equal(t, Amount(3000), order.Total)

	order.Items = order.Items[:1]
	order.RecalculateTotals()
	assert.Equal(t, Amount(2000), order.Subtotal)
}

func TestOrderGuards(t *testing.T) {
	tests := []struct {
		name      string
		order     Order
		cancel    bool
		refund    bool
		editItems bool
	}{
		{
			name:      "Pending order",
			order:     Order{Status: OrderPending, PaymentStatus: PaymentPending},
			cancel:    true,
			refund:    false,
			editItems: true,
		},
		{
			name:      "Confirmed order",
			order:     Order{Status: OrderConfirmed, PaymentStatus: PaymentPending},
			cancel:    true,
			refund:    false,
			editItems: true,
		},
		{
			name:      "Shipped and paid",
			order:     Order{Status: OrderShipped, PaymentStatus: PaymentPaid},
			cancel:    false,
			refund:    true,
			editItems: false,
		},
		{
			name:      "Delivered and paid",
			order:     Order{Status: OrderDelivered, PaymentStatus: PaymentPaid},
			cancel:    false,
			refund:    true,
			editItems: false,
		},
		{
			name:      "Delivered but unpaid",
			order:     Order{Status: OrderDelivered, PaymentStatus: PaymentPending},
			cancel:    false,
			refund:    false,
			editItems: false,
		},
		{
			name:      "Cancelled order",
			order:     Order{Status: OrderCancelled, PaymentStatus: PaymentPaid},
			cancel:    false,
			refund:    false,
			editItems: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cancel, tt.order.CanBeCancelled())
			assert.Equal(t, tt.refund, tt.order.CanBeRefunded())
			assert.Equal(t, tt.editItems, tt.order.ItemsEditable())
		})
	}
}
