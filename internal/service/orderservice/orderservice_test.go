package orderservice

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkozyr/gomarket/internal/cache"
	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/notify"
	orderrepo "github.com/dkozyr/gomarket/internal/repo/order-repo"
)

type mocks struct {
	orderRepo *MockOrderRepo
	userRepo  *MockUserRepo
	cache     *cache.MockCache
	notifier  *notify.MockNotifier
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		orderRepo: NewMockOrderRepo(ctrl),
		userRepo:  NewMockUserRepo(ctrl),
		cache:     cache.NewMockCache(ctrl),
		notifier:  notify.NewMockNotifier(ctrl),
	}
	service := New(m.orderRepo, m.userRepo, m.cache, m.notifier)
	defer ctrl.Finish()
	return service, m
}

func pendingOrder() *domain.Order {
	order := &domain.Order{
		ID:             10,
		UserID:         1,
		OrderNumber:    "ORD-1700000000000-AB12CD34",
		Status:         domain.OrderPending,
		PaymentStatus:  domain.PaymentPending,
		ShippingStatus: domain.ShippingPending,
		Currency:       "USD",
		Tax:            domain.Amount(150),
		Shipping:       domain.Amount(300),
		Items: []domain.OrderItem{
			{ID: 1, OrderID: 10, ProductID: 100, ProductName: "Widget", UnitPrice: domain.Amount(1000), Quantity: 2},
			{ID: 2, OrderID: 10, ProductID: 101, ProductName: "Gadget", UnitPrice: domain.Amount(500), Quantity: 1},
		},
		Version: 1,
	}
	order.RecalculateTotals()
	return order
}

func owner() *domain.User {
	return &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[0-9A-F]{8}$`)

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success derives totals and seeds history", func(t *testing.T) {
		service, m := NewMock(t)

		m.orderRepo.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, order *domain.Order) error {
				order.ID = 10
				return nil
			})

		order, err := service.Create(ctx, 1, NewOrder{
			Items: []NewItem{
				{ProductID: 100, ProductName: "Widget", UnitPrice: domain.Amount(1000), Quantity: 2},
				{ProductID: 101, ProductName: "Gadget", UnitPrice: domain.Amount(500), Quantity: 1},
			},
			Tax:      domain.Amount(150),
			Shipping: domain.Amount(300),
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.Amount(2500), order.Subtotal)
		assert.Equal(t, domain.Amount(2950), order.Total)
		assert.Equal(t, domain.OrderPending, order.Status)
		assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
		assert.Equal(t, "USD", order.Currency)
		assert.Regexp(t, orderNumberPattern, order.OrderNumber)
		if assert.Len(t, order.History, 1) {
			assert.Equal(t, string(domain.OrderPending), order.History[0].ToStatus)
		}
	})

	t.Run("discount reduces the total", func(t *testing.T) {
		service, m := NewMock(t)

		m.orderRepo.EXPECT().Save(ctx, gomock.Any()).Return(nil)

		order, err := service.Create(ctx, 1, NewOrder{
			Items:    []NewItem{{ProductID: 100, ProductName: "Widget", UnitPrice: domain.Amount(1000), Quantity: 1}},
			Discount: domain.Amount(250),
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.Amount(750), order.Total)
	})

	t.Run("number collision is retried with a fresh number", func(t *testing.T) {
		service, m := NewMock(t)

		var numbers []string
		gomock.InOrder(
			m.orderRepo.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
				func(ctx context.Context, order *domain.Order) error {
					numbers = append(numbers, order.OrderNumber)
					return orderrepo.ErrOrderNumberTaken
				}),
			m.orderRepo.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
				func(ctx context.Context, order *domain.Order) error {
					numbers = append(numbers, order.OrderNumber)
					return nil
				}),
		)

		_, err := service.Create(ctx, 1, NewOrder{
			Items: []NewItem{{ProductID: 100, ProductName: "Widget", UnitPrice: domain.Amount(1000), Quantity: 1}},
		})
		assert.NoError(t, err)
		assert.Len(t, numbers, 2)
		assert.NotEqual(t, numbers[0], numbers[1])
	})

	t.Run("invalid input", func(t *testing.T) {
		service, _ := NewMock(t)

		tests := []struct {
			name string
			req  NewOrder
		}{
			{"no items", NewOrder{}},
			{"zero quantity", NewOrder{Items: []NewItem{{ProductName: "Widget", UnitPrice: 100, Quantity: 0}}}},
			{"negative price", NewOrder{Items: []NewItem{{ProductName: "Widget", UnitPrice: -100, Quantity: 1}}}},
			{"nameless product", NewOrder{Items: []NewItem{{UnitPrice: 100, Quantity: 1}}}},
			{"negative tax", NewOrder{
				Items: []NewItem{{ProductName: "Widget", UnitPrice: 100, Quantity: 1}},
				Tax:   domain.Amount(-1),
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Create(ctx, 1, tt.req)
				assert.ErrorIs(t, err, domain.ErrValidation)
			})
		}
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss populates cache", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.cache.EXPECT().Get(cache.KindOrder, 10).Return(nil, false)
		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.cache.EXPECT().Put(cache.KindOrder, 10, gomock.Any(), cache.KindOrder.TTL())

		got, err := service.GetOrder(ctx, 1, 10, false)
		assert.NoError(t, err)
		assert.Equal(t, order, got)
	})

	t.Run("another user's order reads as not found", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.cache.EXPECT().Get(cache.KindOrder, 10).Return(nil, false)
		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.cache.EXPECT().Put(cache.KindOrder, 10, gomock.Any(), cache.KindOrder.TTL())

		_, err := service.GetOrder(ctx, 2, 10, false)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.cache.EXPECT().Get(cache.KindOrder, 10).Return(nil, false)
		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.cache.EXPECT().Put(cache.KindOrder, 10, gomock.Any(), cache.KindOrder.TTL())

		got, err := service.GetOrder(ctx, 2, 10, true)
		assert.NoError(t, err)
		assert.Equal(t, order, got)
	})

	t.Run("unknown order", func(t *testing.T) {
		service, m := NewMock(t)

		m.cache.EXPECT().Get(cache.KindOrder, 99).Return(nil, false)
		m.orderRepo.EXPECT().FindByID(ctx, 99).Return(nil, nil)

		_, err := service.GetOrder(ctx, 1, 99, false)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm notifies the customer", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(owner(), nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any(), notify.KindOrderConfirmed, gomock.Any())

		updated, err := service.UpdateStatus(ctx, 10, domain.OrderConfirmed, "admin", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderConfirmed, updated.Status)
		last := updated.History[len(updated.History)-1]
		assert.Equal(t, string(domain.OrderPending), last.FromStatus)
		assert.Equal(t, string(domain.OrderConfirmed), last.ToStatus)
		assert.Equal(t, "admin", last.Actor)
	})

	t.Run("shipping moves the shipping axis", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.Status = domain.OrderProcessing
		order.ShippingStatus = domain.ShippingProcessing

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(owner(), nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any(), notify.KindOrderShipped, gomock.Any())

		updated, err := service.UpdateStatus(ctx, 10, domain.OrderShipped, "warehouse", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.ShippingShipped, updated.ShippingStatus)
	})

	t.Run("delivery moves the shipping axis without notifying", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.Status = domain.OrderShipped
		order.ShippingStatus = domain.ShippingShipped

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.UpdateStatus(ctx, 10, domain.OrderDelivered, "carrier", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.ShippingDelivered, updated.ShippingStatus)
	})

	t.Run("refunded is not reachable as a status change", func(t *testing.T) {
		tests := []struct {
			name          string
			paymentStatus domain.PaymentStatus
		}{
			{"unpaid delivered order", domain.PaymentPending},
			{"paid delivered order", domain.PaymentPaid},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, m := NewMock(t)
				order := pendingOrder()
				order.Status = domain.OrderDelivered
				order.ShippingStatus = domain.ShippingDelivered
				order.PaymentStatus = tt.paymentStatus

				m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

				_, err := service.UpdateStatus(ctx, 10, domain.OrderRefunded, "admin", "")
				assert.ErrorIs(t, err, ErrRefundViaStatus)
				assert.Equal(t, tt.paymentStatus, order.PaymentStatus)
				assert.Equal(t, domain.Amount(0), order.RefundAmount)
			})
		}
	})

	t.Run("illegal edges are rejected", func(t *testing.T) {
		tests := []struct {
			name string
			from domain.OrderStatus
			to   domain.OrderStatus
		}{
			{"pending can't ship", domain.OrderPending, domain.OrderShipped},
			{"processing can't cancel", domain.OrderProcessing, domain.OrderCancelled},
			{"cancelled is terminal", domain.OrderCancelled, domain.OrderConfirmed},
			{"refunded is terminal", domain.OrderRefunded, domain.OrderPending},
			{"no backwards moves", domain.OrderShipped, domain.OrderProcessing},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, m := NewMock(t)
				order := pendingOrder()
				order.Status = tt.from

				m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

				_, err := service.UpdateStatus(ctx, 10, tt.to, "admin", "")
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			})
		}
	})

	t.Run("notification failure does not fail the transition", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(nil, nil)

		_, err := service.UpdateStatus(ctx, 10, domain.OrderConfirmed, "admin", "")
		assert.NoError(t, err)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("pending order cancels", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(owner(), nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any(), notify.KindOrderCancelled, gomock.Any())

		updated, err := service.Cancel(ctx, 1, 10, "changed my mind")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderCancelled, updated.Status)
		last := updated.History[len(updated.History)-1]
		assert.Equal(t, "changed my mind", last.Note)
	})

	t.Run("processing order can no longer cancel", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.Status = domain.OrderProcessing

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

		_, err := service.Cancel(ctx, 1, 10, "")
		assert.ErrorIs(t, err, ErrNotCancellable)
	})

	t.Run("another user's order reads as not found", func(t *testing.T) {
		service, m := NewMock(t)

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(pendingOrder(), nil)

		_, err := service.Cancel(ctx, 2, 10, "")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	deliveredPaid := func() *domain.Order {
		order := pendingOrder()
		order.Status = domain.OrderDelivered
		order.PaymentStatus = domain.PaymentPaid
		order.ShippingStatus = domain.ShippingDelivered
		return order
	}

	t.Run("full refund closes the order", func(t *testing.T) {
		service, m := NewMock(t)
		order := deliveredPaid()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(owner(), nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any(), notify.KindOrderRefunded, gomock.Any())

		updated, err := service.Refund(ctx, 10, order.Total, "damaged in transit", "support")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, updated.PaymentStatus)
		assert.Equal(t, domain.OrderRefunded, updated.Status)
		assert.Equal(t, updated.Total, updated.RefundAmount)
		assert.Equal(t, "damaged in transit", updated.RefundReason)
	})

	t.Run("partial refund keeps the order open", func(t *testing.T) {
		service, m := NewMock(t)
		order := deliveredPaid()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(owner(), nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any(), notify.KindOrderRefunded, gomock.Any())

		updated, err := service.Refund(ctx, 10, domain.Amount(500), "one item missing", "support")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentPartiallyRefunded, updated.PaymentStatus)
		assert.Equal(t, domain.OrderDelivered, updated.Status)
		assert.Equal(t, domain.Amount(500), updated.RefundAmount)
	})

	t.Run("second partial refund completing the total closes it", func(t *testing.T) {
		service, m := NewMock(t)
		order := deliveredPaid()
		order.RefundAmount = order.Total - domain.Amount(500)
		order.PaymentStatus = domain.PaymentPaid

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)
		m.userRepo.EXPECT().FindByID(ctx, 1).Return(owner(), nil)
		m.notifier.EXPECT().Notify(ctx, gomock.Any(), notify.KindOrderRefunded, gomock.Any())

		updated, err := service.Refund(ctx, 10, domain.Amount(500), "remainder", "support")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentRefunded, updated.PaymentStatus)
	})

	t.Run("refund above the total is rejected", func(t *testing.T) {
		service, m := NewMock(t)
		order := deliveredPaid()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

		_, err := service.Refund(ctx, 10, order.Total+1, "", "support")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unpaid order is not refundable", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.Status = domain.OrderDelivered

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

		_, err := service.Refund(ctx, 10, domain.Amount(500), "", "support")
		assert.ErrorIs(t, err, ErrNotRefundable)
	})

	t.Run("non positive amount is rejected", func(t *testing.T) {
		service, _ := NewMock(t)

		_, err := service.Refund(ctx, 10, 0, "", "support")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("pending payment settles", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.MarkPaid(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	})

	t.Run("failed payment may be retried", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.PaymentStatus = domain.PaymentFailed

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.MarkPaid(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	})

	t.Run("settled payment is rejected", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.PaymentStatus = domain.PaymentPaid

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

		_, err := service.MarkPaid(ctx, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestUpdateShipping(t *testing.T) {
	ctx := context.Background()

	t.Run("sets tracking number", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.UpdateShipping(ctx, 10, domain.ShippingProcessing, "TRK-123")
		assert.NoError(t, err)
		assert.Equal(t, domain.ShippingProcessing, updated.ShippingStatus)
		assert.Equal(t, "TRK-123", updated.TrackingNumber)
	})

	t.Run("empty tracking number keeps the old one", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.TrackingNumber = "TRK-123"

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.UpdateShipping(ctx, 10, domain.ShippingLost, "")
		assert.NoError(t, err)
		assert.Equal(t, "TRK-123", updated.TrackingNumber)
	})
}

func TestItems(t *testing.T) {
	ctx := context.Background()

	t.Run("adding an item rederives totals", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.AddItem(ctx, 10, NewItem{
			ProductID: 102, ProductName: "Gizmo", UnitPrice: domain.Amount(2000), Quantity: 1,
		})
		assert.NoError(t, err)
		assert.Len(t, updated.Items, 3)
		assert.Equal(t, domain.Amount(4500), updated.Subtotal)
		assert.Equal(t, domain.Amount(4950), updated.Total)
	})

	t.Run("removing an item rederives totals", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)
		m.orderRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		m.cache.EXPECT().Evict(cache.KindOrder, 10)

		updated, err := service.RemoveItem(ctx, 10, 2)
		assert.NoError(t, err)
		assert.Len(t, updated.Items, 1)
		assert.Equal(t, domain.Amount(2000), updated.Subtotal)
		assert.Equal(t, domain.Amount(2450), updated.Total)
	})

	t.Run("last item can't be removed", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.Items = order.Items[:1]

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

		_, err := service.RemoveItem(ctx, 10, 1)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("unknown item", func(t *testing.T) {
		service, m := NewMock(t)

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(pendingOrder(), nil)

		_, err := service.RemoveItem(ctx, 10, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("items lock once processing starts", func(t *testing.T) {
		service, m := NewMock(t)
		order := pendingOrder()
		order.Status = domain.OrderProcessing

		m.orderRepo.EXPECT().FindByID(ctx, 10).Return(order, nil)

		_, err := service.AddItem(ctx, 10, NewItem{
			ProductID: 102, ProductName: "Gizmo", UnitPrice: domain.Amount(2000), Quantity: 1,
		})
		assert.ErrorIs(t, err, ErrItemsLocked)
	})
}

func TestGetOrders(t *testing.T) {
	ctx := context.Background()

	service, m := NewMock(t)
	orders := []domain.Order{*pendingOrder()}

	m.orderRepo.EXPECT().FindByUserID(ctx, 1).Return(orders, nil)

	got, err := service.GetOrders(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, orders, got)
}
