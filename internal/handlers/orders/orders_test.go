package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/dto"
	"github.com/dkozyr/gomarket/internal/service/orderservice"
	pkgauth "github.com/dkozyr/gomarket/pkg/auth"
)

func NewMock(t *testing.T) (*OrderHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func withUser(req *http.Request, userID int) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), pkgauth.UserIDKey, userID))
}

func asAdmin(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), pkgauth.UserIDKey, 99)
	ctx = context.WithValue(ctx, pkgauth.RoleKey, string(domain.RoleAdmin))
	return req.WithContext(ctx)
}

func withRouteParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func pendingOrder() *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:             10,
		UserID:         1,
		OrderNumber:    "ORD-1700000000000-AB12CD34",
		Status:         domain.OrderPending,
		PaymentStatus:  domain.PaymentPending,
		ShippingStatus: domain.ShippingPending,
		Currency:       "USD",
		Subtotal:       domain.Amount(2500),
		Tax:            domain.Amount(150),
		Shipping:       domain.Amount(300),
		Total:          domain.Amount(2950),
		Items: []domain.OrderItem{
			{ID: 1, ProductID: 100, ProductName: "Widget", UnitPrice: domain.Amount(1000), Quantity: 2},
			{ID: 2, ProductID: 101, ProductName: "Gadget", UnitPrice: domain.Amount(500), Quantity: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateOrderHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Creates order and converts amounts", func(t *testing.T) {
		service.EXPECT().
			Create(gomock.Any(), 1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int, req orderservice.NewOrder) (*domain.Order, error) {
				assert.Equal(t, domain.Amount(150), req.Tax)
				assert.Equal(t, domain.Amount(300), req.Shipping)
				assert.Len(t, req.Items, 2)
				assert.Equal(t, domain.Amount(1000), req.Items[0].UnitPrice)
				assert.Equal(t, 2, req.Items[0].Quantity)
				return pendingOrder(), nil
			})

		body := `{
			"items": [
				{"product_id":100,"product_name":"Widget","unit_price":10.00,"quantity":2},
				{"product_id":101,"product_name":"Gadget","unit_price":5.00,"quantity":1}
			],
			"tax": 1.50,
			"shipping": 3.00
		}`
		req := withUser(httptest.NewRequest("POST", "/api/orders", bytes.NewReader([]byte(body))), 1)
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, 29.50, resp.Total)
		assert.Len(t, resp.Items, 2)
	})

	t.Run("Empty order", func(t *testing.T) {
		service.EXPECT().Create(gomock.Any(), 1, gomock.Any()).
			Return(nil, orderservice.ErrEmptyOrder)

		req := withUser(httptest.NewRequest("POST", "/api/orders", bytes.NewReader([]byte(`{"items":[]}`))), 1)
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Invalid request body", func(t *testing.T) {
		req := withUser(httptest.NewRequest("POST", "/api/orders", bytes.NewReader([]byte(`{invalid`))), 1)
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Missing authentication", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader([]byte(`{}`)))
		rr := httptest.NewRecorder()
		handler.CreateOrder(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetOrdersHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Returns orders", func(t *testing.T) {
		service.EXPECT().GetOrders(gomock.Any(), 1).Return([]domain.Order{*pendingOrder()}, nil)

		req := withUser(httptest.NewRequest("GET", "/api/orders", nil), 1)
		rr := httptest.NewRecorder()
		handler.GetOrders(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp, 1)
		assert.Equal(t, "ORD-1700000000000-AB12CD34", resp[0].OrderNumber)
	})

	t.Run("No orders yet", func(t *testing.T) {
		service.EXPECT().GetOrders(gomock.Any(), 1).Return(nil, nil)

		req := withUser(httptest.NewRequest("GET", "/api/orders", nil), 1)
		rr := httptest.NewRecorder()
		handler.GetOrders(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Owner reads own order", func(t *testing.T) {
		service.EXPECT().GetOrder(gomock.Any(), 1, 10, false).Return(pendingOrder(), nil)

		req := withRouteParams(withUser(httptest.NewRequest("GET", "/api/orders/10", nil), 1), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.GetOrder(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Admin reads any order", func(t *testing.T) {
		service.EXPECT().GetOrder(gomock.Any(), 99, 10, true).Return(pendingOrder(), nil)

		req := withRouteParams(asAdmin(httptest.NewRequest("GET", "/api/orders/10", nil)), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.GetOrder(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Someone else's order looks absent", func(t *testing.T) {
		service.EXPECT().GetOrder(gomock.Any(), 2, 10, false).
			Return(nil, orderservice.ErrOrderNotFound)

		req := withRouteParams(withUser(httptest.NewRequest("GET", "/api/orders/10", nil), 2), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.GetOrder(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		req := withRouteParams(withUser(httptest.NewRequest("GET", "/api/orders/abc", nil), 1), map[string]string{"id": "abc"})
		rr := httptest.NewRecorder()
		handler.GetOrder(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCancelOrderHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Cancels pending order", func(t *testing.T) {
		cancelled := pendingOrder()
		cancelled.Status = domain.OrderCancelled
		service.EXPECT().Cancel(gomock.Any(), 1, 10, "changed my mind").Return(cancelled, nil)

		body := `{"reason":"changed my mind"}`
		req := withRouteParams(withUser(httptest.NewRequest("POST", "/api/orders/10/cancel", bytes.NewReader([]byte(body))), 1), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.CancelOrder(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("Shipped order can no longer be cancelled", func(t *testing.T) {
		service.EXPECT().Cancel(gomock.Any(), 1, 10, "").
			Return(nil, orderservice.ErrNotCancellable)

		req := withRouteParams(withUser(httptest.NewRequest("POST", "/api/orders/10/cancel", nil), 1), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.CancelOrder(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Admin confirms order", func(t *testing.T) {
		confirmed := pendingOrder()
		confirmed.Status = domain.OrderConfirmed
		service.EXPECT().UpdateStatus(gomock.Any(), 10, domain.OrderConfirmed, "admin", "stock reserved").
			Return(confirmed, nil)

		body := `{"status":"confirmed","note":"stock reserved"}`
		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/status", bytes.NewReader([]byte(body)))), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.UpdateStatus(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Illegal transition", func(t *testing.T) {
		service.EXPECT().UpdateStatus(gomock.Any(), 10, domain.OrderDelivered, "admin", "").
			Return(nil, domain.ErrInvalidTransition)

		body := `{"status":"delivered"}`
		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/status", bytes.NewReader([]byte(body)))), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.UpdateStatus(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Non-admin is rejected", func(t *testing.T) {
		body := `{"status":"confirmed"}`
		req := withRouteParams(withUser(httptest.NewRequest("POST", "/api/orders/10/status", bytes.NewReader([]byte(body))), 1), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.UpdateStatus(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestRefundOrderHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Partial refund", func(t *testing.T) {
		refunded := pendingOrder()
		refunded.Status = domain.OrderDelivered
		refunded.PaymentStatus = domain.PaymentPartiallyRefunded
		refunded.RefundAmount = domain.Amount(1000)
		service.EXPECT().Refund(gomock.Any(), 10, domain.Amount(1000), "damaged in transit", "admin").
			Return(refunded, nil)

		body := `{"amount":10.00,"reason":"damaged in transit"}`
		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/refund", bytes.NewReader([]byte(body)))), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.RefundOrder(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 10.00, resp.RefundAmount)
	})

	t.Run("Unpaid order is not refundable", func(t *testing.T) {
		service.EXPECT().Refund(gomock.Any(), 10, domain.Amount(1000), "", "admin").
			Return(nil, orderservice.ErrNotRefundable)

		body := `{"amount":10.00}`
		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/refund", bytes.NewReader([]byte(body)))), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.RefundOrder(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Non-admin is rejected", func(t *testing.T) {
		body := `{"amount":10.00}`
		req := withRouteParams(withUser(httptest.NewRequest("POST", "/api/orders/10/refund", bytes.NewReader([]byte(body))), 1), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.RefundOrder(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestPayOrderHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Marks payment settled", func(t *testing.T) {
		paid := pendingOrder()
		paid.PaymentStatus = domain.PaymentPaid
		service.EXPECT().MarkPaid(gomock.Any(), 10).Return(paid, nil)

		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/pay", nil)), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.PayOrder(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Already settled", func(t *testing.T) {
		service.EXPECT().MarkPaid(gomock.Any(), 10).Return(nil, domain.ErrInvalidTransition)

		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/pay", nil)), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.PayOrder(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestUpdateShippingHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Sets tracking number", func(t *testing.T) {
		shipped := pendingOrder()
		shipped.ShippingStatus = domain.ShippingShipped
		shipped.TrackingNumber = "TRK-123"
		service.EXPECT().UpdateShipping(gomock.Any(), 10, domain.ShippingShipped, "TRK-123").
			Return(shipped, nil)

		body := `{"status":"shipped","tracking_number":"TRK-123"}`
		req := withRouteParams(asAdmin(httptest.NewRequest("PUT", "/api/orders/10/shipping", bytes.NewReader([]byte(body)))), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.UpdateShipping(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "TRK-123", resp.TrackingNumber)
	})
}

func TestItemHandlers(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Add item recalculates totals", func(t *testing.T) {
		grown := pendingOrder()
		grown.Items = append(grown.Items, domain.OrderItem{ID: 3, ProductID: 102, ProductName: "Gizmo", UnitPrice: domain.Amount(2000), Quantity: 1})
		grown.Subtotal = domain.Amount(4500)
		grown.Total = domain.Amount(4950)
		service.EXPECT().AddItem(gomock.Any(), 10, orderservice.NewItem{
			ProductID:   102,
			ProductName: "Gizmo",
			UnitPrice:   domain.Amount(2000),
			Quantity:    1,
		}).Return(grown, nil)

		body := `{"product_id":102,"product_name":"Gizmo","unit_price":20.00,"quantity":1}`
		req := withRouteParams(asAdmin(httptest.NewRequest("POST", "/api/orders/10/items", bytes.NewReader([]byte(body)))), map[string]string{"id": "10"})
		rr := httptest.NewRecorder()
		handler.AddItem(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.OrderResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 49.50, resp.Total)
		assert.Len(t, resp.Items, 3)
	})

	t.Run("Remove item", func(t *testing.T) {
		shrunk := pendingOrder()
		shrunk.Items = shrunk.Items[1:]
		shrunk.Subtotal = domain.Amount(500)
		shrunk.Total = domain.Amount(950)
		service.EXPECT().RemoveItem(gomock.Any(), 10, 1).Return(shrunk, nil)

		req := withRouteParams(asAdmin(httptest.NewRequest("DELETE", "/api/orders/10/items/1", nil)), map[string]string{"id": "10", "itemID": "1"})
		rr := httptest.NewRecorder()
		handler.RemoveItem(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Items locked after processing", func(t *testing.T) {
		service.EXPECT().RemoveItem(gomock.Any(), 10, 1).
			Return(nil, orderservice.ErrItemsLocked)

		req := withRouteParams(asAdmin(httptest.NewRequest("DELETE", "/api/orders/10/items/1", nil)), map[string]string{"id": "10", "itemID": "1"})
		rr := httptest.NewRecorder()
		handler.RemoveItem(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Non-admin is rejected", func(t *testing.T) {
		req := withRouteParams(withUser(httptest.NewRequest("DELETE", "/api/orders/10/items/1", nil), 1), map[string]string{"id": "10", "itemID": "1"})
		rr := httptest.NewRecorder()
		handler.RemoveItem(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
