package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkozyr/gomarket/internal/cache"
	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/notify"
	orderrepo "github.com/dkozyr/gomarket/internal/repo/order-repo"
)

const (
	maxNumberAttempts = 3
	defaultCurrency   = "USD"
)

var (
	ErrOrderNotFound     = fmt.Errorf("order not found: %w", domain.ErrNotFound)
	ErrEmptyOrder        = fmt.Errorf("order needs at least one item: %w", domain.ErrValidation)
	ErrInvalidTransition = fmt.Errorf("status change not allowed: %w", domain.ErrInvalidTransition)
	ErrNotCancellable    = fmt.Errorf("order can no longer be cancelled: %w", domain.ErrInvalidTransition)
	ErrNotRefundable     = fmt.Errorf("order is not refundable: %w", domain.ErrInvalidTransition)
	ErrRefundViaStatus   = fmt.Errorf("refunded is reached through the refund operation: %w", domain.ErrInvalidTransition)
	ErrItemsLocked       = fmt.Errorf("order items can no longer change: %w", domain.ErrInvalidTransition)
)

type OrderRepo interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type Service struct {
	orderRepo OrderRepo
	userRepo  UserRepo
	cache     cache.Cache
	notifier  notify.Notifier
}

func New(orderRepo OrderRepo, userRepo UserRepo, c cache.Cache, notifier notify.Notifier) *Service {
	return &Service{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		cache:     c,
		notifier:  notifier,
	}
}

type NewItem struct {
	ProductID   int
	ProductName string
	UnitPrice   domain.Amount
	Quantity    int
}

type NewOrder struct {
	Items    []NewItem
	Tax      domain.Amount
	Shipping domain.Amount
	Discount domain.Amount
	Currency string
	Notes    string
}

func validateItem(item NewItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price must not be negative: %w", domain.ErrValidation)
	}
	if item.ProductName == "" {
		return fmt.Errorf("product name is required: %w", domain.ErrValidation)
	}
	return nil
}

// Create builds a pending order with derived totals and persists it. The
// generated order number is regenerated on the rare collision.
func (s *Service) Create(ctx context.Context, userID int, req NewOrder) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range req.Items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
	}
	if req.Tax.IsNegative() || req.Shipping.IsNegative() || req.Discount.IsNegative() {
		return nil, fmt.Errorf("charges must not be negative: %w", domain.ErrValidation)
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	order := &domain.Order{
		UserID:         userID,
		Status:         domain.OrderPending,
		PaymentStatus:  domain.PaymentPending,
		ShippingStatus: domain.ShippingPending,
		Currency:       currency,
		Tax:            req.Tax,
		Shipping:       req.Shipping,
		Discount:       req.Discount,
		Notes:          req.Notes,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	order.RecalculateTotals()
	order.History = append(order.History, domain.OrderHistory{
		ToStatus: string(domain.OrderPending),
		Actor:    "system",
		Note:     "order created",
	})

	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber()
		err = s.orderRepo.Save(ctx, order)
		if !errors.Is(err, orderrepo.ErrOrderNumberTaken) {
			break
		}
		zap.L().Warn("order number collision, retrying", zap.String("order_number", order.OrderNumber))
	}
	if err != nil {
		zap.L().Error("can't create order", zap.Error(err))
		return nil, err
	}

	zap.L().Info("order created",
		zap.Int("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()))
	return order, nil
}

func generateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(suffix))
}

// GetOrder reads through the cache and hides other users' orders behind
// ErrOrderNotFound so order ids can't be enumerated.
func (s *Service) GetOrder(ctx context.Context, userID, orderID int, admin bool) (*domain.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !admin && order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) findOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	if data, ok := s.cache.Get(cache.KindOrder, orderID); ok {
		var order domain.Order
		if err := json.Unmarshal(data, &order); err == nil {
			return &order, nil
		}
		s.cache.Evict(cache.KindOrder, orderID)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	if data, err := json.Marshal(order); err == nil {
		s.cache.Put(cache.KindOrder, order.ID, data, cache.KindOrder.TTL())
	}
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("can't list orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// UpdateStatus walks one edge of the status graph and applies its side
// effects: shipping and delivery move the shipping axis along, and a few
// states notify the customer.
func (s *Service) UpdateStatus(ctx context.Context, orderID int, next domain.OrderStatus, actor, note string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	// The refunded state carries payment bookkeeping that only Refund applies.
	if next == domain.OrderRefunded {
		return nil, ErrRefundViaStatus
	}
	if !order.Status.CanTransitionTo(next) {
		zap.L().Info("rejected status change",
			zap.Int("order_id", orderID),
			zap.String("from", string(order.Status)),
			zap.String("to", string(next)))
		return nil, fmt.Errorf("%s to %s: %w", order.Status, next, ErrInvalidTransition)
	}

	from := order.Status
	order.Status = next
	switch next {
	case domain.OrderShipped:
		order.ShippingStatus = domain.ShippingShipped
	case domain.OrderDelivered:
		order.ShippingStatus = domain.ShippingDelivered
	}
	order.History = append(order.History, domain.OrderHistory{
		FromStatus: string(from),
		ToStatus:   string(next),
		Actor:      actor,
		Note:       note,
	})

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	switch next {
	case domain.OrderConfirmed:
		s.notifyOwner(ctx, order, notify.KindOrderConfirmed)
	case domain.OrderShipped:
		s.notifyOwner(ctx, order, notify.KindOrderShipped)
	case domain.OrderCancelled:
		s.notifyOwner(ctx, order, notify.KindOrderCancelled)
	}

	zap.L().Info("order status changed",
		zap.Int("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(next)))
	return order, nil
}

// Cancel is the customer-facing path: it enforces ownership on top of the
// cancellability guard.
func (s *Service) Cancel(ctx context.Context, userID, orderID int, reason string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if !order.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	from := order.Status
	order.Status = domain.OrderCancelled
	order.History = append(order.History, domain.OrderHistory{
		FromStatus: string(from),
		ToStatus:   string(domain.OrderCancelled),
		Actor:      "customer",
		Note:       reason,
	})

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, order, notify.KindOrderCancelled)

	zap.L().Info("order cancelled", zap.Int("order_id", orderID))
	return order, nil
}

// Refund credits part or all of the total back. A full refund flips the
// payment axis to refunded and, for delivered orders, closes the order as
// refunded too; a partial refund only marks the payment axis.
func (s *Service) Refund(ctx context.Context, orderID int, amount domain.Amount, reason, actor string) (*domain.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("refund amount must be positive: %w", domain.ErrValidation)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.CanBeRefunded() {
		return nil, ErrNotRefundable
	}
	if order.RefundAmount+amount > order.Total {
		return nil, fmt.Errorf("refund exceeds order total: %w", domain.ErrValidation)
	}

	order.RefundAmount += amount
	order.RefundReason = reason
	if order.RefundAmount == order.Total {
		order.PaymentStatus = domain.PaymentRefunded
		if order.Status == domain.OrderDelivered {
			order.History = append(order.History, domain.OrderHistory{
				FromStatus: string(order.Status),
				ToStatus:   string(domain.OrderRefunded),
				Actor:      actor,
				Note:       reason,
			})
			order.Status = domain.OrderRefunded
		}
	} else {
		order.PaymentStatus = domain.PaymentPartiallyRefunded
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, order, notify.KindOrderRefunded)

	zap.L().Info("order refunded",
		zap.Int("order_id", orderID),
		zap.String("amount", amount.String()),
		zap.String("payment_status", string(order.PaymentStatus)))
	return order, nil
}

// MarkPaid records a successful payment capture.
func (s *Service) MarkPaid(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus != domain.PaymentPending && order.PaymentStatus != domain.PaymentFailed {
		return nil, fmt.Errorf("payment already settled: %w", domain.ErrInvalidTransition)
	}

	order.PaymentStatus = domain.PaymentPaid
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	zap.L().Info("order paid", zap.Int("order_id", orderID))
	return order, nil
}

func (s *Service) UpdateShipping(ctx context.Context, orderID int, status domain.ShippingStatus, trackingNumber string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	order.ShippingStatus = status
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	zap.L().Info("shipping updated",
		zap.Int("order_id", orderID),
		zap.String("shipping_status", string(status)))
	return order, nil
}

// AddItem appends a line item and rederives the totals. Only pending and
// confirmed orders may change their items.
func (s *Service) AddItem(ctx context.Context, orderID int, item NewItem) (*domain.Order, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.ItemsEditable() {
		return nil, ErrItemsLocked
	}

	order.Items = append(order.Items, domain.OrderItem{
		OrderID:     order.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
	})
	order.RecalculateTotals()

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveItem drops a line item and rederives the totals. The last item can't
// be removed; cancel the order instead.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID int) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.ItemsEditable() {
		return nil, ErrItemsLocked
	}
	if len(order.Items) <= 1 {
		return nil, ErrEmptyOrder
	}

	kept := order.Items[:0]
	found := false
	for _, item := range order.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, fmt.Errorf("order item not found: %w", domain.ErrNotFound)
	}
	order.Items = kept
	order.RecalculateTotals()

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) persist(ctx context.Context, order *domain.Order) error {
	if err := s.orderRepo.Update(ctx, order); err != nil {
		zap.L().Error("can't update order", zap.Error(err))
		return err
	}
	s.cache.Evict(cache.KindOrder, order.ID)
	return nil
}

// notifyOwner resolves the order's owner and sends a best effort message. A
// missing owner or lookup failure only logs.
func (s *Service) notifyOwner(ctx context.Context, order *domain.Order, kind notify.Kind) {
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil || user == nil {
		zap.L().Warn("can't resolve order owner for notification",
			zap.Int("order_id", order.ID),
			zap.Int("user_id", order.UserID),
			zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, user, kind, map[string]string{
		"order_number": order.OrderNumber,
		"total":        order.Total.String(),
	})
}
