package domain

import "time"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
	RolePremium   UserRole = "premium"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator, RolePremium:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserDeleted   UserStatus = "deleted"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended, UserDeleted:
		return true
	}
	return false
}

type User struct {
	ID                    int        `db:"id"`
	Username              string     `db:"username"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	FirstName             string     `db:"first_name"`
	LastName              string     `db:"last_name"`
	Phone                 string     `db:"phone"`
	Role                  UserRole   `db:"role"`
	Status                UserStatus `db:"status"`
	EmailVerified         bool       `db:"email_verified"`
	PasswordResetRequired bool       `db:"password_reset_required"`
	FailedLoginAttempts   int        `db:"failed_login_attempts"`
	LockedUntil           *time.Time `db:"locked_until"`
	LastLogin             *time.Time `db:"last_login"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
	Version               int        `db:"version"`
}

// IsLocked reports whether the login gate is closed at the given instant.
// The lock expires passively: once LockedUntil has passed the user may log in
// again even though the persisted status is still suspended.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

func (u *User) IsDisabled() bool {
	return u.Status == UserDeleted || u.Status == UserInactive
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

type ShippingStatus string

const (
	ShippingPending    ShippingStatus = "pending"
	ShippingProcessing ShippingStatus = "processing"
	ShippingShipped    ShippingStatus = "shipped"
	ShippingDelivered  ShippingStatus = "delivered"
	ShippingReturned   ShippingStatus = "returned"
	ShippingLost       ShippingStatus = "lost"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderRefunded},
}

// CanTransitionTo reports whether the edge s -> next exists in the order
// status graph. Cancelled and refunded are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCancelled || s == OrderRefunded || s == OrderDelivered
}

type OrderItem struct {
	ID          int    `db:"id"`
	OrderID     int    `db:"order_id"`
	ProductID   int    `db:"product_id"`
	ProductName string `db:"product_name"`
	UnitPrice   Amount `db:"unit_price"`
	Quantity    int    `db:"quantity"`
}

type OrderHistory struct {
	ID         int       `db:"id"`
	OrderID    int       `db:"order_id"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	Actor      string    `db:"actor"`
	Note       string    `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}

type Order struct {
	ID             int            `db:"id"`
	UserID         int            `db:"user_id"`
	OrderNumber    string         `db:"order_number"`
	Status         OrderStatus    `db:"status"`
	PaymentStatus  PaymentStatus  `db:"payment_status"`
	ShippingStatus ShippingStatus `db:"shipping_status"`
	Currency       string         `db:"currency"`
	Subtotal       Amount         `db:"subtotal"`
	Tax            Amount         `db:"tax"`
	Shipping       Amount         `db:"shipping"`
	Discount       Amount         `db:"discount"`
	Total          Amount         `db:"total"`
	RefundAmount   Amount         `db:"refund_amount"`
	RefundReason   string         `db:"refund_reason"`
	TrackingNumber string         `db:"tracking_number"`
	Notes          string         `db:"notes"`
	Items          []OrderItem    `db:"-"`
	History        []OrderHistory `db:"-"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	Version        int            `db:"version"`
}

// RecalculateTotals rederives subtotal and total from the current line items.
// It is the only way totals change.
func (o *Order) RecalculateTotals() {
	var subtotal Amount
	for _, item := range o.Items {
		subtotal += item.UnitPrice.MulQty(item.Quantity)
	}
	o.Subtotal = subtotal
	o.Total = subtotal + o.Tax + o.Shipping - o.Discount
}

func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

func (o *Order) CanBeRefunded() bool {
	return o.PaymentStatus == PaymentPaid &&
		(o.Status == OrderDelivered || o.Status == OrderShipped)
}

// ItemsEditable reports whether the line item collection may still change.
func (o *Order) ItemsEditable() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}
