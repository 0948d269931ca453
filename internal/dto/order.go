package dto

import (
	"time"

	"github.com/dkozyr/gomarket/internal/domain"
)

type NewOrderItemDTO struct {
	ProductID   int     `json:"product_id" example:"100"`
	ProductName string  `json:"product_name" example:"Widget"`
	UnitPrice   float64 `json:"unit_price" example:"10.00"`
	Quantity    int     `json:"quantity" example:"2"`
}

type CreateOrderRequestDTO struct {
	Items    []NewOrderItemDTO `json:"items"`
	Tax      float64           `json:"tax,omitempty" example:"1.50"`
	Shipping float64           `json:"shipping,omitempty" example:"3.00"`
	Discount float64           `json:"discount,omitempty" example:"0"`
	Currency string            `json:"currency,omitempty" example:"USD"`
	Notes    string            `json:"notes,omitempty" example:"leave at the door"`
}

type OrderItemDTO struct {
	ID          int     `json:"id" example:"1"`
	ProductID   int     `json:"product_id" example:"100"`
	ProductName string  `json:"product_name" example:"Widget"`
	UnitPrice   float64 `json:"unit_price" example:"10.00"`
	Quantity    int     `json:"quantity" example:"2"`
}

type OrderHistoryDTO struct {
	FromStatus string    `json:"from_status,omitempty" example:"pending"`
	ToStatus   string    `json:"to_status" example:"confirmed"`
	Actor      string    `json:"actor" example:"admin"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderResponseDTO struct {
	ID             int               `json:"id" example:"10"`
	OrderNumber    string            `json:"order_number" example:"ORD-1700000000000-AB12CD34"`
	Status         string            `json:"status" example:"pending"`
	PaymentStatus  string            `json:"payment_status" example:"pending"`
	ShippingStatus string            `json:"shipping_status" example:"pending"`
	Currency       string            `json:"currency" example:"USD"`
	Subtotal       float64           `json:"subtotal" example:"25.00"`
	Tax            float64           `json:"tax" example:"1.50"`
	Shipping       float64           `json:"shipping" example:"3.00"`
	Discount       float64           `json:"discount" example:"0"`
	Total          float64           `json:"total" example:"29.50"`
	RefundAmount   float64           `json:"refund_amount,omitempty"`
	RefundReason   string            `json:"refund_reason,omitempty"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Items          []OrderItemDTO    `json:"items,omitempty"`
	History        []OrderHistoryDTO `json:"history,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewOrderResponseDTO(order *domain.Order) OrderResponseDTO {
	resp := OrderResponseDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         string(order.Status),
		PaymentStatus:  string(order.PaymentStatus),
		ShippingStatus: string(order.ShippingStatus),
		Currency:       order.Currency,
		Subtotal:       order.Subtotal.Float64(),
		Tax:            order.Tax.Float64(),
		Shipping:       order.Shipping.Float64(),
		Discount:       order.Discount.Float64(),
		Total:          order.Total.Float64(),
		RefundAmount:   order.RefundAmount.Float64(),
		RefundReason:   order.RefundReason,
		TrackingNumber: order.TrackingNumber,
		Notes:          order.Notes,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.Float64(),
			Quantity:    item.Quantity,
		})
	}
	for _, record := range order.History {
		resp.History = append(resp.History, OrderHistoryDTO{
			FromStatus: record.FromStatus,
			ToStatus:   record.ToStatus,
			Actor:      record.Actor,
			Note:       record.Note,
			CreatedAt:  record.CreatedAt,
		})
	}
	return resp
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status" example:"confirmed"`
	Note   string `json:"note,omitempty"`
}

type CancelOrderRequestDTO struct {
	Reason string `json:"reason,omitempty" example:"changed my mind"`
}

type RefundRequestDTO struct {
	Amount float64 `json:"amount" example:"29.50"`
	Reason string  `json:"reason" example:"damaged in transit"`
}

type UpdateShippingRequestDTO struct {
	Status         string `json:"status" example:"shipped"`
	TrackingNumber string `json:"tracking_number,omitempty" example:"TRK-123"`
}

type AddItemRequestDTO struct {
	ProductID   int     `json:"product_id" example:"102"`
	ProductName string  `json:"product_name" example:"Gizmo"`
	UnitPrice   float64 `json:"unit_price" example:"20.00"`
	Quantity    int     `json:"quantity" example:"1"`
}
