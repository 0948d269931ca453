package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/dto"
	"github.com/dkozyr/gomarket/internal/service/orderservice"
	pkgauth "github.com/dkozyr/gomarket/pkg/auth"
	"github.com/dkozyr/gomarket/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, userID int, req orderservice.NewOrder) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int, admin bool) (*domain.Order, error)
	GetOrders(ctx context.Context, userID int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, next domain.OrderStatus, actor, note string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID int, reason string) (*domain.Order, error)
	Refund(ctx context.Context, orderID int, amount domain.Amount, reason, actor string) (*domain.Order, error)
	MarkPaid(ctx context.Context, orderID int) (*domain.Order, error)
	UpdateShipping(ctx context.Context, orderID int, status domain.ShippingStatus, trackingNumber string) (*domain.Order, error)
	AddItem(ctx context.Context, orderID int, item orderservice.NewItem) (*domain.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID int) (*domain.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func requesterID(r *http.Request) (int, bool) {
	userID, ok := r.Context().Value(pkgauth.UserIDKey).(int)
	return userID, ok
}

func isAdmin(r *http.Request) bool {
	role, ok := r.Context().Value(pkgauth.RoleKey).(string)
	return ok && role == string(domain.RoleAdmin)
}

func orderID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// CreateOrder godoc
//
//	@Summary		Create an order
//	@Description	Create a pending order; totals are derived from the items server side
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateOrderRequestDTO	true	"Order body"
//	@Success		201		{object}	dto.OrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	newOrder := orderservice.NewOrder{
		Tax:      domain.AmountFromFloat(req.Tax),
		Shipping: domain.AmountFromFloat(req.Shipping),
		Discount: domain.AmountFromFloat(req.Discount),
		Currency: req.Currency,
		Notes:    req.Notes,
	}
	for _, item := range req.Items {
		newOrder.Items = append(newOrder.Items, orderservice.NewItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   domain.AmountFromFloat(item.UnitPrice),
			Quantity:    item.Quantity,
		})
	}

	order, err := h.orderService.Create(r.Context(), userID, newOrder)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewOrderResponseDTO(order))
}

// GetOrders godoc
//
//	@Summary		List own orders
//	@Tags			Orders
//	@Produce		json
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/api/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orders, err := h.orderService.GetOrders(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	if len(orders) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
		return
	}
	resp := make([]dto.OrderResponseDTO, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.NewOrderResponseDTO(&orders[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetOrder godoc
//
//	@Summary		Get an order
//	@Description	Customers see only their own orders; admins see any
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		int	true	"Order ID"
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	order, err := h.orderService.GetOrder(r.Context(), userID, id, isAdmin(r))
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// CancelOrder godoc
//
//	@Summary		Cancel an order
//	@Description	Only pending and confirmed orders can be cancelled
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Order ID"
//	@Param			request	body		dto.CancelOrderRequestDTO	false	"Cancellation body"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		409		{object}	utils.Response	"Order can no longer be cancelled"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.CancelOrderRequestDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	order, err := h.orderService.Cancel(r.Context(), userID, id, req.Reason)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// UpdateStatus godoc
//
//	@Summary		Change order status
//	@Description	Walk one edge of the order status graph
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Order ID"
//	@Param			request	body		dto.UpdateOrderStatusRequestDTO	true	"Status body"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		409		{object}	utils.Response	"Status change not allowed"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/status [post]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status), "admin", req.Note)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// RefundOrder godoc
//
//	@Summary		Refund an order
//	@Description	Credit part or all of the total back to the customer
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Order ID"
//	@Param			request	body		dto.RefundRequestDTO	true	"Refund body"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		409		{object}	utils.Response	"Order is not refundable"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/refund [post]
func (h *OrderHandler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.RefundRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.Refund(r.Context(), id, domain.AmountFromFloat(req.Amount), req.Reason, "admin")
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// PayOrder godoc
//
//	@Summary		Mark an order as paid
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		int	true	"Order ID"
//	@Success		200	{object}	dto.OrderResponseDTO
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Failure		409	{object}	utils.Response	"Payment already settled"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/pay [post]
func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	order, err := h.orderService.MarkPaid(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// UpdateShipping godoc
//
//	@Summary		Update shipping state
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Order ID"
//	@Param			request	body		dto.UpdateShippingRequestDTO	true	"Shipping body"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/shipping [put]
func (h *OrderHandler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.UpdateShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.UpdateShipping(r.Context(), id, domain.ShippingStatus(req.Status), req.TrackingNumber)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// AddItem godoc
//
//	@Summary		Add a line item
//	@Description	Items can change while the order is pending or confirmed
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Order ID"
//	@Param			request	body		dto.AddItemRequestDTO	true	"Item body"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		409		{object}	utils.Response	"Order items can no longer change"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/items [post]
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order, err := h.orderService.AddItem(r.Context(), id, orderservice.NewItem{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		UnitPrice:   domain.AmountFromFloat(req.UnitPrice),
		Quantity:    req.Quantity,
	})
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}

// RemoveItem godoc
//
//	@Summary		Remove a line item
//	@Description	The last remaining item can't be removed; cancel the order instead
//	@Tags			Orders
//	@Produce		json
//	@Param			id		path		int	true	"Order ID"
//	@Param			itemID	path		int	true	"Item ID"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		404		{object}	utils.Response	"Item not found"
//	@Security		ApiKeyAuth
//	@Router			/api/orders/{id}/items/{itemID} [delete]
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := orderID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	order, err := h.orderService.RemoveItem(r.Context(), id, itemID)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderResponseDTO(order))
}
