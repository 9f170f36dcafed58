package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/application"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// OrderHandlers contains order HTTP handlers
type OrderHandlers struct {
	submitOrder *application.SubmitOrder
	getOrder    *application.GetOrder
	listOrders  *application.ListOrders
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(
	submitOrder *application.SubmitOrder,
	getOrder *application.GetOrder,
	listOrders *application.ListOrders,
) *OrderHandlers {
	return &OrderHandlers{
		submitOrder: submitOrder,
		getOrder:    getOrder,
		listOrders:  listOrders,
	}
}

// orderView is the wire representation of an order
type orderView struct {
	OrderID             string             `json:"order_id"`
	CustomerID          string             `json:"customer_id"`
	Items               []domain.OrderItem `json:"items"`
	TotalAmount         int64              `json:"total_amount"`
	Currency            string             `json:"currency"`
	Status              string             `json:"status"`
	PaymentID           string             `json:"payment_id,omitempty"`
	ReservationID       string             `json:"reservation_id,omitempty"`
	ShippingID          string             `json:"shipping_id,omitempty"`
	TrackingNumber      string             `json:"tracking_number,omitempty"`
	FailureReason       string             `json:"failure_reason,omitempty"`
	PartialCompensation bool               `json:"partial_compensation,omitempty"`
	CompletedAt         *time.Time         `json:"completed_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

func toOrderView(order *domain.Order) *orderView {
	return &orderView{
		OrderID:             order.ID.String(),
		CustomerID:          order.CustomerID.String(),
		Items:               order.Items,
		TotalAmount:         order.Total.Amount,
		Currency:            order.Total.Currency,
		Status:              string(order.Status),
		PaymentID:           order.PaymentID,
		ReservationID:       order.ReservationID,
		ShippingID:          order.ShippingID,
		TrackingNumber:      order.TrackingNumber,
		FailureReason:       order.FailureReason,
		PartialCompensation: order.PartialCompensation,
		CompletedAt:         order.CompletedAt,
		CreatedAt:           order.Timestamps.CreatedAt,
		UpdatedAt:           order.Timestamps.UpdatedAt,
	}
}

// SubmitOrder handles order submission requests
func (h *OrderHandlers) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var cmd application.SubmitOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.submitOrder.Execute(r.Context(), &cmd)
	if err != nil {
		if errors.Is(err, saga.ErrDuplicateExecution) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// GetOrder handles order retrieval requests
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	order, err := h.getOrder.Execute(r.Context(), &application.GetOrderQuery{OrderID: orderID})
	if err != nil {
		if saga.IsNotFound(err) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderView(order))
}

// ListOrders handles order listing requests
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := &application.ListOrdersQuery{
		CustomerID: chi.URLParam(r, "customerId"),
		Status:     chi.URLParam(r, "status"),
	}

	orders, err := h.listOrders.Execute(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	views := make([]*orderView, len(orders))
	for i, order := range orders {
		views[i] = toOrderView(order)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// RegisterRoutes registers order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.SubmitOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{orderId}", h.GetOrder)
		r.Get("/customer/{customerId}", h.ListOrders)
		r.Get("/status/{status}", h.ListOrders)
	})
}
