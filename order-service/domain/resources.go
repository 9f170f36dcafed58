package domain

import (
	"context"

	"github.com/rswarup82/order-saga-demo/shared/models"
)

// Resource manager collaborators, one per saga step. Each forward call either
// fully succeeds (producing the resource identifier needed for later
// compensation) or fully declines; a returned error marks a transport-level
// failure that the activity invoker retries. Fraud screening exposes no
// compensating operation: it is advisory and has no side effect to undo.

// PaymentResult is the payment manager's answer to an authorization
type PaymentResult struct {
	Success       bool   `json:"success"`
	PaymentID     string `json:"payment_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message"`
}

// InventoryResult is the inventory manager's answer to a reservation
type InventoryResult struct {
	Success       bool   `json:"success"`
	ReservationID string `json:"reservation_id,omitempty"`
	Message       string `json:"message"`
}

// FraudCheckResult carries the computed risk score on a 0-100 scale
type FraudCheckResult struct {
	Passed    bool    `json:"passed"`
	RiskScore float64 `json:"risk_score"`
	Message   string  `json:"message"`
}

// ShippingResult is the carrier's answer to a shipping arrangement
type ShippingResult struct {
	Success           bool   `json:"success"`
	ShippingID        string `json:"shipping_id,omitempty"`
	TrackingNumber    string `json:"tracking_number,omitempty"`
	Carrier           string `json:"carrier,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
	Message           string `json:"message"`
}

// PaymentGateway authorizes payments and refunds them by payment id
type PaymentGateway interface {
	Authorize(ctx context.Context, order *Order) (*PaymentResult, error)
	Refund(ctx context.Context, orderID models.ID, paymentID string) error
}

// InventoryService reserves stock and releases reservations by id
type InventoryService interface {
	Reserve(ctx context.Context, order *Order) (*InventoryResult, error)
	Release(ctx context.Context, orderID models.ID, reservationID string) error
}

// FraudChecker screens an order; forward-only, no compensation
type FraudChecker interface {
	Check(ctx context.Context, order *Order) (*FraudCheckResult, error)
}

// ShippingCarrier arranges shipments, cancels them by shipping id, and
// confirms delivery tracking
type ShippingCarrier interface {
	Arrange(ctx context.Context, order *Order) (*ShippingResult, error)
	Cancel(ctx context.Context, orderID models.ID, shippingID string) error
	ConfirmTracking(ctx context.Context, orderID models.ID, trackingNumber string) error
}
