package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
)

// OrderStatus represents the status of an order transaction
type OrderStatus string

const (
	StatusPending           OrderStatus = "PENDING"
	StatusPaymentAuthorized OrderStatus = "PAYMENT_AUTHORIZED"
	StatusInventoryReserved OrderStatus = "INVENTORY_RESERVED"
	StatusFraudCheckPassed  OrderStatus = "FRAUD_CHECK_PASSED"
	StatusConfirmed         OrderStatus = "CONFIRMED"
	StatusShippingArranged  OrderStatus = "SHIPPING_ARRANGED"
	StatusInDelivery        OrderStatus = "IN_DELIVERY"
	StatusCompleted         OrderStatus = "COMPLETED"
	StatusFailed            OrderStatus = "FAILED"
	StatusCompensating      OrderStatus = "COMPENSATING"
	StatusCompensated       OrderStatus = "COMPENSATED"
)

var allStatuses = []OrderStatus{
	StatusPending, StatusPaymentAuthorized, StatusInventoryReserved,
	StatusFraudCheckPassed, StatusConfirmed, StatusShippingArranged,
	StatusInDelivery, StatusCompleted, StatusFailed, StatusCompensating,
	StatusCompensated,
}

// forwardRank orders the happy-path statuses; terminal and failure statuses
// are not part of the forward sequence.
var forwardRank = map[OrderStatus]int{
	StatusPending:           1,
	StatusPaymentAuthorized: 2,
	StatusInventoryReserved: 3,
	StatusFraudCheckPassed:  4,
	StatusConfirmed:         5,
	StatusShippingArranged:  6,
	StatusInDelivery:        7,
	StatusCompleted:         8,
}

// ParseOrderStatus validates a status string from an external surface
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range allStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", errors.Errorf("unknown order status %q", s)
}

// Terminal reports whether no transition leaves this status
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCompensated
}

// ReachedAtLeast reports whether s is a forward status at or past other.
// Used by a resumed saga to skip already-confirmed steps.
func (s OrderStatus) ReachedAtLeast(other OrderStatus) bool {
	rank, ok := forwardRank[s]
	if !ok {
		return false
	}
	return rank >= forwardRank[other]
}

// OrderItem is one immutable line item of an order
type OrderItem struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	TotalPrice  models.Money `json:"total_price"`
}

// Order is the order transaction aggregate. It is owned exclusively by the
// saga coordinator while the saga runs; afterwards it is the read model
// served by the order store.
type Order struct {
	ID         models.ID
	CustomerID models.ID
	Items      []OrderItem
	Total      models.Money
	Status     OrderStatus

	// Resource identifiers captured per step, needed for compensation
	PaymentID      string
	ReservationID  string
	ShippingID     string
	TrackingNumber string

	FailureReason       string
	PartialCompensation bool
	CompletedAt         *time.Time

	Timestamps models.Timestamps
	Version    models.Version

	events []*events.Event
}

// CreateOrder builds a new order transaction in PENDING state. The line items
// are immutable once the transaction starts; the total is computed here.
func CreateOrder(orderID, customerID models.ID, items []OrderItem) (*Order, error) {
	if orderID.IsEmpty() {
		return nil, errors.New("order ID is required")
	}
	if customerID.IsEmpty() {
		return nil, errors.New("customer ID is required")
	}
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	total := models.NewMoney(0, items[0].UnitPrice.Currency)
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.Errorf("item %s: quantity must be positive", item.ProductID)
		}
		if item.UnitPrice.IsNegative() {
			return nil, errors.Errorf("item %s: unit price must not be negative", item.ProductID)
		}
		items[i].TotalPrice = item.UnitPrice.Multiply(item.Quantity)

		sum, err := total.Add(items[i].TotalPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "item %s", item.ProductID)
		}
		total = sum
	}

	order := &Order{
		ID:         orderID,
		CustomerID: customerID,
		Items:      items,
		Total:      total,
		Status:     StatusPending,
		Timestamps: models.NewTimestamps(),
		Version:    models.NewVersion(),
	}

	order.recordEvent(events.NewEvent(order.ID, events.OrderSubmittedEvent, OrderSubmittedData{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		Items:      order.Items,
	}))

	return order, nil
}

// AuthorizePayment records the payment authorization step
func (o *Order) AuthorizePayment(paymentID string) error {
	if err := o.transition(StatusPending, StatusPaymentAuthorized); err != nil {
		return err
	}
	o.PaymentID = paymentID
	return nil
}

// ReserveInventory records the inventory reservation step
func (o *Order) ReserveInventory(reservationID string) error {
	if err := o.transition(StatusPaymentAuthorized, StatusInventoryReserved); err != nil {
		return err
	}
	o.ReservationID = reservationID
	return nil
}

// PassFraudCheck records the advisory fraud screening step
func (o *Order) PassFraudCheck() error {
	return o.transition(StatusInventoryReserved, StatusFraudCheckPassed)
}

// Confirm records the order confirmation step
func (o *Order) Confirm() error {
	return o.transition(StatusFraudCheckPassed, StatusConfirmed)
}

// ArrangeShipping records the shipping arrangement step
func (o *Order) ArrangeShipping(shippingID, trackingNumber string) error {
	if err := o.transition(StatusConfirmed, StatusShippingArranged); err != nil {
		return err
	}
	o.ShippingID = shippingID
	o.TrackingNumber = trackingNumber
	return nil
}

// StartDelivery records the delivery tracking step
func (o *Order) StartDelivery() error {
	return o.transition(StatusShippingArranged, StatusInDelivery)
}

// Complete moves the order to its successful terminal state
func (o *Order) Complete() error {
	if err := o.transition(StatusInDelivery, StatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	o.CompletedAt = &now

	o.recordEvent(events.NewEvent(o.ID, events.OrderCompletedEvent, OrderCompletedData{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		Total:       o.Total,
		CompletedAt: now,
	}))
	return nil
}

// MarkFailed captures the aborting failure reason. Valid from any
// non-terminal state; recorded for observability before compensation begins.
func (o *Order) MarkFailed(reason string) error {
	if o.Status.Terminal() {
		return errors.Errorf("cannot fail order in terminal status %s", o.Status)
	}
	o.Status = StatusFailed
	o.FailureReason = reason
	o.touch()

	o.recordEvent(events.NewEvent(o.ID, events.OrderFailedEvent, OrderFailedData{
		OrderID: o.ID,
		Reason:  reason,
	}))
	return nil
}

// BeginCompensation marks the unwind as in progress
func (o *Order) BeginCompensation() error {
	if o.Status != StatusFailed && o.Status != StatusCompensating {
		return errors.Errorf("cannot compensate order in status %s", o.Status)
	}
	o.Status = StatusCompensating
	o.touch()
	o.recordStatusChanged()
	return nil
}

// MarkCompensated moves the order to its failure terminal state. partial
// flags an unwind where at least one compensating call ultimately failed and
// operator follow-up is needed.
func (o *Order) MarkCompensated(partial bool) error {
	if o.Status != StatusCompensating {
		return errors.Errorf("cannot finish compensation from status %s", o.Status)
	}
	o.Status = StatusCompensated
	o.PartialCompensation = partial
	o.touch()

	o.recordEvent(events.NewEvent(o.ID, events.OrderCompensatedEvent, OrderCompensatedData{
		OrderID: o.ID,
		Reason:  o.FailureReason,
		Partial: partial,
	}))
	return nil
}

func (o *Order) transition(from, to OrderStatus) error {
	if o.Status != from {
		return errors.Errorf("cannot move order from %s to %s", o.Status, to)
	}
	o.Status = to
	o.touch()
	o.recordStatusChanged()
	return nil
}

func (o *Order) touch() {
	o.Timestamps = o.Timestamps.Update()
	o.Version = o.Version.Update()
}

func (o *Order) recordStatusChanged() {
	o.recordEvent(events.NewEvent(o.ID, events.OrderStatusChangedEvent, OrderStatusChangedData{
		OrderID: o.ID,
		Status:  o.Status,
	}))
}

// Events returns recorded domain events
func (o *Order) Events() []*events.Event {
	return o.events
}

// ClearEvents clears recorded domain events
func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) recordEvent(event *events.Event) {
	o.events = append(o.events, event)
}

// Event Data Structures
type OrderSubmittedData struct {
	OrderID    models.ID    `json:"order_id"`
	CustomerID models.ID    `json:"customer_id"`
	Total      models.Money `json:"total"`
	Items      []OrderItem  `json:"items"`
}

type OrderStatusChangedData struct {
	OrderID models.ID   `json:"order_id"`
	Status  OrderStatus `json:"status"`
}

type OrderCompletedData struct {
	OrderID     models.ID    `json:"order_id"`
	CustomerID  models.ID    `json:"customer_id"`
	Total       models.Money `json:"total"`
	CompletedAt time.Time    `json:"completed_at"`
}

type OrderFailedData struct {
	OrderID models.ID `json:"order_id"`
	Reason  string    `json:"reason"`
}

type OrderCompensatedData struct {
	OrderID models.ID `json:"order_id"`
	Reason  string    `json:"reason"`
	Partial bool      `json:"partial"`
}

// OrderRepository is the durable order state store. Writes must be visible to
// the next read for the same order id; there is no cross-order locking.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByOrderID(ctx context.Context, id models.ID) (*Order, error)
	FindByCustomerID(ctx context.Context, customerID models.ID) ([]*Order, error)
	FindByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
}
