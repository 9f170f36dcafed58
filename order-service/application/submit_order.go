package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// SubmitOrderItem is one requested line item
type SubmitOrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // cents
}

// SubmitOrderCommand represents an order transaction request
type SubmitOrderCommand struct {
	OrderID    string            `json:"order_id,omitempty"`
	CustomerID string            `json:"customer_id"`
	Currency   string            `json:"currency,omitempty"`
	Items      []SubmitOrderItem `json:"items"`
}

// SubmitOrderResponse is returned immediately; the saga runs independently
// and clients poll the order's status until it settles.
type SubmitOrderResponse struct {
	OrderID models.ID `json:"order_id"`
	Status  string    `json:"status"`
}

// SubmitOrder accepts a new order transaction, assigns its durable execution
// identity and launches the saga exactly once per identity, fire-and-forget.
type SubmitOrder struct {
	orders    domain.OrderRepository
	launcher  *saga.Launcher
	processor *ProcessOrder
}

// NewSubmitOrder creates a new SubmitOrder use case
func NewSubmitOrder(orders domain.OrderRepository, launcher *saga.Launcher, processor *ProcessOrder) *SubmitOrder {
	return &SubmitOrder{
		orders:    orders,
		launcher:  launcher,
		processor: processor,
	}
}

// Execute validates the command and starts the saga. It returns as soon as
// the execution is launched; step-level failures never surface here.
func (uc *SubmitOrder) Execute(ctx context.Context, cmd *SubmitOrderCommand) (*SubmitOrderResponse, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, errors.Wrap(err, "invalid command")
	}

	orderID := models.ID(cmd.OrderID)
	if orderID.IsEmpty() {
		orderID = models.NewPrefixedID("ORD")
	}

	// Duplicate identity submitted after the saga already settled
	existing, err := uc.orders.FindByOrderID(ctx, orderID)
	if err != nil && !saga.IsNotFound(err) {
		return nil, errors.Wrap(err, "failed to check for existing order")
	}
	if existing != nil {
		if uc.launcher.Policy() == saga.RejectDuplicate {
			return nil, errors.Wrap(saga.ErrDuplicateExecution, orderID.String())
		}
		status := "PROCESSING"
		if existing.Status.Terminal() {
			status = string(existing.Status)
		}
		return &SubmitOrderResponse{OrderID: orderID, Status: status}, nil
	}

	currency := cmd.Currency
	if currency == "" {
		currency = "USD"
	}
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   models.NewMoney(item.UnitPrice, currency),
		}
	}

	order, err := domain.CreateOrder(orderID, models.ID(cmd.CustomerID), items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	_, err = uc.launcher.Start(orderID.String(), func(ctx context.Context) error {
		_, runErr := uc.processor.Run(ctx, order)
		return runErr
	})
	if err != nil {
		return nil, err
	}

	return &SubmitOrderResponse{OrderID: orderID, Status: "PROCESSING"}, nil
}

func (uc *SubmitOrder) validateCommand(cmd *SubmitOrderCommand) error {
	if cmd.CustomerID == "" {
		return errors.New("customer ID is required")
	}
	if len(cmd.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return errors.New("product ID is required")
		}
		if item.Quantity <= 0 {
			return errors.Errorf("item %s: quantity must be positive", item.ProductID)
		}
		if item.UnitPrice < 0 {
			return errors.Errorf("item %s: unit price must not be negative", item.ProductID)
		}
	}
	return nil
}
