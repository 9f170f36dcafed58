package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/models"
)

// GetOrderQuery represents the query to fetch one order
type GetOrderQuery struct {
	OrderID string `json:"order_id"`
}

// GetOrder use case reads one order from the state store
type GetOrder struct {
	orders domain.OrderRepository
}

// NewGetOrder creates a new GetOrder use case
func NewGetOrder(orders domain.OrderRepository) *GetOrder {
	return &GetOrder{orders: orders}
}

// Execute fetches the order; a missing id surfaces as a not-found failure
func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (*domain.Order, error) {
	if query.OrderID == "" {
		return nil, errors.New("order ID is required")
	}
	order, err := uc.orders.FindByOrderID(ctx, models.ID(query.OrderID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}
	return order, nil
}
