package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/models"
)

// ListOrdersQuery narrows the read-side listing. At most one filter applies;
// with none set, all orders are returned.
type ListOrdersQuery struct {
	CustomerID string `json:"customer_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

// ListOrders use case serves the read surface over the order state store
type ListOrders struct {
	orders domain.OrderRepository
}

// NewListOrders creates a new ListOrders use case
func NewListOrders(orders domain.OrderRepository) *ListOrders {
	return &ListOrders{orders: orders}
}

// Execute lists orders by customer, by status, or all
func (uc *ListOrders) Execute(ctx context.Context, query *ListOrdersQuery) ([]*domain.Order, error) {
	switch {
	case query.CustomerID != "":
		orders, err := uc.orders.FindByCustomerID(ctx, models.ID(query.CustomerID))
		return orders, errors.Wrap(err, "failed to list orders by customer")
	case query.Status != "":
		status, err := domain.ParseOrderStatus(query.Status)
		if err != nil {
			return nil, errors.Wrap(err, "invalid status filter")
		}
		orders, err := uc.orders.FindByStatus(ctx, status)
		return orders, errors.Wrap(err, "failed to list orders by status")
	default:
		orders, err := uc.orders.FindAll(ctx)
		return orders, errors.Wrap(err, "failed to list orders")
	}
}
