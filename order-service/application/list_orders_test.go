package application

import (
	"context"
	"testing"

	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/order-service/mocks"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListOrders_Execute(t *testing.T) {
	ctx := context.Background()
	orders := []*domain.Order{newTestOrder(t, "ORD-11110000"), newTestOrder(t, "ORD-22220000")}

	t.Run("by customer", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		repo.EXPECT().FindByCustomerID(mock.Anything, models.ID("CUST-001")).Return(orders, nil).Once()

		uc := NewListOrders(repo)
		got, err := uc.Execute(ctx, &ListOrdersQuery{CustomerID: "CUST-001"})
		require.NoError(t, err)
		assert.Equal(t, orders, got)
	})

	t.Run("by status", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		repo.EXPECT().FindByStatus(mock.Anything, domain.StatusCompleted).Return(orders[:1], nil).Once()

		uc := NewListOrders(repo)
		got, err := uc.Execute(ctx, &ListOrdersQuery{Status: "COMPLETED"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		uc := NewListOrders(mocks.NewMockOrderRepository(t))
		_, err := uc.Execute(ctx, &ListOrdersQuery{Status: "SHIPPED"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status filter")
	})

	t.Run("all", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		repo.EXPECT().FindAll(mock.Anything).Return(orders, nil).Once()

		uc := NewListOrders(repo)
		got, err := uc.Execute(ctx, &ListOrdersQuery{})
		require.NoError(t, err)
		assert.Equal(t, orders, got)
	})
}
