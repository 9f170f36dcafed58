package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedOrder(t *testing.T, id, customer string) *domain.Order {
	t.Helper()
	order, err := domain.CreateOrder(models.ID(id), models.ID(customer), []domain.OrderItem{
		{ProductID: "PROD-001", ProductName: "Laptop", Quantity: 1, UnitPrice: models.NewMoney(129900, "USD")},
	})
	require.NoError(t, err)
	return order
}

func TestMemoryOrderRepository_SaveAndFind(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	order := storedOrder(t, "ORD-mem00001", "CUST-001")
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByOrderID(ctx, "ORD-mem00001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, domain.StatusPending, found.Status)
	assert.Empty(t, found.Events())

	// The stored copy is a snapshot: later aggregate mutations are not
	// visible until saved again.
	require.NoError(t, order.AuthorizePayment("PAY-mem00001"))
	found, err = repo.FindByOrderID(ctx, "ORD-mem00001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, found.Status)

	require.NoError(t, repo.Save(ctx, order))
	found, err = repo.FindByOrderID(ctx, "ORD-mem00001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentAuthorized, found.Status)
	assert.Equal(t, "PAY-mem00001", found.PaymentID)
}

func TestMemoryOrderRepository_FindByOrderID_NotFound(t *testing.T) {
	repo := NewMemoryOrderRepository()
	_, err := repo.FindByOrderID(context.Background(), "ORD-missing")
	require.Error(t, err)
	assert.True(t, saga.IsNotFound(err))
}

func TestMemoryOrderRepository_Filters(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	first := storedOrder(t, "ORD-mem00002", "CUST-001")
	require.NoError(t, repo.Save(ctx, first))

	second := storedOrder(t, "ORD-mem00003", "CUST-002")
	require.NoError(t, second.AuthorizePayment("PAY-mem00003"))
	require.NoError(t, repo.Save(ctx, second))

	byCustomer, err := repo.FindByCustomerID(ctx, "CUST-002")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, models.ID("ORD-mem00003"), byCustomer[0].ID)

	pending, err := repo.FindByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.ID("ORD-mem00002"), pending[0].ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryCompensationLog(t *testing.T) {
	log := NewMemoryCompensationLog()
	ctx := context.Background()

	entry := func(step, resource string) saga.CompensationEntry {
		return saga.CompensationEntry{
			Step:         step,
			OrderID:      "ORD-mem00004",
			ResourceID:   resource,
			RegisteredAt: time.Now(),
		}
	}

	require.NoError(t, log.Append(ctx, entry("authorize-payment", "PAY-mem00004")))
	require.NoError(t, log.Append(ctx, entry("reserve-inventory", "RES-mem00004")))
	// Re-registering the same step after a resume is a no-op
	require.NoError(t, log.Append(ctx, entry("authorize-payment", "PAY-other")))

	entries, err := log.ByOrder(ctx, "ORD-mem00004")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "authorize-payment", entries[0].Step)
	assert.Equal(t, "PAY-mem00004", entries[0].ResourceID)
	assert.Equal(t, "reserve-inventory", entries[1].Step)

	other, err := log.ByOrder(ctx, "ORD-unknown")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, log.Dispose(ctx, "ORD-mem00004"))
	entries, err = log.ByOrder(ctx, "ORD-mem00004")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
