package domain

import (
	"testing"

	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []OrderItem {
	return []OrderItem{
		{ProductID: "PROD-001", ProductName: "Laptop", Quantity: 1, UnitPrice: models.NewMoney(129900, "USD")},
		{ProductID: "PROD-002", ProductName: "Mouse", Quantity: 2, UnitPrice: models.NewMoney(2500, "USD")},
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		orderID    models.ID
		customerID models.ID
		items      []OrderItem
		wantErr    string
		wantTotal  int64
	}{
		{
			name:       "valid order computes line and order totals",
			orderID:    "ORD-11111111",
			customerID: "CUST-001",
			items:      testItems(),
			wantTotal:  134900,
		},
		{
			name:       "missing order id",
			customerID: "CUST-001",
			items:      testItems(),
			wantErr:    "order ID is required",
		},
		{
			name:    "missing customer id",
			orderID: "ORD-11111111",
			items:   testItems(),
			wantErr: "customer ID is required",
		},
		{
			name:       "no items",
			orderID:    "ORD-11111111",
			customerID: "CUST-001",
			wantErr:    "at least one item",
		},
		{
			name:       "zero quantity",
			orderID:    "ORD-11111111",
			customerID: "CUST-001",
			items: []OrderItem{
				{ProductID: "PROD-001", Quantity: 0, UnitPrice: models.NewMoney(100, "USD")},
			},
			wantErr: "quantity must be positive",
		},
		{
			name:       "negative unit price",
			orderID:    "ORD-11111111",
			customerID: "CUST-001",
			items: []OrderItem{
				{ProductID: "PROD-001", Quantity: 1, UnitPrice: models.NewMoney(-100, "USD")},
			},
			wantErr: "unit price must not be negative",
		},
		{
			name:       "currency mismatch across items",
			orderID:    "ORD-11111111",
			customerID: "CUST-001",
			items: []OrderItem{
				{ProductID: "PROD-001", Quantity: 1, UnitPrice: models.NewMoney(100, "USD")},
				{ProductID: "PROD-002", Quantity: 1, UnitPrice: models.NewMoney(100, "EUR")},
			},
			wantErr: "currency mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := CreateOrder(tt.orderID, tt.customerID, tt.items)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusPending, order.Status)
			assert.Equal(t, tt.wantTotal, order.Total.Amount)
			assert.Equal(t, int64(129900), order.Items[0].TotalPrice.Amount)
			assert.Equal(t, int64(5000), order.Items[1].TotalPrice.Amount)

			require.Len(t, order.Events(), 1)
			assert.Equal(t, events.OrderSubmittedEvent, order.Events()[0].EventType)
		})
	}
}

func TestOrder_HappyPathTransitions(t *testing.T) {
	order, err := CreateOrder("ORD-11111111", "CUST-001", testItems())
	require.NoError(t, err)
	order.ClearEvents()

	require.NoError(t, order.AuthorizePayment("PAY-11111111"))
	assert.Equal(t, StatusPaymentAuthorized, order.Status)
	assert.Equal(t, "PAY-11111111", order.PaymentID)

	require.NoError(t, order.ReserveInventory("RES-11111111"))
	assert.Equal(t, StatusInventoryReserved, order.Status)
	assert.Equal(t, "RES-11111111", order.ReservationID)

	require.NoError(t, order.PassFraudCheck())
	assert.Equal(t, StatusFraudCheckPassed, order.Status)

	require.NoError(t, order.Confirm())
	assert.Equal(t, StatusConfirmed, order.Status)

	require.NoError(t, order.ArrangeShipping("SHIP-11111111", "TRK1700000000000"))
	assert.Equal(t, StatusShippingArranged, order.Status)
	assert.Equal(t, "TRK1700000000000", order.TrackingNumber)

	require.NoError(t, order.StartDelivery())
	assert.Equal(t, StatusInDelivery, order.Status)

	require.NoError(t, order.Complete())
	assert.Equal(t, StatusCompleted, order.Status)
	assert.True(t, order.Status.Terminal())
	require.NotNil(t, order.CompletedAt)

	// Each transition recorded an event, completion its own type
	recorded := order.Events()
	require.NotEmpty(t, recorded)
	assert.Equal(t, events.OrderCompletedEvent, recorded[len(recorded)-1].EventType)
}

func TestOrder_InvalidTransitions(t *testing.T) {
	order, err := CreateOrder("ORD-11111111", "CUST-001", testItems())
	require.NoError(t, err)

	assert.Error(t, order.Confirm())
	assert.Error(t, order.ReserveInventory("RES-11111111"))
	assert.Error(t, order.Complete())

	require.NoError(t, order.AuthorizePayment("PAY-11111111"))
	assert.Error(t, order.AuthorizePayment("PAY-22222222"))
}

func TestOrder_FailureAndCompensation(t *testing.T) {
	order, err := CreateOrder("ORD-11111111", "CUST-001", testItems())
	require.NoError(t, err)
	require.NoError(t, order.AuthorizePayment("PAY-11111111"))
	require.NoError(t, order.ReserveInventory("RES-11111111"))

	require.NoError(t, order.MarkFailed("Fraud check failed: High risk score: 91.2"))
	assert.Equal(t, StatusFailed, order.Status)
	assert.Equal(t, "Fraud check failed: High risk score: 91.2", order.FailureReason)

	// No forward transition leaves FAILED
	assert.Error(t, order.PassFraudCheck())

	require.NoError(t, order.BeginCompensation())
	assert.Equal(t, StatusCompensating, order.Status)

	require.NoError(t, order.MarkCompensated(false))
	assert.Equal(t, StatusCompensated, order.Status)
	assert.True(t, order.Status.Terminal())
	assert.False(t, order.PartialCompensation)

	// Terminal states accept no further failure
	assert.Error(t, order.MarkFailed("again"))
	assert.Error(t, order.BeginCompensation())
}

func TestOrder_PartialCompensationFlag(t *testing.T) {
	order, err := CreateOrder("ORD-11111111", "CUST-001", testItems())
	require.NoError(t, err)
	require.NoError(t, order.MarkFailed("Payment authorization failed: Card declined by issuer"))
	require.NoError(t, order.BeginCompensation())
	require.NoError(t, order.MarkCompensated(true))

	assert.True(t, order.PartialCompensation)
}

func TestOrder_CompensationResumesFromCompensating(t *testing.T) {
	order, err := CreateOrder("ORD-11111111", "CUST-001", testItems())
	require.NoError(t, err)
	require.NoError(t, order.MarkFailed("Shipping arrangement failed: No carrier available"))
	require.NoError(t, order.BeginCompensation())

	// A restarted coordinator re-enters the unwind from COMPENSATING
	require.NoError(t, order.BeginCompensation())
	assert.Equal(t, StatusCompensating, order.Status)
}

func TestOrderStatus_ReachedAtLeast(t *testing.T) {
	assert.True(t, StatusConfirmed.ReachedAtLeast(StatusPaymentAuthorized))
	assert.True(t, StatusConfirmed.ReachedAtLeast(StatusConfirmed))
	assert.False(t, StatusPending.ReachedAtLeast(StatusPaymentAuthorized))
	assert.False(t, StatusFailed.ReachedAtLeast(StatusPending))
	assert.False(t, StatusCompensating.ReachedAtLeast(StatusPending))
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("INVENTORY_RESERVED")
	require.NoError(t, err)
	assert.Equal(t, StatusInventoryReserved, status)

	_, err = ParseOrderStatus("SHIPPED")
	assert.Error(t, err)
}
