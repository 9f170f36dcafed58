package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type submitFixture struct {
	*processFixture
	launcher *saga.Launcher
	submit   *SubmitOrder
}

func newSubmitFixture(t *testing.T, policy saga.DuplicatePolicy) *submitFixture {
	pf := newProcessFixture(t)
	launcher := saga.NewLauncher(8, policy, nil)
	return &submitFixture{
		processFixture: pf,
		launcher:       launcher,
		submit:         NewSubmitOrder(pf.repo, launcher, pf.processor),
	}
}

// awaitSaga blocks until the launched saga for orderID settles
func (f *submitFixture) awaitSaga(t *testing.T, orderID string) {
	t.Helper()
	handle, ok := f.launcher.Lookup(orderID)
	require.True(t, ok, "no saga launched for %s", orderID)
	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("saga did not settle in time")
	}
}

func validCommand() *SubmitOrderCommand {
	return &SubmitOrderCommand{
		CustomerID: "CUST-001",
		Items: []SubmitOrderItem{
			{ProductID: "PROD-001", ProductName: "Laptop", Quantity: 1, UnitPrice: 129900},
		},
	}
}

func TestSubmitOrder_Execute_LaunchesSaga(t *testing.T) {
	f := newSubmitFixture(t, saga.ReturnExisting)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-aaaaaaaa"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-aaaaaaaa"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(5.0), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-aaaaaaaa", "TRK1700000000010"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	res, err := f.submit.Execute(ctx, validCommand())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.OrderID.String(), "ORD-"))
	assert.Equal(t, "PROCESSING", res.Status)

	f.awaitSaga(t, res.OrderID.String())

	stored, err := f.repo.FindByOrderID(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestSubmitOrder_Execute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitOrderCommand)
		wantErr string
	}{
		{
			name:    "missing customer",
			mutate:  func(cmd *SubmitOrderCommand) { cmd.CustomerID = "" },
			wantErr: "customer ID is required",
		},
		{
			name:    "no items",
			mutate:  func(cmd *SubmitOrderCommand) { cmd.Items = nil },
			wantErr: "at least one item is required",
		},
		{
			name:    "missing product id",
			mutate:  func(cmd *SubmitOrderCommand) { cmd.Items[0].ProductID = "" },
			wantErr: "product ID is required",
		},
		{
			name:    "zero quantity",
			mutate:  func(cmd *SubmitOrderCommand) { cmd.Items[0].Quantity = 0 },
			wantErr: "quantity must be positive",
		},
		{
			name:    "negative unit price",
			mutate:  func(cmd *SubmitOrderCommand) { cmd.Items[0].UnitPrice = -1 },
			wantErr: "unit price must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmitFixture(t, saga.ReturnExisting)
			cmd := validCommand()
			tt.mutate(cmd)

			res, err := f.submit.Execute(context.Background(), cmd)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSubmitOrder_Execute_DuplicateReturnsSettledStatus(t *testing.T) {
	f := newSubmitFixture(t, saga.ReturnExisting)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-bbbbbbbb"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-bbbbbbbb"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(9.0), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-bbbbbbbb", "TRK1700000000011"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	cmd := validCommand()
	cmd.OrderID = "ORD-bbbbbbbb"

	first, err := f.submit.Execute(ctx, cmd)
	require.NoError(t, err)
	f.awaitSaga(t, first.OrderID.String())

	// Same identity submitted again: no second execution, the settled
	// status comes back.
	second, err := f.submit.Execute(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, string(domain.StatusCompleted), second.Status)
}

func TestSubmitOrder_Execute_DuplicateRejected(t *testing.T) {
	f := newSubmitFixture(t, saga.RejectDuplicate)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-cccccccc"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-cccccccc"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(4.0), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-cccccccc", "TRK1700000000012"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	cmd := validCommand()
	cmd.OrderID = "ORD-cccccccc"

	_, err := f.submit.Execute(ctx, cmd)
	require.NoError(t, err)
	f.awaitSaga(t, cmd.OrderID)

	_, err = f.submit.Execute(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, saga.ErrDuplicateExecution)
}

func TestSubmitOrder_Execute_SagaFailureDoesNotSurface(t *testing.T) {
	f := newSubmitFixture(t, saga.ReturnExisting)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).
		Return(&domain.PaymentResult{Success: false, Message: "Card declined by issuer"}, nil).Once()

	res, err := f.submit.Execute(ctx, validCommand())
	require.NoError(t, err)
	assert.Equal(t, "PROCESSING", res.Status)

	f.awaitSaga(t, res.OrderID.String())

	handle, _ := f.launcher.Lookup(res.OrderID.String())
	assert.True(t, saga.IsBusiness(handle.Err()))

	stored, err := f.repo.FindByOrderID(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompensated, stored.Status)
	assert.Equal(t, "Payment authorization failed: Card declined by issuer", stored.FailureReason)
}
