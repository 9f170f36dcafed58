package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/order-service/infrastructure"
	"github.com/rswarup82/order-saga-demo/order-service/mocks"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fastInvoker() *saga.Invoker {
	return saga.NewInvoker(saga.InvokerConfig{
		Timeout:           200 * time.Millisecond,
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}, nil)
}

type processFixture struct {
	repo      *infrastructure.MemoryOrderRepository
	journal   *infrastructure.MemoryCompensationLog
	payments  *mocks.MockPaymentGateway
	inventory *mocks.MockInventoryService
	fraud     *mocks.MockFraudChecker
	shipping  *mocks.MockShippingCarrier
	processor *ProcessOrder

	mu     sync.Mutex
	undone []string
}

func newProcessFixture(t *testing.T) *processFixture {
	f := &processFixture{
		repo:      infrastructure.NewMemoryOrderRepository(),
		journal:   infrastructure.NewMemoryCompensationLog(),
		payments:  mocks.NewMockPaymentGateway(t),
		inventory: mocks.NewMockInventoryService(t),
		fraud:     mocks.NewMockFraudChecker(t),
		shipping:  mocks.NewMockShippingCarrier(t),
	}
	f.processor = NewProcessOrder(
		f.repo, f.journal, fastInvoker(),
		f.payments, f.inventory, f.fraud, f.shipping,
		nil, nil,
	)
	return f
}

func (f *processFixture) recordUndo(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.undone = append(f.undone, step)
}

func (f *processFixture) undoneSteps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.undone...)
}

func newTestOrder(t *testing.T, id string) *domain.Order {
	t.Helper()
	order, err := domain.CreateOrder(models.ID(id), "CUST-001", []domain.OrderItem{
		{ProductID: "PROD-001", ProductName: "Laptop", Quantity: 1, UnitPrice: models.NewMoney(129900, "USD")},
	})
	require.NoError(t, err)
	return order
}

func paymentOK(id string) *domain.PaymentResult {
	return &domain.PaymentResult{Success: true, PaymentID: id, TransactionID: "txn-1", Message: "authorized"}
}

func inventoryOK(id string) *domain.InventoryResult {
	return &domain.InventoryResult{Success: true, ReservationID: id, Message: "reserved"}
}

func fraudOK(score float64) *domain.FraudCheckResult {
	return &domain.FraudCheckResult{Passed: true, RiskScore: score, Message: "clean"}
}

func shippingOK(id, tracking string) *domain.ShippingResult {
	return &domain.ShippingResult{Success: true, ShippingID: id, TrackingNumber: tracking, Carrier: "FedEx", Message: "booked"}
}

func TestProcessOrder_Run_CompletesHappyPath(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-11111111"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-11111111"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(12.5), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-11111111", "TRK1700000000000"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, models.ID("ORD-11111111"), "TRK1700000000000").Return(nil).Once()

	order := newTestOrder(t, "ORD-11111111")
	outcome, err := f.processor.Run(ctx, order)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, outcome.Status)

	stored, err := f.repo.FindByOrderID(ctx, "ORD-11111111")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, "PAY-11111111", stored.PaymentID)
	assert.Equal(t, "RES-11111111", stored.ReservationID)
	assert.Equal(t, "SHIP-11111111", stored.ShippingID)
	assert.Equal(t, "TRK1700000000000", stored.TrackingNumber)
	assert.NotNil(t, stored.CompletedAt)

	// Journal is disposed once the saga settles
	entries, err := f.journal.ByOrder(ctx, "ORD-11111111")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessOrder_Run_FraudDeclineUnwindsInReverseOrder(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-22222222"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-22222222"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).
		Return(&domain.FraudCheckResult{Passed: false, RiskScore: 91.2, Message: "High risk score: 91.2"}, nil).Once()

	f.inventory.EXPECT().Release(mock.Anything, models.ID("ORD-22222222"), "RES-22222222").
		RunAndReturn(func(context.Context, models.ID, string) error {
			f.recordUndo("release")
			return nil
		}).Once()
	f.payments.EXPECT().Refund(mock.Anything, models.ID("ORD-22222222"), "PAY-22222222").
		RunAndReturn(func(context.Context, models.ID, string) error {
			f.recordUndo("refund")
			return nil
		}).Once()

	order := newTestOrder(t, "ORD-22222222")
	outcome, err := f.processor.Run(ctx, order)

	require.Error(t, err)
	assert.True(t, saga.IsBusiness(err))
	assert.Equal(t, domain.StatusCompensated, outcome.Status)
	assert.Equal(t, "Fraud check failed: High risk score: 91.2", outcome.FailureReason)
	require.NotNil(t, outcome.Unwind)
	assert.Len(t, outcome.Unwind.Executed, 2)
	assert.False(t, outcome.Unwind.Partial())

	// Inventory released before payment refunded
	assert.Equal(t, []string{"release", "refund"}, f.undoneSteps())

	stored, err := f.repo.FindByOrderID(ctx, "ORD-22222222")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompensated, stored.Status)
	assert.False(t, stored.PartialCompensation)
}

func TestProcessOrder_Run_ShippingDeclineSkipsShippingCompensation(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-33333333"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-33333333"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(7.0), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).
		Return(&domain.ShippingResult{Success: false, Message: "No carrier available"}, nil).Once()

	f.inventory.EXPECT().Release(mock.Anything, models.ID("ORD-33333333"), "RES-33333333").Return(nil).Once()
	f.payments.EXPECT().Refund(mock.Anything, models.ID("ORD-33333333"), "PAY-33333333").Return(nil).Once()

	order := newTestOrder(t, "ORD-33333333")
	outcome, err := f.processor.Run(ctx, order)

	require.Error(t, err)
	assert.Equal(t, domain.StatusCompensated, outcome.Status)
	assert.Equal(t, "Shipping arrangement failed: No carrier available", outcome.FailureReason)
	// Never-arranged shipping has nothing to cancel
	assert.Len(t, outcome.Unwind.Executed, 2)
}

func TestProcessOrder_Run_TransportFailureExhaustsRetries(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).
		Return(nil, saga.TransportErrorf("payment gateway unreachable")).Times(3)

	order := newTestOrder(t, "ORD-44444444")
	outcome, err := f.processor.Run(ctx, order)

	require.Error(t, err)
	assert.Equal(t, domain.StatusCompensated, outcome.Status)
	assert.Contains(t, outcome.FailureReason, "Payment authorization failed")
	assert.Contains(t, outcome.FailureReason, "exhausted 3 attempts")
	// Nothing succeeded, nothing to unwind
	assert.Empty(t, outcome.Unwind.Executed)
	assert.Empty(t, outcome.Unwind.Failures)
}

func TestProcessOrder_Run_TransientFailureRecovers(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-55555555"), nil).Once()

	calls := 0
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, *domain.Order) (*domain.InventoryResult, error) {
			calls++
			if calls == 1 {
				return nil, saga.TransportErrorf("inventory service timeout")
			}
			return inventoryOK("RES-55555555"), nil
		}).Times(2)
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(3.3), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-55555555", "TRK1700000000001"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	order := newTestOrder(t, "ORD-55555555")
	outcome, err := f.processor.Run(ctx, order)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, outcome.Status)
}

func TestProcessOrder_Run_PartialCompensationIsFlagged(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-66666666"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-66666666"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).
		Return(&domain.FraudCheckResult{Passed: false, RiskScore: 88.0, Message: "High risk score: 88.0"}, nil).Once()

	f.inventory.EXPECT().Release(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	// Refund keeps failing through all its retries
	f.payments.EXPECT().Refund(mock.Anything, mock.Anything, mock.Anything).
		Return(saga.TransportErrorf("refund endpoint down")).Times(3)

	order := newTestOrder(t, "ORD-66666666")
	outcome, err := f.processor.Run(ctx, order)

	require.Error(t, err)
	assert.Equal(t, domain.StatusCompensated, outcome.Status)
	assert.Len(t, outcome.Unwind.Executed, 1)
	require.Len(t, outcome.Unwind.Failures, 1)
	assert.Equal(t, StepAuthorizePayment, outcome.Unwind.Failures[0].Entry.Step)
	assert.True(t, outcome.Unwind.Partial())

	stored, err := f.repo.FindByOrderID(ctx, "ORD-66666666")
	require.NoError(t, err)
	assert.True(t, stored.PartialCompensation)
}

func TestProcessOrder_Resume_SkipsConfirmedSteps(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	// State left behind by a coordinator that crashed after reserving
	// inventory: status checkpointed, both compensations journalled.
	order := newTestOrder(t, "ORD-77777777")
	require.NoError(t, order.AuthorizePayment("PAY-77777777"))
	require.NoError(t, order.ReserveInventory("RES-77777777"))
	require.NoError(t, f.repo.Save(ctx, order))
	require.NoError(t, f.journal.Append(ctx, saga.CompensationEntry{
		Step: StepAuthorizePayment, OrderID: "ORD-77777777", ResourceID: "PAY-77777777", RegisteredAt: time.Now(),
	}))
	require.NoError(t, f.journal.Append(ctx, saga.CompensationEntry{
		Step: StepReserveInventory, OrderID: "ORD-77777777", ResourceID: "RES-77777777", RegisteredAt: time.Now(),
	}))

	// Payment and inventory must not run again
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(1.0), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-77777777", "TRK1700000000002"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	resumed, err := f.repo.FindByOrderID(ctx, "ORD-77777777")
	require.NoError(t, err)
	outcome, err := f.processor.Resume(ctx, resumed)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, outcome.Status)

	stored, err := f.repo.FindByOrderID(ctx, "ORD-77777777")
	require.NoError(t, err)
	assert.Equal(t, "PAY-77777777", stored.PaymentID)
	assert.Equal(t, "SHIP-77777777", stored.ShippingID)
}

func TestProcessOrder_Resume_FromFailedRunsUnwind(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	order := newTestOrder(t, "ORD-88888888")
	require.NoError(t, order.AuthorizePayment("PAY-88888888"))
	require.NoError(t, order.MarkFailed("Inventory reservation failed: Insufficient stock"))
	require.NoError(t, f.repo.Save(ctx, order))
	require.NoError(t, f.journal.Append(ctx, saga.CompensationEntry{
		Step: StepAuthorizePayment, OrderID: "ORD-88888888", ResourceID: "PAY-88888888", RegisteredAt: time.Now(),
	}))

	f.payments.EXPECT().Refund(mock.Anything, models.ID("ORD-88888888"), "PAY-88888888").Return(nil).Once()

	resumed, err := f.repo.FindByOrderID(ctx, "ORD-88888888")
	require.NoError(t, err)
	outcome, err := f.processor.Resume(ctx, resumed)

	require.Error(t, err)
	assert.True(t, saga.IsBusiness(err))
	assert.Equal(t, domain.StatusCompensated, outcome.Status)
	assert.Equal(t, "Inventory reservation failed: Insufficient stock", outcome.FailureReason)
	assert.Len(t, outcome.Unwind.Executed, 1)
}

func TestProcessOrder_Resume_TerminalOrderIsUntouched(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	order := newTestOrder(t, "ORD-99999999")
	require.NoError(t, order.AuthorizePayment("PAY-99999999"))
	require.NoError(t, order.ReserveInventory("RES-99999999"))
	require.NoError(t, order.PassFraudCheck())
	require.NoError(t, order.Confirm())
	require.NoError(t, order.ArrangeShipping("SHIP-99999999", "TRK1700000000003"))
	require.NoError(t, order.StartDelivery())
	require.NoError(t, order.Complete())

	outcome, err := f.processor.Resume(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, outcome.Status)
}

func TestProcessOrder_Run_CancellationStillCompensates(t *testing.T) {
	f := newProcessFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-10101010"), nil).Once()
	// The saga's context dies mid-step; the already-authorized payment must
	// still be refunded.
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, *domain.Order) (*domain.InventoryResult, error) {
			cancel()
			return nil, saga.TransportErrorf("connection lost")
		}).Once()
	f.payments.EXPECT().Refund(mock.Anything, models.ID("ORD-10101010"), "PAY-10101010").Return(nil).Once()

	order := newTestOrder(t, "ORD-10101010")
	outcome, err := f.processor.Run(ctx, order)

	require.Error(t, err)
	assert.Equal(t, domain.StatusCompensated, outcome.Status)
	assert.Len(t, outcome.Unwind.Executed, 1)
}

// capturePublisher records published events for assertions. The Publisher
// interface is variadic, which the generated mock cannot match positionally.
type capturePublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, evts ...*events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

func TestProcessOrder_Run_PublishesLifecycleEvents(t *testing.T) {
	f := newProcessFixture(t)
	publisher := &capturePublisher{}
	processor := NewProcessOrder(
		f.repo, f.journal, fastInvoker(),
		f.payments, f.inventory, f.fraud, f.shipping,
		publisher, nil,
	)
	ctx := context.Background()

	f.payments.EXPECT().Authorize(mock.Anything, mock.Anything).Return(paymentOK("PAY-12121212"), nil).Once()
	f.inventory.EXPECT().Reserve(mock.Anything, mock.Anything).Return(inventoryOK("RES-12121212"), nil).Once()
	f.fraud.EXPECT().Check(mock.Anything, mock.Anything).Return(fraudOK(2.0), nil).Once()
	f.shipping.EXPECT().Arrange(mock.Anything, mock.Anything).Return(shippingOK("SHIP-12121212", "TRK1700000000004"), nil).Once()
	f.shipping.EXPECT().ConfirmTracking(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	order := newTestOrder(t, "ORD-12121212")
	_, err := processor.Run(ctx, order)
	require.NoError(t, err)

	published := publisher.types()
	require.NotEmpty(t, published)
	assert.Equal(t, events.OrderSubmittedEvent, published[0])
	assert.Equal(t, events.OrderCompletedEvent, published[len(published)-1])
	assert.Contains(t, published, events.OrderStatusChangedEvent)
}
