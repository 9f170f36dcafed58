package application

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
	"github.com/rswarup82/order-saga-demo/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Step names, used for invocation metrics and as the compensation log key
const (
	StepAuthorizePayment = "authorize-payment"
	StepReserveInventory = "reserve-inventory"
	StepFraudCheck       = "fraud-check"
	StepArrangeShipping  = "arrange-shipping"
	StepUpdateTracking   = "update-tracking"
)

// Outcome is the terminal result of one saga execution
type Outcome struct {
	OrderID       models.ID
	Status        domain.OrderStatus
	FailureReason string
	Unwind        *saga.UnwindReport
}

// ProcessOrder is the saga coordinator. It owns the fixed step sequence and
// the order state machine: each step is invoked through the activity invoker,
// its status transition is persisted before the next step starts (the
// resumption checkpoint), and compensations are registered as forward steps
// succeed. Any aborting failure triggers the reverse-order unwind and settles
// the order in COMPENSATED.
type ProcessOrder struct {
	orders    domain.OrderRepository
	journal   saga.Journal
	invoker   *saga.Invoker
	payments  domain.PaymentGateway
	inventory domain.InventoryService
	fraud     domain.FraudChecker
	shipping  domain.ShippingCarrier
	publisher events.Publisher
	metrics   *saga.Metrics
}

// NewProcessOrder creates the saga coordinator use case
func NewProcessOrder(
	orders domain.OrderRepository,
	journal saga.Journal,
	invoker *saga.Invoker,
	payments domain.PaymentGateway,
	inventory domain.InventoryService,
	fraud domain.FraudChecker,
	shipping domain.ShippingCarrier,
	publisher events.Publisher,
	metrics *saga.Metrics,
) *ProcessOrder {
	return &ProcessOrder{
		orders:    orders,
		journal:   journal,
		invoker:   invoker,
		payments:  payments,
		inventory: inventory,
		fraud:     fraud,
		shipping:  shipping,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Run executes the saga for a freshly submitted order. The order record is
// created first (PENDING), then the forward sequence runs to COMPLETED or
// aborts into compensation.
func (uc *ProcessOrder) Run(ctx context.Context, order *domain.Order) (*Outcome, error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "saga.process_order",
		trace.WithAttributes(attribute.String("order.id", order.ID.String())))
	defer span.End()

	stack, err := uc.newStack(ctx, order)
	if err != nil {
		return nil, err
	}

	// Step 1: create the order record
	if err := uc.checkpoint(ctx, order); err != nil {
		return nil, err
	}

	outcome, err := uc.advance(ctx, order, stack)
	uc.observe(outcome, started)
	return outcome, err
}

// Resume continues a saga from its persisted status after a restart.
// Already-confirmed steps are not re-run; the compensation stack is rebuilt
// from the durable journal. An order found in FAILED or COMPENSATING resumes
// directly into the unwind.
func (uc *ProcessOrder) Resume(ctx context.Context, order *domain.Order) (*Outcome, error) {
	if order.Status.Terminal() {
		return &Outcome{OrderID: order.ID, Status: order.Status, FailureReason: order.FailureReason}, nil
	}
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "saga.resume_order",
		trace.WithAttributes(
			attribute.String("order.id", order.ID.String()),
			attribute.String("order.status", string(order.Status)),
		))
	defer span.End()

	stack, err := uc.newStack(ctx, order)
	if err != nil {
		return nil, err
	}

	var outcome *Outcome
	switch order.Status {
	case domain.StatusFailed, domain.StatusCompensating:
		outcome, err = uc.compensate(ctx, order, stack)
	default:
		outcome, err = uc.advance(ctx, order, stack)
	}
	uc.observe(outcome, started)
	return outcome, err
}

func (uc *ProcessOrder) newStack(ctx context.Context, order *domain.Order) (*saga.Stack, error) {
	stack := saga.NewStack(order.ID.String(), uc.invoker, uc.journal, uc.compensationFor)
	if err := stack.Restore(ctx); err != nil {
		return nil, errors.Wrapf(err, "order %s", order.ID)
	}
	return stack, nil
}

// advance runs the forward sequence from wherever the order's persisted
// status says it left off.
func (uc *ProcessOrder) advance(ctx context.Context, order *domain.Order, stack *saga.Stack) (*Outcome, error) {
	// Step 2: authorize payment
	if !order.Status.ReachedAtLeast(domain.StatusPaymentAuthorized) {
		res, err := uc.invoker.Invoke(ctx, StepAuthorizePayment, func(ctx context.Context) (saga.StepResult, error) {
			pr, err := uc.payments.Authorize(ctx, order)
			if err != nil {
				return saga.StepResult{}, err
			}
			if !pr.Success {
				return saga.StepFailed(pr.Message), nil
			}
			return saga.StepOK(pr.PaymentID, pr.Message), nil
		})
		if !res.OK {
			return uc.abort(ctx, order, stack, failureReason("Payment authorization failed", res, err))
		}
		if err := stack.Register(ctx, StepAuthorizePayment, res.ResourceID); err != nil {
			return nil, err
		}
		if err := order.AuthorizePayment(res.ResourceID); err != nil {
			return nil, err
		}
		if err := uc.checkpoint(ctx, order); err != nil {
			return nil, err
		}
	}

	// Step 3: reserve inventory
	if !order.Status.ReachedAtLeast(domain.StatusInventoryReserved) {
		res, err := uc.invoker.Invoke(ctx, StepReserveInventory, func(ctx context.Context) (saga.StepResult, error) {
			ir, err := uc.inventory.Reserve(ctx, order)
			if err != nil {
				return saga.StepResult{}, err
			}
			if !ir.Success {
				return saga.StepFailed(ir.Message), nil
			}
			return saga.StepOK(ir.ReservationID, ir.Message), nil
		})
		if !res.OK {
			return uc.abort(ctx, order, stack, failureReason("Inventory reservation failed", res, err))
		}
		if err := stack.Register(ctx, StepReserveInventory, res.ResourceID); err != nil {
			return nil, err
		}
		if err := order.ReserveInventory(res.ResourceID); err != nil {
			return nil, err
		}
		if err := uc.checkpoint(ctx, order); err != nil {
			return nil, err
		}
	}

	// Step 4: fraud check. Advisory, read-only: no compensation registered.
	if !order.Status.ReachedAtLeast(domain.StatusFraudCheckPassed) {
		res, err := uc.invoker.Invoke(ctx, StepFraudCheck, func(ctx context.Context) (saga.StepResult, error) {
			fr, err := uc.fraud.Check(ctx, order)
			if err != nil {
				return saga.StepResult{}, err
			}
			if !fr.Passed {
				return saga.StepFailed(fr.Message), nil
			}
			return saga.StepOK("", fr.Message), nil
		})
		if !res.OK {
			return uc.abort(ctx, order, stack, failureReason("Fraud check failed", res, err))
		}
		if err := order.PassFraudCheck(); err != nil {
			return nil, err
		}
		if err := uc.checkpoint(ctx, order); err != nil {
			return nil, err
		}
	}

	// Step 5: confirm order. Local transition, logically covered by the
	// earlier steps' compensations.
	if !order.Status.ReachedAtLeast(domain.StatusConfirmed) {
		if err := order.Confirm(); err != nil {
			return nil, err
		}
		if err := uc.checkpoint(ctx, order); err != nil {
			return nil, err
		}
	}

	// Step 6: arrange shipping
	if !order.Status.ReachedAtLeast(domain.StatusShippingArranged) {
		res, err := uc.invoker.Invoke(ctx, StepArrangeShipping, func(ctx context.Context) (saga.StepResult, error) {
			sr, err := uc.shipping.Arrange(ctx, order)
			if err != nil {
				return saga.StepResult{}, err
			}
			if !sr.Success {
				return saga.StepFailed(sr.Message), nil
			}
			return saga.StepOK(sr.ShippingID, sr.TrackingNumber), nil
		})
		if !res.OK {
			return uc.abort(ctx, order, stack, failureReason("Shipping arrangement failed", res, err))
		}
		if err := stack.Register(ctx, StepArrangeShipping, res.ResourceID); err != nil {
			return nil, err
		}
		// Detail carries the tracking number assigned by the carrier
		if err := order.ArrangeShipping(res.ResourceID, res.Detail); err != nil {
			return nil, err
		}
		if err := uc.checkpoint(ctx, order); err != nil {
			return nil, err
		}
	}

	// Step 7: update delivery tracking
	if !order.Status.ReachedAtLeast(domain.StatusInDelivery) {
		res, err := uc.invoker.Invoke(ctx, StepUpdateTracking, func(ctx context.Context) (saga.StepResult, error) {
			if err := uc.shipping.ConfirmTracking(ctx, order.ID, order.TrackingNumber); err != nil {
				return saga.StepResult{}, err
			}
			return saga.StepOK(order.TrackingNumber, "tracking confirmed"), nil
		})
		if !res.OK {
			return uc.abort(ctx, order, stack, failureReason("Delivery tracking update failed", res, err))
		}
		if err := order.StartDelivery(); err != nil {
			return nil, err
		}
		if err := uc.checkpoint(ctx, order); err != nil {
			return nil, err
		}
	}

	// Step 8: complete order
	if err := order.Complete(); err != nil {
		return nil, err
	}
	if err := uc.checkpoint(ctx, order); err != nil {
		return nil, err
	}
	if err := stack.Dispose(ctx); err != nil {
		return nil, errors.Wrapf(err, "order %s", order.ID)
	}

	return &Outcome{OrderID: order.ID, Status: order.Status}, nil
}

// abort stops the forward sequence, records the failure and runs the unwind.
// Cancellation never bypasses compensation: if the saga's context is already
// dead, the unwind proceeds on a detached context.
func (uc *ProcessOrder) abort(ctx context.Context, order *domain.Order, stack *saga.Stack, reason string) (*Outcome, error) {
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}

	if err := order.MarkFailed(reason); err != nil {
		return nil, err
	}
	if err := uc.checkpoint(ctx, order); err != nil {
		return nil, err
	}

	return uc.compensate(ctx, order, stack)
}

// compensate unwinds the registered compensations and settles the order in
// COMPENSATED. A partial unwind still reaches COMPENSATED, flagged for
// operator follow-up.
func (uc *ProcessOrder) compensate(ctx context.Context, order *domain.Order, stack *saga.Stack) (*Outcome, error) {
	if err := order.BeginCompensation(); err != nil {
		return nil, err
	}
	if err := uc.checkpoint(ctx, order); err != nil {
		return nil, err
	}

	report := stack.Unwind(ctx)
	uc.metrics.ObserveUnwind(report)

	if err := order.MarkCompensated(report.Partial()); err != nil {
		return nil, err
	}
	if err := uc.checkpoint(ctx, order); err != nil {
		return nil, err
	}
	if err := stack.Dispose(ctx); err != nil {
		return nil, errors.Wrapf(err, "order %s", order.ID)
	}

	outcome := &Outcome{
		OrderID:       order.ID,
		Status:        order.Status,
		FailureReason: order.FailureReason,
		Unwind:        &report,
	}
	return outcome, saga.BusinessErrorf("%s", order.FailureReason)
}

// compensationFor resolves a journal entry to the compensating call that
// releases its resource. Only payment, inventory and shipping register
// compensations; the other steps have no external side effect to undo.
func (uc *ProcessOrder) compensationFor(entry saga.CompensationEntry) saga.Call {
	orderID := models.ID(entry.OrderID)
	switch entry.Step {
	case StepAuthorizePayment:
		return func(ctx context.Context) (saga.StepResult, error) {
			if err := uc.payments.Refund(ctx, orderID, entry.ResourceID); err != nil {
				return saga.StepResult{}, err
			}
			return saga.StepOK(entry.ResourceID, "payment refunded"), nil
		}
	case StepReserveInventory:
		return func(ctx context.Context) (saga.StepResult, error) {
			if err := uc.inventory.Release(ctx, orderID, entry.ResourceID); err != nil {
				return saga.StepResult{}, err
			}
			return saga.StepOK(entry.ResourceID, "reservation released"), nil
		}
	case StepArrangeShipping:
		return func(ctx context.Context) (saga.StepResult, error) {
			if err := uc.shipping.Cancel(ctx, orderID, entry.ResourceID); err != nil {
				return saga.StepResult{}, err
			}
			return saga.StepOK(entry.ResourceID, "shipment cancelled"), nil
		}
	default:
		return func(context.Context) (saga.StepResult, error) {
			return saga.StepFailed("no compensation known for step " + entry.Step), nil
		}
	}
}

// checkpoint persists the order's current status before the saga moves on.
// The durable status record is the single source of truth for resumption;
// event publication is best-effort observability on top of it.
func (uc *ProcessOrder) checkpoint(ctx context.Context, order *domain.Order) error {
	if err := uc.orders.Save(ctx, order); err != nil {
		return errors.Wrapf(err, "failed to persist order %s at %s", order.ID, order.Status)
	}
	if uc.publisher != nil && len(order.Events()) > 0 {
		_ = uc.publisher.Publish(ctx, order.Events()...)
	}
	order.ClearEvents()
	return nil
}

func (uc *ProcessOrder) observe(outcome *Outcome, started time.Time) {
	if outcome == nil {
		return
	}
	uc.metrics.ObserveOutcome(strings.ToLower(string(outcome.Status)), time.Since(started))
}

// failureReason folds the step result and invoker error into the reason
// string stored on the order record.
func failureReason(prefix string, res saga.StepResult, err error) string {
	switch {
	case res.Reason != "":
		return prefix + ": " + res.Reason
	case err != nil:
		return prefix + ": " + err.Error()
	default:
		return prefix
	}
}
