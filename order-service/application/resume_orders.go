package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// resumableStatuses are every non-terminal status a crashed coordinator can
// leave behind. Forward statuses resume the step sequence; FAILED and
// COMPENSATING resume the unwind.
var resumableStatuses = []domain.OrderStatus{
	domain.StatusPending,
	domain.StatusPaymentAuthorized,
	domain.StatusInventoryReserved,
	domain.StatusFraudCheckPassed,
	domain.StatusConfirmed,
	domain.StatusShippingArranged,
	domain.StatusInDelivery,
	domain.StatusFailed,
	domain.StatusCompensating,
}

// ResumeOrders reconstructs saga progress from persisted state after a
// restart and relaunches each unfinished saga from its last recorded status.
type ResumeOrders struct {
	orders    domain.OrderRepository
	launcher  *saga.Launcher
	processor *ProcessOrder
}

// NewResumeOrders creates a new ResumeOrders use case
func NewResumeOrders(orders domain.OrderRepository, launcher *saga.Launcher, processor *ProcessOrder) *ResumeOrders {
	return &ResumeOrders{
		orders:    orders,
		launcher:  launcher,
		processor: processor,
	}
}

// Execute scans the state store for unfinished orders and starts a resumed
// saga for each. Returns the number of sagas relaunched.
func (uc *ResumeOrders) Execute(ctx context.Context) (int, error) {
	resumed := 0
	for _, status := range resumableStatuses {
		orders, err := uc.orders.FindByStatus(ctx, status)
		if err != nil {
			return resumed, errors.Wrapf(err, "failed to scan orders in %s", status)
		}

		for _, order := range orders {
			order := order
			_, err := uc.launcher.Start(order.ID.String(), func(ctx context.Context) error {
				_, runErr := uc.processor.Resume(ctx, order)
				return runErr
			})
			if err != nil {
				if errors.Is(err, saga.ErrDuplicateExecution) {
					continue
				}
				return resumed, err
			}
			resumed++
		}
	}
	return resumed, nil
}
