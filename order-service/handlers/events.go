package handlers

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/application"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// OrderEventHandlers handles order events arriving over the message bus.
// Submission requests delivered this way go through the same use case as the
// HTTP surface, so duplicate deliveries collapse on the order id.
type OrderEventHandlers struct {
	submitOrder *application.SubmitOrder
}

// NewOrderEventHandlers creates new order event handlers
func NewOrderEventHandlers(submitOrder *application.SubmitOrder) *OrderEventHandlers {
	return &OrderEventHandlers{submitOrder: submitOrder}
}

// HandlerID returns the unique identifier for this event handler
func (h *OrderEventHandlers) HandlerID() string {
	return "order-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *OrderEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.OrderSubmissionRequestedEvent:
		return h.HandleSubmissionRequested(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

// HandleSubmissionRequested launches a saga for a submission request event
func (h *OrderEventHandlers) HandleSubmissionRequested(ctx context.Context, event *events.Event) error {
	var cmd application.SubmitOrderCommand
	if err := event.UnmarshalPayload(&cmd); err != nil {
		return errors.Wrap(err, "failed to parse submission request data")
	}
	if cmd.OrderID == "" {
		cmd.OrderID = event.AggregateID.String()
	}

	response, err := h.submitOrder.Execute(ctx, &cmd)
	if err != nil {
		if errors.Is(err, saga.ErrDuplicateExecution) {
			// Redelivery of an already-started submission
			return nil
		}
		return errors.Wrap(err, "failed to submit order from event")
	}

	log.Printf("Launched order saga %s from submission event", response.OrderID)
	return nil
}
