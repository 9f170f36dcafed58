package handlers

import (
	"context"
	"testing"

	"github.com/rswarup82/order-saga-demo/order-service/application"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submissionEvent(t *testing.T, orderID string) *events.Event {
	t.Helper()
	return events.NewEvent(models.ID(orderID), events.OrderSubmissionRequestedEvent, application.SubmitOrderCommand{
		CustomerID: "CUST-001",
		Items: []application.SubmitOrderItem{
			{ProductID: "PROD-001", ProductName: "Laptop", Quantity: 1, UnitPrice: 129900},
		},
	})
}

func TestOrderEventHandlers_Handle(t *testing.T) {
	t.Run("submission request launches saga", func(t *testing.T) {
		f := newHandlerFixture(t, saga.ReturnExisting)
		h := NewOrderEventHandlers(application.NewSubmitOrder(f.repo, f.launcher, f.processor))

		err := h.Handle(context.Background(), submissionEvent(t, "ORD-event001"))
		require.NoError(t, err)

		handle, ok := f.launcher.Lookup("ORD-event001")
		require.True(t, ok)
		<-handle.Done()

		stored, err := f.repo.FindByOrderID(context.Background(), "ORD-event001")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, stored.Status)
	})

	t.Run("redelivery is ignored under reject policy", func(t *testing.T) {
		f := newHandlerFixture(t, saga.RejectDuplicate)
		h := NewOrderEventHandlers(application.NewSubmitOrder(f.repo, f.launcher, f.processor))
		event := submissionEvent(t, "ORD-event002")

		require.NoError(t, h.Handle(context.Background(), event))
		handle, ok := f.launcher.Lookup("ORD-event002")
		require.True(t, ok)
		<-handle.Done()

		// Same event delivered again does not fail the consumer
		require.NoError(t, h.Handle(context.Background(), event))
	})

	t.Run("unknown event type is ignored", func(t *testing.T) {
		f := newHandlerFixture(t, saga.ReturnExisting)
		h := NewOrderEventHandlers(application.NewSubmitOrder(f.repo, f.launcher, f.processor))

		err := h.Handle(context.Background(), events.NewEvent(models.ID("ORD-event003"), "order.unknown", nil))
		require.NoError(t, err)
		_, ok := f.launcher.Lookup("ORD-event003")
		assert.False(t, ok)
	})
}
