package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/events"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// postgresOrder represents an order row. Line items are immutable once the
// transaction starts, so they are stored as a JSONB document.
type postgresOrder struct {
	OrderID             string     `db:"order_id"`
	CustomerID          string     `db:"customer_id"`
	Items               []byte     `db:"items"`
	TotalAmount         int64      `db:"total_amount"`
	Currency            string     `db:"currency"`
	Status              string     `db:"status"`
	PaymentID           *string    `db:"payment_id"`
	ReservationID       *string    `db:"reservation_id"`
	ShippingID          *string    `db:"shipping_id"`
	TrackingNumber      *string    `db:"tracking_number"`
	FailureReason       *string    `db:"failure_reason"`
	PartialCompensation bool       `db:"partial_compensation"`
	CompletedAt         *time.Time `db:"completed_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	Version             int        `db:"version"`
}

const orderColumns = `
	order_id, customer_id, items, total_amount, currency, status,
	payment_id, reservation_id, shipping_id, tracking_number,
	failure_reason, partial_compensation, completed_at,
	created_at, updated_at, version`

// Save persists the order. The submission event selects an insert; every
// other recorded event is a status checkpoint and selects an update guarded
// by optimistic locking.
func (r *PostgresOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	for _, event := range order.Events() {
		if event.EventType == events.OrderSubmittedEvent {
			return r.insertOrder(ctx, order)
		}
	}
	return r.updateOrder(ctx, order)
}

func (r *PostgresOrderRepository) insertOrder(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			order_id, customer_id, items, total_amount, currency, status,
			partial_compensation, created_at, updated_at, version
		) VALUES (
			:order_id, :customer_id, :items, :total_amount, :currency, :status,
			:partial_compensation, :created_at, :updated_at, :version
		)
		ON CONFLICT (order_id) DO NOTHING`

	pgOrder, err := r.toPostgres(order)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, query, pgOrder); err != nil {
		return errors.Wrap(err, "failed to insert order")
	}
	return nil
}

func (r *PostgresOrderRepository) updateOrder(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = :status,
			payment_id = :payment_id,
			reservation_id = :reservation_id,
			shipping_id = :shipping_id,
			tracking_number = :tracking_number,
			failure_reason = :failure_reason,
			partial_compensation = :partial_compensation,
			completed_at = :completed_at,
			updated_at = :updated_at,
			version = :version
		WHERE order_id = :order_id AND version < :version`

	pgOrder, err := r.toPostgres(order)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, query, pgOrder); err != nil {
		return errors.Wrap(err, "failed to update order")
	}
	return nil
}

// FindByOrderID finds an order by its business id
func (r *PostgresOrderRepository) FindByOrderID(ctx context.Context, id models.ID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	var pgOrder postgresOrder
	err := r.db.GetContext(ctx, &pgOrder, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Wrapf(saga.ErrNotFound, "order %s", id)
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	return r.toDomain(&pgOrder)
}

// FindByCustomerID finds orders for one customer, newest first
func (r *PostgresOrderRepository) FindByCustomerID(ctx context.Context, customerID models.ID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.selectOrders(ctx, query, customerID.String())
}

// FindByStatus finds orders in one status, newest first
func (r *PostgresOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at DESC`
	return r.selectOrders(ctx, query, string(status))
}

// FindAll lists every order, newest first
func (r *PostgresOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.selectOrders(ctx, query)
}

func (r *PostgresOrderRepository) selectOrders(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	var pgOrders []postgresOrder
	if err := r.db.SelectContext(ctx, &pgOrders, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to select orders")
	}

	orders := make([]*domain.Order, len(pgOrders))
	for i := range pgOrders {
		order, err := r.toDomain(&pgOrders[i])
		if err != nil {
			return nil, err
		}
		orders[i] = order
	}
	return orders, nil
}

func (r *PostgresOrderRepository) toPostgres(order *domain.Order) (*postgresOrder, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal order items")
	}

	return &postgresOrder{
		OrderID:             order.ID.String(),
		CustomerID:          order.CustomerID.String(),
		Items:               items,
		TotalAmount:         order.Total.Amount,
		Currency:            order.Total.Currency,
		Status:              string(order.Status),
		PaymentID:           nullable(order.PaymentID),
		ReservationID:       nullable(order.ReservationID),
		ShippingID:          nullable(order.ShippingID),
		TrackingNumber:      nullable(order.TrackingNumber),
		FailureReason:       nullable(order.FailureReason),
		PartialCompensation: order.PartialCompensation,
		CompletedAt:         order.CompletedAt,
		CreatedAt:           order.Timestamps.CreatedAt,
		UpdatedAt:           order.Timestamps.UpdatedAt,
		Version:             order.Version.Value,
	}, nil
}

func (r *PostgresOrderRepository) toDomain(pgOrder *postgresOrder) (*domain.Order, error) {
	var items []domain.OrderItem
	if err := json.Unmarshal(pgOrder.Items, &items); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal order items")
	}

	return &domain.Order{
		ID:                  models.ID(pgOrder.OrderID),
		CustomerID:          models.ID(pgOrder.CustomerID),
		Items:               items,
		Total:               models.NewMoney(pgOrder.TotalAmount, pgOrder.Currency),
		Status:              domain.OrderStatus(pgOrder.Status),
		PaymentID:           stringValue(pgOrder.PaymentID),
		ReservationID:       stringValue(pgOrder.ReservationID),
		ShippingID:          stringValue(pgOrder.ShippingID),
		TrackingNumber:      stringValue(pgOrder.TrackingNumber),
		FailureReason:       stringValue(pgOrder.FailureReason),
		PartialCompensation: pgOrder.PartialCompensation,
		CompletedAt:         pgOrder.CompletedAt,
		Timestamps: models.Timestamps{
			CreatedAt: pgOrder.CreatedAt,
			UpdatedAt: pgOrder.UpdatedAt,
		},
		Version: models.Version{Value: pgOrder.Version},
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
