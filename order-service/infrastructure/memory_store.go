package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rswarup82/order-saga-demo/order-service/domain"
	"github.com/rswarup82/order-saga-demo/shared/models"
	"github.com/rswarup82/order-saga-demo/shared/saga"
)

// MemoryOrderRepository implements OrderRepository in memory. It backs the
// local storage mode and the application tests.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewMemoryOrderRepository creates a new MemoryOrderRepository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]domain.Order)}
}

// Save stores a copy of the order keyed by order id
func (r *MemoryOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := *order
	snapshot.Items = append([]domain.OrderItem(nil), order.Items...)
	snapshot.ClearEvents()
	r.orders[order.ID.String()] = snapshot
	return nil
}

// FindByOrderID finds an order by its business id
func (r *MemoryOrderRepository) FindByOrderID(ctx context.Context, id models.ID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id.String()]
	if !ok {
		return nil, errors.Wrapf(saga.ErrNotFound, "order %s", id)
	}
	return &order, nil
}

// FindByCustomerID finds orders for one customer, newest first
func (r *MemoryOrderRepository) FindByCustomerID(ctx context.Context, customerID models.ID) ([]*domain.Order, error) {
	return r.filter(func(order *domain.Order) bool {
		return order.CustomerID == customerID
	}), nil
}

// FindByStatus finds orders in one status, newest first
func (r *MemoryOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.filter(func(order *domain.Order) bool {
		return order.Status == status
	}), nil
}

// FindAll lists every order, newest first
func (r *MemoryOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.filter(func(*domain.Order) bool { return true }), nil
}

func (r *MemoryOrderRepository) filter(keep func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*domain.Order
	for key := range r.orders {
		order := r.orders[key]
		if keep(&order) {
			orders = append(orders, &order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Timestamps.CreatedAt.After(orders[j].Timestamps.CreatedAt)
	})
	return orders
}

// MemoryCompensationLog implements saga.Journal in memory
type MemoryCompensationLog struct {
	mu      sync.Mutex
	entries map[string][]saga.CompensationEntry
}

// NewMemoryCompensationLog creates a new MemoryCompensationLog
func NewMemoryCompensationLog() *MemoryCompensationLog {
	return &MemoryCompensationLog{entries: make(map[string][]saga.CompensationEntry)}
}

// Append records one compensation entry, ignoring duplicate steps
func (l *MemoryCompensationLog) Append(ctx context.Context, entry saga.CompensationEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.entries[entry.OrderID] {
		if existing.Step == entry.Step {
			return nil
		}
	}
	l.entries[entry.OrderID] = append(l.entries[entry.OrderID], entry)
	return nil
}

// ByOrder returns the entries for one order in append order
func (l *MemoryCompensationLog) ByOrder(ctx context.Context, orderID string) ([]saga.CompensationEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]saga.CompensationEntry(nil), l.entries[orderID]...), nil
}

// Dispose deletes all entries for a finished order
func (l *MemoryCompensationLog) Dispose(ctx context.Context, orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, orderID)
	return nil
}
