package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookmyflower/internal/models"
)

// InMemoryOrderRepository is an in-memory implementation of OrderRepository.
type InMemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewInMemoryOrderRepository creates a new instance of InMemoryOrderRepository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// cloneOrder copies the item slice so callers cannot mutate stored line items.
func cloneOrder(o models.Order) models.Order {
	o.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	return o
}

// Create adds a new order. The id must be set and unused.
func (r *InMemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.OrderID == "" {
		return fmt.Errorf("order id is required")
	}
	if _, exists := r.orders[order.OrderID]; exists {
		return fmt.Errorf("order %s already exists: %w", order.OrderID, ErrDuplicateKey)
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.OrderID] = cloneOrder(*order)
	return nil
}

// GetByID returns an order by its ID.
func (r *InMemoryOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order = cloneOrder(order)
	return &order, nil
}

// GetAll returns all orders, newest first.
func (r *InMemoryOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }, 0), nil
}

// ListByEmail returns the orders placed with a customer email, newest first.
func (r *InMemoryOrderRepository) ListByEmail(_ context.Context, email string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.CustomerDetails.Email == email }, 0), nil
}

// ListRecent returns at most limit orders, newest first.
func (r *InMemoryOrderRepository) ListRecent(_ context.Context, limit int) ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }, limit), nil
}

func (r *InMemoryOrderRepository) filter(keep func(models.Order) bool, limit int) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			list = append(list, cloneOrder(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OrderDate.After(list[j].OrderDate) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// Count returns the number of stored orders.
func (r *InMemoryOrderRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

// UpdateStatus updates the status of an order.
func (r *InMemoryOrderRepository) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	return r.update(id, func(o *models.Order) { o.OrderStatus = status })
}

// UpdatePaymentStatus updates the payment status of an order.
func (r *InMemoryOrderRepository) UpdatePaymentStatus(_ context.Context, id string, status models.PaymentStatus) error {
	return r.update(id, func(o *models.Order) { o.PaymentStatus = status })
}

func (r *InMemoryOrderRepository) update(id string, apply func(*models.Order)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for update: %w", id, ErrNotFound)
	}
	apply(&order)
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// AggregateByStatus groups order counts and revenue by status.
func (r *InMemoryOrderRepository) AggregateByStatus(_ context.Context) ([]models.StatusAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := make(map[models.OrderStatus]*models.StatusAggregate)
	for _, o := range r.orders {
		agg, ok := byStatus[o.OrderStatus]
		if !ok {
			agg = &models.StatusAggregate{Status: o.OrderStatus}
			byStatus[o.OrderStatus] = agg
		}
		agg.Count++
		agg.Revenue += o.OrderTotal
	}

	rows := make([]models.StatusAggregate, 0, len(byStatus))
	for _, agg := range byStatus {
		rows = append(rows, *agg)
	}
	return rows, nil
}
