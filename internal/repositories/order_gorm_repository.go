package repositories

import (
	"context"
	"fmt"
	"time"

	"bookmyflower/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository. Orders and
// their items are written in a single transaction.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, translateGORMError(err))
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("OrderItems").First(&order, "order_id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, translateGORMError(err))
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Preload("OrderItems").Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("customer_email = ?", email).
		Order("order_date desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for %s: %w", email, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Order("order_date desc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return r.updateColumn(ctx, id, "order_status", status)
}

func (r *GORMOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	return r.updateColumn(ctx, id, "payment_status", status)
}

func (r *GORMOrderRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", id).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update %s for order %s: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) AggregateByStatus(ctx context.Context) ([]models.StatusAggregate, error) {
	var rows []models.StatusAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_status AS status, COUNT(*) AS count, COALESCE(SUM(order_total), 0) AS revenue").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	return rows, nil
}
