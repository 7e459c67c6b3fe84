package repositories

import (
	"context"
	"errors"

	"bookmyflower/internal/models"
)

var (
	// ErrNotFound is returned by every backend when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique field is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
	AggregateByStatus(ctx context.Context) ([]models.StatusAggregate, error)
}
