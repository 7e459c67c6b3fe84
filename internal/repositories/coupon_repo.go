package repositories

import (
	"context"
	"time"

	"bookmyflower/internal/models"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetAll(ctx context.Context) ([]models.Coupon, error)
	// ListActive returns active coupons whose expiry is after now.
	ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id string) error
}
