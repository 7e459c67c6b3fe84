package repositories

import (
	"context"
	"fmt"
	"time"

	"bookmyflower/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{db: db}
}

func (r *GORMCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon %s: %w", coupon.Code, translateGORMError(err))
	}
	return nil
}

func (r *GORMCouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get coupon by ID %s: %w", id, translateGORMError(err))
	}
	return &coupon, nil
}

func (r *GORMCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		return nil, fmt.Errorf("failed to get coupon by code %s: %w", code, translateGORMError(err))
	}
	return &coupon, nil
}

func (r *GORMCouponRepository) GetAll(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to get all coupons: %w", err)
	}
	return coupons, nil
}

func (r *GORMCouponRepository) ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND expiry_date > ?", true, now).
		Order("expiry_date asc").
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}
	return coupons, nil
}

func (r *GORMCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	res := r.db.WithContext(ctx).Model(coupon).Select("*").Omit("created_at").Updates(coupon)
	if res.Error != nil {
		return fmt.Errorf("failed to update coupon %s: %w", coupon.ID, translateGORMError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon with ID %s not found for update: %w", coupon.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMCouponRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
