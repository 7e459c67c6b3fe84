package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookmyflower/internal/models"

	"github.com/google/uuid"
)

// InMemoryCouponRepository is an in-memory implementation of CouponRepository.
type InMemoryCouponRepository struct {
	coupons map[string]models.Coupon
	mu      sync.RWMutex
}

// NewInMemoryCouponRepository creates a new instance of InMemoryCouponRepository.
func NewInMemoryCouponRepository() *InMemoryCouponRepository {
	return &InMemoryCouponRepository{
		coupons: make(map[string]models.Coupon),
	}
}

// Create adds a new coupon. Codes are unique and case-sensitive.
func (r *InMemoryCouponRepository) Create(_ context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if c.Code == coupon.Code {
			return fmt.Errorf("coupon code %s already exists: %w", coupon.Code, ErrDuplicateKey)
		}
	}
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	now := time.Now()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	r.coupons[coupon.ID] = *coupon
	return nil
}

// GetByID returns a coupon by its ID.
func (r *InMemoryCouponRepository) GetByID(_ context.Context, id string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.coupons[id]
	if !ok {
		return nil, fmt.Errorf("coupon with ID %s: %w", id, ErrNotFound)
	}
	return &coupon, nil
}

// GetByCode returns the coupon with an exactly matching code.
func (r *InMemoryCouponRepository) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("coupon with code %s: %w", code, ErrNotFound)
}

// GetAll returns every coupon, newest first.
func (r *InMemoryCouponRepository) GetAll(_ context.Context) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// ListActive returns active, unexpired coupons ordered by expiry.
func (r *InMemoryCouponRepository) ListActive(_ context.Context, now time.Time) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Coupon, 0)
	for _, c := range r.coupons {
		if c.IsActive && c.ExpiryDate.After(now) {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiryDate.Before(list[j].ExpiryDate) })
	return list, nil
}

// Update replaces an existing coupon.
func (r *InMemoryCouponRepository) Update(_ context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.coupons[coupon.ID]
	if !ok {
		return fmt.Errorf("coupon with ID %s not found for update: %w", coupon.ID, ErrNotFound)
	}
	for id, c := range r.coupons {
		if id != coupon.ID && c.Code == coupon.Code {
			return fmt.Errorf("coupon code %s already exists: %w", coupon.Code, ErrDuplicateKey)
		}
	}
	coupon.CreatedAt = existing.CreatedAt
	coupon.UpdatedAt = time.Now()
	r.coupons[coupon.ID] = *coupon
	return nil
}

// Delete removes a coupon by its ID.
func (r *InMemoryCouponRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return fmt.Errorf("coupon with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.coupons, id)
	return nil
}
