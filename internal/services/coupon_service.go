package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookmyflower/internal/models"
	"bookmyflower/internal/pricing"
	"bookmyflower/internal/repositories"
)

// CouponService handles coupon administration and the checkout price preview.
type CouponService struct {
	repo repositories.CouponRepository
	now  func() time.Time
}

func NewCouponService(repo repositories.CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// validateCouponRequest checks the value ranges struct tags cannot express.
func validateCouponRequest(req *models.CouponRequest) error {
	req.Code = strings.TrimSpace(req.Code)
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.DiscountType == models.DiscountPercentage && req.DiscountValue > 100 {
		return newValidationError("discountValue", "percentage discount must be in (0, 100]")
	}
	if req.DiscountType == models.DiscountFixed && req.MaxDiscountAmount != nil {
		return newValidationError("maxDiscountAmount", "only applies to percentage coupons")
	}
	return nil
}

func applyCouponRequest(c *models.Coupon, req *models.CouponRequest) {
	c.Code = req.Code
	c.DiscountType = req.DiscountType
	c.DiscountValue = req.DiscountValue
	c.ExpiryDate = req.ExpiryDate
	c.MinPurchaseAmount = req.MinPurchaseAmount
	c.MaxDiscountAmount = req.MaxDiscountAmount
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

func (s *CouponService) CreateCoupon(ctx context.Context, req *models.CouponRequest) (*models.Coupon, error) {
	if err := validateCouponRequest(req); err != nil {
		return nil, err
	}
	coupon := &models.Coupon{IsActive: true}
	applyCouponRequest(coupon, req)
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, translateRepoError(err)
	}
	return coupon, nil
}

func (s *CouponService) UpdateCoupon(ctx context.Context, id string, req *models.CouponRequest) (*models.Coupon, error) {
	if err := validateCouponRequest(req); err != nil {
		return nil, err
	}
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	applyCouponRequest(coupon, req)
	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, translateRepoError(err)
	}
	return coupon, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return translateRepoError(s.repo.Delete(ctx, id))
}

func (s *CouponService) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return coupon, nil
}

func (s *CouponService) ListAllCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.GetAll(ctx)
}

// ListActiveCoupons returns the coupons a customer can currently see.
func (s *CouponService) ListActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.ListActive(ctx, s.now())
}

// ResolveCoupon loads a coupon by code and checks it against subtotal.
func (s *CouponService) ResolveCoupon(ctx context.Context, code string, subtotal float64) (*models.Coupon, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		err = translateRepoError(err)
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: coupon %q does not exist", ErrCouponNotApplicable, code)
		}
		return nil, err
	}
	if err := pricing.CheckEligibility(coupon, subtotal, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouponNotApplicable, err)
	}
	return coupon, nil
}

// ApplyCoupon previews the totals of a cart with a coupon.
func (s *CouponService) ApplyCoupon(ctx context.Context, req *models.ApplyCouponRequest) (pricing.Totals, *models.Coupon, error) {
	if err := validateStruct(req); err != nil {
		return pricing.Totals{}, nil, err
	}
	coupon, err := s.ResolveCoupon(ctx, req.CouponCode, pricing.Subtotal(req.Items))
	if err != nil {
		return pricing.Totals{}, nil, err
	}
	return pricing.ComputeOrderTotals(req.Items, coupon), coupon, nil
}
