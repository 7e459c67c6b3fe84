// Package pricing computes order totals and coupon eligibility. The same
// functions back the checkout preview and the server-side order path.
package pricing

import (
	"errors"
	"time"

	"bookmyflower/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrMinPurchaseNotMet   = errors.New("order subtotal is below the coupon minimum purchase amount")
	ErrUnknownDiscountType = errors.New("unknown coupon discount type")
)

var hundred = decimal.NewFromInt(100)

// Totals is the price breakdown of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Subtotal returns sum(price x quantity) rounded to two places.
func Subtotal(items []models.OrderItem) float64 {
	return subtotal(items).Round(2).InexactFloat64()
}

func subtotal(items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// ComputeOrderTotals prices items with an optional coupon. Eligibility is
// not checked here; callers run CheckEligibility first.
//
// Percentage discounts honour MaxDiscountAmount. The discount never exceeds
// the subtotal, so Total is never negative.
func ComputeOrderTotals(items []models.OrderItem, coupon *models.Coupon) Totals {
	sub := subtotal(items).Round(2)
	discount := decimal.Zero

	if coupon != nil {
		value := decimal.NewFromFloat(coupon.DiscountValue)
		switch coupon.DiscountType {
		case models.DiscountPercentage:
			discount = sub.Mul(value).Div(hundred)
			if coupon.MaxDiscountAmount != nil && *coupon.MaxDiscountAmount > 0 {
				discount = decimal.Min(discount, decimal.NewFromFloat(*coupon.MaxDiscountAmount))
			}
		case models.DiscountFixed:
			discount = value
		}
	}

	discount = decimal.Max(decimal.Zero, decimal.Min(discount, sub)).Round(2)
	total := sub.Sub(discount)

	return Totals{
		Subtotal: sub.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// CheckEligibility returns nil when coupon may be applied to a cart with the
// given subtotal at time now, or the first rule it fails.
func CheckEligibility(coupon *models.Coupon, subtotal float64, now time.Time) error {
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if !now.Before(coupon.ExpiryDate) {
		return ErrCouponExpired
	}
	if decimal.NewFromFloat(subtotal).LessThan(decimal.NewFromFloat(coupon.MinPurchaseAmount)) {
		return ErrMinPurchaseNotMet
	}
	if coupon.DiscountType != models.DiscountPercentage && coupon.DiscountType != models.DiscountFixed {
		return ErrUnknownDiscountType
	}
	return nil
}

// IsEligible is the boolean form of CheckEligibility.
func IsEligible(coupon *models.Coupon, subtotal float64, now time.Time) bool {
	return CheckEligibility(coupon, subtotal, now) == nil
}
