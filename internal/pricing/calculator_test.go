package pricing_test

import (
	"testing"
	"time"

	"bookmyflower/internal/models"
	"bookmyflower/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func cart(lines ...[2]float64) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for i, l := range lines {
		items = append(items, models.OrderItem{
			ProductID: string(rune('a' + i)),
			Name:      "Bouquet",
			Price:     l[0],
			Quantity:  int(l[1]),
		})
	}
	return items
}

func TestComputeOrderTotals_EmptyCart(t *testing.T) {
	totals := pricing.ComputeOrderTotals(nil, nil)
	assert.Equal(t, pricing.Totals{}, totals)
}

func TestComputeOrderTotals_NoCoupon(t *testing.T) {
	totals := pricing.ComputeOrderTotals(cart([2]float64{499.5, 2}, [2]float64{101, 1}), nil)
	assert.Equal(t, 1100.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 1100.0, totals.Total)
}

func TestComputeOrderTotals_FixedCoupon(t *testing.T) {
	coupon := &models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: 200}
	totals := pricing.ComputeOrderTotals(cart([2]float64{600, 2}), coupon)

	assert.Equal(t, 1200.0, totals.Subtotal)
	assert.Equal(t, 200.0, totals.Discount)
	assert.Equal(t, 1000.0, totals.Total)
}

func TestComputeOrderTotals_FixedCouponLargerThanSubtotal(t *testing.T) {
	coupon := &models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: 500}
	totals := pricing.ComputeOrderTotals(cart([2]float64{150, 2}), coupon)

	assert.Equal(t, 300.0, totals.Subtotal)
	assert.Equal(t, 300.0, totals.Discount)
	assert.Equal(t, 0.0, totals.Total)
}

func TestComputeOrderTotals_PercentageCapped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:      models.DiscountPercentage,
		DiscountValue:     20,
		MaxDiscountAmount: floatPtr(500),
	}
	totals := pricing.ComputeOrderTotals(cart([2]float64{2500, 2}), coupon)

	assert.Equal(t, 5000.0, totals.Subtotal)
	assert.Equal(t, 500.0, totals.Discount)
	assert.Equal(t, 4500.0, totals.Total)
}

func TestComputeOrderTotals_PercentageUncapped(t *testing.T) {
	coupon := &models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: 15}
	totals := pricing.ComputeOrderTotals(cart([2]float64{333.33, 3}), coupon)

	assert.Equal(t, 999.99, totals.Subtotal)
	assert.Equal(t, 150.0, totals.Discount)
	assert.Equal(t, 849.99, totals.Total)
}

func TestComputeOrderTotals_Invariants(t *testing.T) {
	carts := [][]models.OrderItem{
		nil,
		cart([2]float64{0.01, 1}),
		cart([2]float64{99.99, 3}, [2]float64{12.5, 4}),
		cart([2]float64{1250, 1}, [2]float64{349, 2}, [2]float64{75.25, 7}),
	}
	coupons := []*models.Coupon{nil}
	for _, pct := range []float64{0.5, 1, 10, 33.3, 50, 99.9, 100} {
		coupons = append(coupons, &models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: pct})
	}
	for _, amount := range []float64{1, 50, 10000} {
		coupons = append(coupons, &models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: amount})
	}

	for _, items := range carts {
		for _, coupon := range coupons {
			totals := pricing.ComputeOrderTotals(items, coupon)

			assert.GreaterOrEqual(t, totals.Total, 0.0)
			assert.InDelta(t, totals.Subtotal-totals.Discount, totals.Total, 0.0001)
			assert.GreaterOrEqual(t, totals.Discount, 0.0)
			assert.LessOrEqual(t, totals.Discount, totals.Subtotal)
		}
	}
}

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	base := models.Coupon{
		Code:              "ROSES10",
		DiscountType:      models.DiscountPercentage,
		DiscountValue:     10,
		ExpiryDate:        now.Add(24 * time.Hour),
		MinPurchaseAmount: 999,
		IsActive:          true,
	}

	eligible := base
	assert.NoError(t, pricing.CheckEligibility(&eligible, 999, now))

	inactive := base
	inactive.IsActive = false
	assert.ErrorIs(t, pricing.CheckEligibility(&inactive, 2000, now), pricing.ErrCouponInactive)

	expired := base
	expired.ExpiryDate = now
	assert.ErrorIs(t, pricing.CheckEligibility(&expired, 2000, now), pricing.ErrCouponExpired)

	assert.ErrorIs(t, pricing.CheckEligibility(&eligible, 998.99, now), pricing.ErrMinPurchaseNotMet)
}

func TestIsEligible_MonotonicInSubtotal(t *testing.T) {
	now := time.Now()
	coupon := &models.Coupon{
		DiscountType:      models.DiscountFixed,
		DiscountValue:     100,
		ExpiryDate:        now.Add(time.Hour),
		MinPurchaseAmount: 500,
		IsActive:          true,
	}

	subtotals := []float64{0, 250, 499.99, 500, 500.01, 1000, 1e6}
	for i, s1 := range subtotals {
		if !pricing.IsEligible(coupon, s1, now) {
			continue
		}
		for _, s2 := range subtotals[i:] {
			assert.True(t, pricing.IsEligible(coupon, s2, now), "subtotal %v eligible but %v is not", s1, s2)
		}
	}
}
