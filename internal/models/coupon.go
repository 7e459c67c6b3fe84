package models

import "time"

// DiscountType selects how a coupon's DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is an admin-defined discount code. The checkout flow only reads it.
type Coupon struct {
	ID                string       `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Code              string       `json:"code" gorm:"uniqueIndex;type:varchar(64)" bson:"code"`
	DiscountType      DiscountType `json:"discountType" gorm:"type:varchar(16)" bson:"discountType"`
	DiscountValue     float64      `json:"discountValue" bson:"discountValue"`
	ExpiryDate        time.Time    `json:"expiryDate" bson:"expiryDate"`
	MinPurchaseAmount float64      `json:"minPurchaseAmount" bson:"minPurchaseAmount"`
	MaxDiscountAmount *float64     `json:"maxDiscountAmount,omitempty" bson:"maxDiscountAmount,omitempty"` // percentage coupons only
	IsActive          bool         `json:"isActive" bson:"isActive"`
	CreatedAt         time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// CouponRequest is the admin payload for creating or editing a coupon.
type CouponRequest struct {
	Code              string       `json:"code" validate:"required,min=3,max=64"`
	DiscountType      DiscountType `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64      `json:"discountValue" validate:"required,gt=0"`
	ExpiryDate        time.Time    `json:"expiryDate" validate:"required"`
	MinPurchaseAmount float64      `json:"minPurchaseAmount" validate:"gte=0"`
	MaxDiscountAmount *float64     `json:"maxDiscountAmount,omitempty" validate:"omitempty,gt=0"`
	IsActive          *bool        `json:"isActive,omitempty"`
}

// ApplyCouponRequest asks for a price preview of a cart with a coupon code.
type ApplyCouponRequest struct {
	CouponCode string      `json:"couponCode" validate:"required"`
	Items      []OrderItem `json:"items" validate:"required,min=1,dive"`
}
