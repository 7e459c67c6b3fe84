package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of the fixed statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// OrderItem is a snapshot of one cart line at order time. Price is the
// resolved unit price (variant or discounted) the customer saw.
type OrderItem struct {
	ID          uint    `json:"-" gorm:"primaryKey" bson:"-"`
	OrderID     string  `json:"-" gorm:"index;type:varchar(64)" bson:"-"`
	ProductID   string  `json:"productId" validate:"required" bson:"productId"`
	Name        string  `json:"name" validate:"required" bson:"name"`
	VariantName string  `json:"variantName,omitempty" bson:"variantName,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,gt=0" bson:"quantity"`
	Price       float64 `json:"price" validate:"gte=0" bson:"price"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
}

// CustomerDetails is embedded in the order; UserID is set only for signed-in customers.
type CustomerDetails struct {
	FirstName string `json:"firstName" validate:"required" bson:"firstName"`
	LastName  string `json:"lastName" validate:"required" bson:"lastName"`
	Email     string `json:"email" gorm:"index" validate:"required,email" bson:"email"`
	Phone     string `json:"phone" validate:"required" bson:"phone"`
	Address   string `json:"address" validate:"required" bson:"address"`
	City      string `json:"city" validate:"required" bson:"city"`
	State     string `json:"state" validate:"required" bson:"state"`
	Country   string `json:"country" validate:"required" bson:"country"`
	Pincode   string `json:"pincode" validate:"required" bson:"pincode"`
	UserID    string `json:"userId,omitempty" bson:"userId,omitempty"`
}

// Order is a placed customer order. Only OrderStatus and PaymentStatus
// change after creation.
type Order struct {
	OrderID         string          `json:"orderId" gorm:"primaryKey;type:varchar(64)" bson:"_id"`
	OrderDate       time.Time       `json:"orderDate" gorm:"index" bson:"orderDate"`
	OrderStatus     OrderStatus     `json:"orderStatus" gorm:"type:varchar(16);index" bson:"orderStatus"`
	OrderTotal      float64         `json:"orderTotal" bson:"orderTotal"`
	Discount        float64         `json:"discount" bson:"discount"`
	CouponApplied   string          `json:"couponApplied" gorm:"type:varchar(3)" bson:"couponApplied"`
	CouponCode      string          `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE" bson:"orderItems"`
	CustomerDetails CustomerDetails `json:"customerDetails" gorm:"embedded;embeddedPrefix:customer_" bson:"customerDetails"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"type:varchar(32)" bson:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(16)" bson:"paymentStatus"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Subtotal is the sum of price x quantity over the line items.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.OrderItems {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// SubmitOrderRequest is the checkout payload. OrderTotal is the client's
// displayed total; the server recomputes it and keeps its own value.
// OrderID and OrderDate are accepted for compatibility with older clients
// but the server assigns its own id.
type SubmitOrderRequest struct {
	OrderID         string           `json:"orderId,omitempty"`
	OrderDate       *time.Time       `json:"orderDate,omitempty"`
	OrderTotal      *float64         `json:"orderTotal" validate:"required"`
	Discount        float64          `json:"discount,omitempty"`
	CouponApplied   string           `json:"couponApplied,omitempty"`
	CouponCode      string           `json:"couponCode,omitempty"`
	OrderItems      []OrderItem      `json:"orderItems" validate:"required,min=1,dive"`
	CustomerDetails *CustomerDetails `json:"customerDetails" validate:"required"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required"`
}

// OrderStats aggregates order counts and revenue for the admin dashboard.
type OrderStats struct {
	TotalOrders  int64                 `json:"totalOrders"`
	TotalRevenue float64               `json:"totalRevenue"` // excludes cancelled orders
	ByStatus     map[OrderStatus]int64 `json:"byStatus"`
}

// StatusAggregate is one row of a group-by-status query.
type StatusAggregate struct {
	Status  OrderStatus `bson:"_id"`
	Count   int64       `bson:"count"`
	Revenue float64     `bson:"revenue"`
}

// BuildOrderStats folds per-status rows into OrderStats.
func BuildOrderStats(rows []StatusAggregate) OrderStats {
	stats := OrderStats{ByStatus: make(map[OrderStatus]int64, len(OrderStatuses))}
	for _, s := range OrderStatuses {
		stats.ByStatus[s] = 0
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] += row.Count
		stats.TotalOrders += row.Count
		if row.Status != StatusCancelled {
			stats.TotalRevenue += row.Revenue
		}
	}
	return stats
}
