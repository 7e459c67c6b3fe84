package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bookmyflower/internal/models"
	"bookmyflower/internal/notify"
	"bookmyflower/internal/repositories"
	"bookmyflower/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc      *services.OrderService
	orders   *repositories.InMemoryOrderRepository
	coupons  *services.CouponService
	sender   *recordingSender
	notifier *services.Notifier
}

func newOrderFixture(t *testing.T, opts services.OrderOptions) *orderFixture {
	t.Helper()
	ctx := context.Background()

	pincodeRepo := repositories.NewInMemoryPincodeRepository()
	require.NoError(t, pincodeRepo.Create(ctx, &models.ServiceablePincode{Pincode: 201301, IsActive: true}))
	require.NoError(t, pincodeRepo.Create(ctx, &models.ServiceablePincode{Pincode: 110001, IsActive: false}))

	coupons := services.NewCouponService(repositories.NewInMemoryCouponRepository())
	composer, err := notify.NewComposer("shop@example.com", "admin@example.com", "https://bookmyflower.test")
	require.NoError(t, err)

	sender := &recordingSender{}
	notifier := services.NewNotifier(sender, time.Second)
	orders := repositories.NewInMemoryOrderRepository()

	svc := services.NewOrderService(orders, coupons, services.NewPincodeService(pincodeRepo), composer, notifier, opts)
	return &orderFixture{svc: svc, orders: orders, coupons: coupons, sender: sender, notifier: notifier}
}

func validOrderRequest() *models.SubmitOrderRequest {
	total := 1200.0
	return &models.SubmitOrderRequest{
		OrderID:    "ORD-1700000000000",
		OrderTotal: &total,
		OrderItems: []models.OrderItem{
			{ProductID: "p1", Name: "Red Roses", VariantName: "12 stems", Quantity: 2, Price: 600},
		},
		CustomerDetails: &models.CustomerDetails{
			FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Phone: "9999999999",
			Address: "12 MG Road", City: "Noida", State: "UP", Country: "India", Pincode: "201301",
		},
		PaymentMethod: "cod",
	}
}

func TestOrderService_SubmitOrder(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{EnforcePincode: true})
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, validOrderRequest(), "user-1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	assert.NotEqual(t, "ORD-1700000000000", order.OrderID, "client ids are not trusted")
	assert.Equal(t, models.StatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "no", order.CouponApplied)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 1200.0, order.OrderTotal)
	assert.Equal(t, "user-1", order.CustomerDetails.UserID)
	assert.False(t, order.OrderDate.IsZero())

	stored, err := f.svc.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderTotal, stored.OrderTotal)
	assert.Len(t, stored.OrderItems, 1)

	f.notifier.Wait()
	assert.ElementsMatch(t, []string{notify.KindOrderConfirmation, notify.KindAdminAlert}, f.sender.kinds())
	confirm, ok := f.sender.find(notify.KindOrderConfirmation)
	require.True(t, ok)
	assert.Equal(t, "asha@example.com", confirm.To)
	assert.Contains(t, confirm.HTML, order.OrderID)
}

func TestOrderService_SubmitOrder_RecomputesTotalsWithCoupon(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{})
	ctx := context.Background()

	_, err := f.coupons.CreateCoupon(ctx, &models.CouponRequest{
		Code: "FLAT200", DiscountType: models.DiscountFixed, DiscountValue: 200,
		ExpiryDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	req := validOrderRequest()
	req.CouponCode = "FLAT200"
	clientTotal := 1.0 // tampered
	req.OrderTotal = &clientTotal

	order, err := f.svc.SubmitOrder(ctx, req, "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, order.Discount)
	assert.Equal(t, 1000.0, order.OrderTotal)
	assert.Equal(t, "yes", order.CouponApplied)
	assert.Equal(t, "FLAT200", order.CouponCode)

	req.CouponCode = "EXPIRED"
	_, err = f.coupons.CreateCoupon(ctx, &models.CouponRequest{
		Code: "EXPIRED", DiscountType: models.DiscountFixed, DiscountValue: 50,
		ExpiryDate: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = f.svc.SubmitOrder(ctx, req, "")
	assert.ErrorIs(t, err, services.ErrCouponNotApplicable)
	f.notifier.Wait()
}

func TestOrderService_SubmitOrder_MissingEmailFailsClosed(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{EnforcePincode: true})
	ctx := context.Background()

	req := validOrderRequest()
	req.CustomerDetails.Email = ""

	_, err := f.svc.SubmitOrder(ctx, req, "")
	require.ErrorIs(t, err, services.ErrValidation)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customerDetails.email", verr.Field)

	n, err := f.svc.CountOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	f.notifier.Wait()
	assert.Empty(t, f.sender.kinds())
}

func TestOrderService_SubmitOrder_RequiredFields(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{})

	tests := []struct {
		name   string
		mutate func(r *models.SubmitOrderRequest)
		field  string
	}{
		{"no items", func(r *models.SubmitOrderRequest) { r.OrderItems = nil }, "orderItems"},
		{"no total", func(r *models.SubmitOrderRequest) { r.OrderTotal = nil }, "orderTotal"},
		{"no customer", func(r *models.SubmitOrderRequest) { r.CustomerDetails = nil }, "customerDetails"},
		{"no payment method", func(r *models.SubmitOrderRequest) { r.PaymentMethod = "" }, "paymentMethod"},
		{"zero quantity", func(r *models.SubmitOrderRequest) { r.OrderItems[0].Quantity = 0 }, "orderItems[0].quantity"},
		{"no city", func(r *models.SubmitOrderRequest) { r.CustomerDetails.City = "" }, "customerDetails.city"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderRequest()
			tt.mutate(req)
			_, err := f.svc.SubmitOrder(context.Background(), req, "")
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestOrderService_SubmitOrder_Pincode(t *testing.T) {
	ctx := context.Background()

	enforced := newOrderFixture(t, services.OrderOptions{EnforcePincode: true})
	req := validOrderRequest()
	req.CustomerDetails.Pincode = "110001"
	_, err := enforced.svc.SubmitOrder(ctx, req, "")
	assert.ErrorIs(t, err, services.ErrPincodeNotServiceable)

	req.CustomerDetails.Pincode = "999999"
	_, err = enforced.svc.SubmitOrder(ctx, req, "")
	assert.ErrorIs(t, err, services.ErrPincodeNotServiceable)

	req.CustomerDetails.Pincode = "12a456"
	_, err = enforced.svc.SubmitOrder(ctx, req, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	advisory := newOrderFixture(t, services.OrderOptions{EnforcePincode: false})
	req.CustomerDetails.Pincode = "999999"
	_, err = advisory.svc.SubmitOrder(ctx, req, "")
	assert.NoError(t, err)
	advisory.notifier.Wait()
}

func TestOrderService_SubmitOrder_NotificationFailureStillSucceeds(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{})
	f.sender.err = errors.New("smtp: connection refused")

	order, err := f.svc.SubmitOrder(context.Background(), validOrderRequest(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)

	f.notifier.Wait()
	assert.Len(t, f.sender.kinds(), 2, "both emails are attempted")

	n, err := f.svc.CountOrders(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{})
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, validOrderRequest(), "")
	require.NoError(t, err)
	f.notifier.Wait()

	for i := 0; i < 2; i++ {
		updated, err := f.svc.UpdateOrderStatus(ctx, order.OrderID, "delivered")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivered, updated.OrderStatus)
	}
	stored, err := f.svc.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, stored.OrderStatus)
	assert.Equal(t, order.OrderTotal, stored.OrderTotal, "only the status changes")

	f.notifier.Wait()
	statusEmails := 0
	for _, k := range f.sender.kinds() {
		if k == notify.KindStatusUpdate {
			statusEmails++
		}
	}
	assert.Equal(t, 1, statusEmails, "repeating the same status sends no second email")

	// Free-form by default: moving backwards is accepted.
	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "pending")
	assert.NoError(t, err)

	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "lost")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = f.svc.UpdateOrderStatus(ctx, "ORD-missing", "shipped")
	assert.ErrorIs(t, err, services.ErrNotFound)
	f.notifier.Wait()
}

func TestOrderService_UpdateOrderStatus_Strict(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{StrictStatus: true})
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, validOrderRequest(), "")
	require.NoError(t, err)

	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "shipped")
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "processing")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "shipped")
	assert.NoError(t, err, "same status is idempotent")
	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "cancelled")
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderStatus(ctx, order.OrderID, "delivered")
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "cancelled is terminal")
	f.notifier.Wait()
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{})
	ctx := context.Background()

	order, err := f.svc.SubmitOrder(ctx, validOrderRequest(), "")
	require.NoError(t, err)

	updated, err := f.svc.UpdatePaymentStatus(ctx, order.OrderID, "paid")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, models.StatusPending, updated.OrderStatus)

	_, err = f.svc.UpdatePaymentStatus(ctx, order.OrderID, "refunded")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	f.notifier.Wait()
}

func TestOrderService_Queries(t *testing.T) {
	f := newOrderFixture(t, services.OrderOptions{})
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		req := validOrderRequest()
		at := base.Add(time.Duration(i) * time.Hour)
		req.OrderDate = &at
		if i == 2 {
			req.CustomerDetails.Email = "other@example.com"
		}
		order, err := f.svc.SubmitOrder(ctx, req, "")
		require.NoError(t, err)
		ids = append(ids, order.OrderID)
	}
	_, err := f.svc.UpdateOrderStatus(ctx, ids[0], "cancelled")
	require.NoError(t, err)

	mine, err := f.svc.ListOrdersByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ids[1], mine[0].OrderID)

	_, err = f.svc.ListOrdersByEmail(ctx, "not-an-email")
	assert.ErrorIs(t, err, services.ErrValidation)

	recent, err := f.svc.ListRecentOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, ids[2], recent[0].OrderID)

	for _, limit := range []int{0, 101} {
		_, err = f.svc.ListRecentOrders(ctx, limit)
		assert.ErrorIs(t, err, services.ErrValidation)
	}

	all, err := f.svc.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.InDelta(t, 2400.0, stats.TotalRevenue, 0.001)
	assert.EqualValues(t, 2, stats.ByStatus[models.StatusPending])
	assert.EqualValues(t, 1, stats.ByStatus[models.StatusCancelled])
	f.notifier.Wait()
}
