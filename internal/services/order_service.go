package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"bookmyflower/internal/metrics"
	"bookmyflower/internal/models"
	"bookmyflower/internal/notify"
	"bookmyflower/internal/pricing"
	"bookmyflower/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxRecentOrders = 100

// OrderOptions toggles the optional order-flow guards.
type OrderOptions struct {
	EnforcePincode bool // reject orders to non-serviceable pincodes
	StrictStatus   bool // forward-only status transitions
}

// OrderService places orders, moves them through their lifecycle and answers
// order queries.
type OrderService struct {
	orderRepo repositories.OrderRepository
	coupons   *CouponService
	pincodes  *PincodeService
	composer  *notify.Composer
	notifier  *Notifier
	opts      OrderOptions
	now       func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	coupons *CouponService,
	pincodes *PincodeService,
	composer *notify.Composer,
	notifier *Notifier,
	opts OrderOptions,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		coupons:   coupons,
		pincodes:  pincodes,
		composer:  composer,
		notifier:  notifier,
		opts:      opts,
		now:       time.Now,
	}
}

// SubmitOrder validates the payload, recomputes the totals, stores the order
// and queues the customer and admin emails. The order is returned once it is
// stored; email delivery happens afterwards and cannot fail the call.
func (s *OrderService) SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest, userID string) (*models.Order, error) {
	if req == nil {
		return nil, newValidationError("", "order payload is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if s.opts.EnforcePincode {
		if err := s.requireServiceable(ctx, req.CustomerDetails.Pincode); err != nil {
			return nil, err
		}
	}

	var coupon *models.Coupon
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		c, err := s.coupons.ResolveCoupon(ctx, code, pricing.Subtotal(req.OrderItems))
		if err != nil {
			return nil, err
		}
		coupon = c
	}
	totals := pricing.ComputeOrderTotals(req.OrderItems, coupon)

	if math.Abs(*req.OrderTotal-totals.Total) > 0.01 {
		log.Warn().
			Float64("client_total", *req.OrderTotal).
			Float64("server_total", totals.Total).
			Str("email", req.CustomerDetails.Email).
			Msg("client order total differs from computed total")
	}

	now := s.now()
	order := &models.Order{
		OrderID:         "ORD-" + uuid.New().String(),
		OrderDate:       now,
		OrderStatus:     models.StatusPending,
		OrderTotal:      totals.Total,
		Discount:        totals.Discount,
		CouponApplied:   "no",
		OrderItems:      append([]models.OrderItem(nil), req.OrderItems...),
		CustomerDetails: *req.CustomerDetails,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
	}
	if req.OrderDate != nil && !req.OrderDate.IsZero() {
		order.OrderDate = *req.OrderDate
	}
	if coupon != nil {
		order.CouponApplied = "yes"
		order.CouponCode = coupon.Code
	}
	if userID != "" {
		order.CustomerDetails.UserID = userID
	}
	for i := range order.OrderItems {
		order.OrderItems[i].ID = 0
		order.OrderItems[i].OrderID = ""
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", translateRepoError(err))
	}

	metrics.OrdersSubmitted.WithLabelValues(order.CouponApplied).Inc()
	metrics.OrderRevenue.Add(order.OrderTotal)
	log.Info().
		Str("order_id", order.OrderID).
		Float64("total", order.OrderTotal).
		Str("coupon", order.CouponCode).
		Msg("order placed")

	s.notifyOrderPlaced(order)
	return order, nil
}

func (s *OrderService) requireServiceable(ctx context.Context, pincode string) error {
	check, err := s.pincodes.CheckPincode(ctx, strings.TrimSpace(pincode))
	if errors.Is(err, ErrInvalidPincodeFormat) {
		return newValidationError("customerDetails.pincode", "must be exactly 6 digits")
	}
	if err != nil {
		return err
	}
	if !check.Serviceable {
		return fmt.Errorf("%w: %s (%s)", ErrPincodeNotServiceable, pincode, check.Reason)
	}
	return nil
}

func (s *OrderService) notifyOrderPlaced(order *models.Order) {
	if s.composer == nil {
		return
	}
	snapshot := cloneOrder(order)

	var emails []notify.Email
	if email, err := s.composer.OrderConfirmation(snapshot); err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to compose order confirmation")
	} else {
		emails = append(emails, email)
	}
	if email, err := s.composer.AdminOrderAlert(snapshot); err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to compose admin alert")
	} else {
		emails = append(emails, email)
	}
	s.notifier.Dispatch(emails...)
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	return &c
}

// allowedTransition implements the strict lifecycle: the current status is
// always accepted again, cancelled is reachable from any non-terminal status,
// otherwise a status may only move forward.
func allowedTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == models.StatusCancelled {
		return true
	}
	return lifecycleIndex(to) > lifecycleIndex(from)
}

func lifecycleIndex(s models.OrderStatus) int {
	for i, known := range models.OrderStatuses {
		if known == s {
			return i
		}
	}
	return -1
}

// UpdateOrderStatus sets the order status and emails the customer when it
// changed. Repeating the current status succeeds without an email.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	prev := order.OrderStatus
	if s.opts.StrictStatus && !allowedTransition(prev, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, next)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, translateRepoError(err))
	}
	order.OrderStatus = next
	order.UpdatedAt = s.now()

	metrics.StatusUpdates.WithLabelValues(string(next)).Inc()
	log.Info().Str("order_id", id).Str("from", string(prev)).Str("status", string(next)).Msg("order status updated")

	if prev != next && s.composer != nil {
		if email, err := s.composer.StatusUpdate(cloneOrder(order)); err != nil {
			log.Error().Err(err).Str("order_id", id).Msg("failed to compose status update")
		} else {
			s.notifier.Dispatch(email)
		}
	}
	return order, nil
}

// UpdatePaymentStatus records whether an order has been paid.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Order, error) {
	next := models.PaymentStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: payment status %q", ErrInvalidStatus, status)
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if err := s.orderRepo.UpdatePaymentStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update payment status for order %s: %w", id, translateRepoError(err))
	}
	order.PaymentStatus = next
	order.UpdatedAt = s.now()
	log.Info().Str("order_id", id).Str("payment_status", string(next)).Msg("payment status updated")
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return order, nil
}

func (s *OrderService) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, newValidationError("email", "must be a valid email address")
	}
	return s.orderRepo.ListByEmail(ctx, email)
}

func (s *OrderService) ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit < 1 || limit > maxRecentOrders {
		return nil, newValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxRecentOrders))
	}
	return s.orderRepo.ListRecent(ctx, limit)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	return s.orderRepo.Count(ctx)
}

// Stats returns order counts per status and revenue excluding cancelled orders.
func (s *OrderService) Stats(ctx context.Context) (models.OrderStats, error) {
	rows, err := s.orderRepo.AggregateByStatus(ctx)
	if err != nil {
		return models.OrderStats{}, err
	}
	return models.BuildOrderStats(rows), nil
}
