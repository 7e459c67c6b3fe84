package handlers

import (
	"bookmyflower/internal/models"
	"bookmyflower/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles HTTP requests for coupons.
type CouponHandler struct {
	service *services.CouponService
	guards  Guards
}

func NewCouponHandler(service *services.CouponService, guards Guards) *CouponHandler {
	return &CouponHandler{service: service, guards: guards}
}

// RegisterRoutes registers the coupon routes with the Fiber app.
func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	couponRoutes := router.Group("/coupons")
	couponRoutes.Post("/all", h.HandleListActive)
	couponRoutes.Post("/apply", h.HandleApply)

	couponRoutes.Get("/list", h.guards.Admin, h.HandleListAll)
	couponRoutes.Get("/get/:id", h.guards.Admin, h.HandleGet)
	couponRoutes.Post("/add", h.guards.Admin, h.HandleCreate)
	couponRoutes.Put("/update/:id", h.guards.Admin, h.HandleUpdate)
	couponRoutes.Delete("/delete/:id", h.guards.Admin, h.HandleDelete)
}

// HandleListActive returns the coupons currently usable at checkout.
func (h *CouponHandler) HandleListActive(c *fiber.Ctx) error {
	coupons, err := h.service.ListActiveCoupons(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve coupons")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}

// HandleApply previews cart totals with a coupon code.
func (h *CouponHandler) HandleApply(c *fiber.Ctx) error {
	var req models.ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	totals, coupon, err := h.service.ApplyCoupon(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Could not apply coupon")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Coupon applied successfully",
		"data": fiber.Map{
			"coupon":   coupon,
			"subtotal": totals.Subtotal,
			"discount": totals.Discount,
			"total":    totals.Total,
		},
	})
}

func (h *CouponHandler) HandleListAll(c *fiber.Ctx) error {
	coupons, err := h.service.ListAllCoupons(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve coupons")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Coupons retrieved successfully", "data": coupons})
}

func (h *CouponHandler) HandleGet(c *fiber.Ctx) error {
	coupon, err := h.service.GetCoupon(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve coupon")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Coupon retrieved successfully", "data": coupon})
}

func (h *CouponHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	coupon, err := h.service.CreateCoupon(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Could not create coupon")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Coupon created successfully",
		"data":    coupon,
	})
}

func (h *CouponHandler) HandleUpdate(c *fiber.Ctx) error {
	var req models.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	coupon, err := h.service.UpdateCoupon(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Could not update coupon")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Coupon updated successfully", "data": coupon})
}

func (h *CouponHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteCoupon(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete coupon")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Coupon deleted successfully"})
}
