package handlers

import (
	"fmt"
	"strings"

	"bookmyflower/internal/middleware"
	"bookmyflower/internal/models"
	"bookmyflower/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	guards  Guards
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, guards Guards) *OrderHandler {
	return &OrderHandler{
		service: service,
		guards:  guards,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/order")
	orderRoutes.Post("/add", h.guards.Optional, h.HandleCreateOrder)
	orderRoutes.Get("/get/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/user-order/:email", h.guards.Auth, h.HandleGetUserOrders)

	orderRoutes.Get("/all", h.guards.Admin, h.HandleGetOrders)
	orderRoutes.Get("/stats", h.guards.Admin, h.HandleStats)
	orderRoutes.Get("/recentOrders/:limit", h.guards.Admin, h.HandleRecentOrders)
	orderRoutes.Put("/updatestatus/:orderId", h.guards.Admin, h.HandleUpdateOrderStatus)
	orderRoutes.Put("/updatepayment/:orderId", h.guards.Admin, h.HandleUpdatePaymentStatus)
}

// HandleCreateOrder places an order. A valid bearer token links it to the user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.SubmitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	userID, _ := c.Locals(middleware.LocalUserID).(string)
	order, err := h.service.SubmitOrder(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err, "Could not place order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"orderId": order.OrderID,
		"order":   order,
	})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order retrieved successfully", "order": order})
}

// HandleGetUserOrders lists a customer's orders. Customers only see their own.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	email := strings.ToLower(c.Params("email"))
	role, _ := c.Locals(middleware.LocalRole).(string)
	own, _ := c.Locals(middleware.LocalEmail).(string)
	if role != services.RoleAdmin && !strings.EqualFold(own, email) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You can only view your own orders",
		})
	}

	orders, err := h.service.ListOrdersByEmail(c.UserContext(), email)
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Orders retrieved successfully", "orders": orders})
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Orders retrieved successfully", "orders": orders})
}

func (h *OrderHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not compute order stats")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Order stats retrieved successfully", "stats": stats})
}

func (h *OrderHandler) HandleRecentOrders(c *fiber.Ctx) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return respondError(c, err, "Could not retrieve recent orders")
	}
	orders, err := h.service.ListRecentOrders(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err, "Could not retrieve recent orders")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Recent orders retrieved successfully", "orders": orders})
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, updateData.Status)
	if err != nil {
		return respondError(c, err, "Could not update order status")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, order.OrderStatus),
		"order":   order,
	})
}

func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	var updateData struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.UpdatePaymentStatus(c.UserContext(), orderID, updateData.PaymentStatus)
	if err != nil {
		return respondError(c, err, "Could not update payment status")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Order %s payment status updated to %s", orderID, order.PaymentStatus),
		"order":   order,
	})
}
