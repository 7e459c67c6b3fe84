package handlers

import (
	"errors"

	"bookmyflower/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PincodeHandler handles serviceability checks and the pincode allow-list.
type PincodeHandler struct {
	service *services.PincodeService
	guards  Guards
}

func NewPincodeHandler(service *services.PincodeService, guards Guards) *PincodeHandler {
	return &PincodeHandler{service: service, guards: guards}
}

func (h *PincodeHandler) RegisterRoutes(router fiber.Router) {
	pincodeRoutes := router.Group("/pincode")
	pincodeRoutes.Post("/check-pincode", h.HandleCheck)

	pincodeRoutes.Get("/all", h.guards.Admin, h.HandleList)
	pincodeRoutes.Post("/add", h.guards.Admin, h.HandleCreate)
	pincodeRoutes.Put("/update/:id", h.guards.Admin, h.HandleUpdate)
	pincodeRoutes.Delete("/delete/:id", h.guards.Admin, h.HandleDelete)
}

type pincodeBody struct {
	Pincode  flexString `json:"pincode"`
	IsActive *bool      `json:"isActive,omitempty"`
}

func (b pincodeBody) request() services.PincodeRequest {
	return services.PincodeRequest{Pincode: string(b.Pincode), IsActive: b.IsActive}
}

// HandleCheck answers {status, data, message}. A well-formed pincode that is
// not serviceable is a normal answer, not a failed request.
func (h *PincodeHandler) HandleCheck(c *fiber.Ctx) error {
	var body pincodeBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"success": false,
			"message": "Pincode must be exactly 6 digits",
		})
	}

	check, err := h.service.CheckPincode(c.UserContext(), string(body.Pincode))
	if errors.Is(err, services.ErrInvalidPincodeFormat) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"success": false,
			"message": "Pincode must be exactly 6 digits",
		})
	}
	if err != nil {
		return respondError(c, err, "Could not check pincode")
	}

	if !check.Serviceable {
		return c.JSON(fiber.Map{
			"status":  "error",
			"success": false,
			"message": "Sorry, we do not deliver to this pincode yet",
			"data":    check,
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"success": true,
		"message": "Delivery is available for this pincode",
		"data":    check,
	})
}

func (h *PincodeHandler) HandleList(c *fiber.Ctx) error {
	pincodes, err := h.service.ListPincodes(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve pincodes")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Pincodes retrieved successfully", "data": pincodes})
}

func (h *PincodeHandler) HandleCreate(c *fiber.Ctx) error {
	var body pincodeBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}
	p, err := h.service.CreatePincode(c.UserContext(), body.request())
	if err != nil {
		return respondError(c, err, "Could not add pincode")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Pincode added successfully",
		"data":    p,
	})
}

func (h *PincodeHandler) HandleUpdate(c *fiber.Ctx) error {
	var body pincodeBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}
	p, err := h.service.UpdatePincode(c.UserContext(), c.Params("id"), body.request())
	if err != nil {
		return respondError(c, err, "Could not update pincode")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Pincode updated successfully", "data": p})
}

func (h *PincodeHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeletePincode(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete pincode")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Pincode deleted successfully"})
}
