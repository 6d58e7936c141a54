package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/membership-hub/membership-service/internal/api/dto"
	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/service"
)

// StaffHandler exposes admin staff management endpoints.
type StaffHandler struct {
	authService *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{authService: authService}
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.CreateStaffRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.CreateStaffAccount(c.UserContext(), identity, service.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
		Role:     domain.StaffRole(req.Role),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"staff":            dto.NewStaffResponse(result.Staff),
			"credentials_sent": result.CredentialsSent,
		},
	})
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	views, err := h.authService.ListStaff(c.UserContext(), identity)
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, dto.NewStaffResponse(v))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SetSuspension handles PATCH /api/staff/:id/suspension.
func (h *StaffHandler) SetSuspension(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	var req dto.SuspensionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.authService.SetSuspension(c.UserContext(), identity, c.Params("id"), *req.Suspended)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(*view)})
}

// Delete handles DELETE /api/staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	if err := h.authService.DeleteStaffAccount(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
