package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/membership-hub/membership-service/internal/api/dto"
	"github.com/membership-hub/membership-service/internal/service"
)

// MemberHandler exposes member record endpoints.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler constructs handler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Create handles POST /api/members/add.
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dob, err := dto.ParseDate(req.DateOfBirth)
	if err != nil {
		return err
	}

	member, err := h.members.Create(c.UserContext(), service.CreateMemberInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		Gender:           req.Gender,
		DateOfBirth:      dob,
		MembershipStatus: req.MembershipStatus,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMemberResponse(member)})
}

// List handles GET /api/members/list.
func (h *MemberHandler) List(c *fiber.Ctx) error {
	members, err := h.members.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.NewMemberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Update handles PUT /api/members/update/:id.
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	update, err := req.ToUpdate()
	if err != nil {
		return err
	}
	member, err := h.members.Update(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMemberResponse(member)})
}

// Delete handles DELETE /api/members/delete/:id.
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	if err := h.members.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendEmail handles POST /api/members/send-email.
func (h *MemberHandler) SendEmail(c *fiber.Ctx) error {
	var req dto.SendEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.members.SendEmail(c.UserContext(), req.Email, req.Subject, req.Message); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "sent"}})
}
