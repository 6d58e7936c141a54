package dto

import (
	"time"

	"github.com/membership-hub/membership-service/internal/service"
)

// CreateStaffRequest payload. Role defaults to staff.
type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

// SuspensionRequest payload.
type SuspensionRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

// StaffResponse is the public view of a staff account.
type StaffResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Position    string    `json:"position,omitempty"`
	Role        string    `json:"role"`
	IsSuspended bool      `json:"is_suspended"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStaffResponse maps a service view.
func NewStaffResponse(v service.StaffView) StaffResponse {
	return StaffResponse{
		ID:          v.ID,
		Name:        v.Name,
		Email:       v.Email,
		Phone:       v.Phone,
		Position:    v.Position,
		Role:        string(v.Role),
		IsSuspended: v.IsSuspended,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
