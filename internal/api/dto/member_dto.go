package dto

import (
	"time"

	"github.com/membership-hub/membership-service/internal/domain"
)

// CreateMemberRequest payload. DateOfBirth is YYYY-MM-DD.
type CreateMemberRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Gender           string `json:"gender"`
	DateOfBirth      string `json:"date_of_birth"`
	MembershipStatus string `json:"membership_status"`
}

// UpdateMemberRequest payload. Omitted fields are left unchanged.
type UpdateMemberRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	Gender           *string `json:"gender"`
	DateOfBirth      *string `json:"date_of_birth"`
	MembershipStatus *string `json:"membership_status"`
}

// ToUpdate converts the payload into a domain update.
func (r UpdateMemberRequest) ToUpdate() (domain.MemberUpdate, error) {
	update := domain.MemberUpdate{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		Gender:           r.Gender,
		MembershipStatus: r.MembershipStatus,
	}
	if r.DateOfBirth != nil {
		dob, err := ParseDate(*r.DateOfBirth)
		if err != nil {
			return domain.MemberUpdate{}, err
		}
		update.DateOfBirth = dob
	}
	return update, nil
}

// SendEmailRequest payload for an ad-hoc member email.
type SendEmailRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message"`
}

// MemberResponse is the public view of a member.
type MemberResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	DateOfBirth      string    `json:"date_of_birth,omitempty"`
	MembershipStatus string    `json:"membership_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewMemberResponse maps a member record.
func NewMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		Gender:           m.Gender,
		DateOfBirth:      FormatDate(m.DateOfBirth),
		MembershipStatus: m.MembershipStatus,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
