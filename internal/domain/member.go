package domain

import "time"

// DefaultMembershipStatus is applied to members created without a status.
const DefaultMembershipStatus = "Active"

// Member is a congregation/club member record.
type Member struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Address          string
	Gender           string
	DateOfBirth      *time.Time
	MembershipStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BirthdayOn reports whether the member's birth month and day equal those of t.
// The birth year and time zone are ignored; the stored calendar date is used as-is.
func (m *Member) BirthdayOn(t time.Time) bool {
	if m.DateOfBirth == nil {
		return false
	}
	dob := *m.DateOfBirth
	return dob.Month() == t.Month() && dob.Day() == t.Day()
}

// MemberUpdate carries optional field changes for a member.
type MemberUpdate struct {
	Name             *string
	Email            *string
	Phone            *string
	Address          *string
	Gender           *string
	DateOfBirth      *time.Time
	MembershipStatus *string
}

// Apply copies the set fields onto m.
func (u MemberUpdate) Apply(m *Member) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Email != nil {
		m.Email = *u.Email
	}
	if u.Phone != nil {
		m.Phone = *u.Phone
	}
	if u.Address != nil {
		m.Address = *u.Address
	}
	if u.Gender != nil {
		m.Gender = *u.Gender
	}
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		m.DateOfBirth = &dob
	}
	if u.MembershipStatus != nil {
		m.MembershipStatus = *u.MembershipStatus
	}
}
