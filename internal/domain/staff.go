package domain

import "time"

// StaffRole enumerates staff account roles.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "admin"
	StaffRoleStaff StaffRole = "staff"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	return r == StaffRoleAdmin || r == StaffRoleStaff
}

// StaffAccount models an administrator or staff operator.
// OTPHash and OTPExpiresAt are either both set or both nil.
type StaffAccount struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Position     string
	Role         StaffRole
	PasswordHash string
	IsSuspended  bool
	OTPHash      *string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingOTP reports whether a reset code is outstanding.
func (s *StaffAccount) HasPendingOTP() bool {
	return s.OTPHash != nil && s.OTPExpiresAt != nil
}

// SetOTP records a pending reset code hash and its expiry.
func (s *StaffAccount) SetOTP(hash string, expiresAt time.Time) {
	s.OTPHash = &hash
	s.OTPExpiresAt = &expiresAt
}

// ClearOTP drops any pending reset code.
func (s *StaffAccount) ClearOTP() {
	s.OTPHash = nil
	s.OTPExpiresAt = nil
}
