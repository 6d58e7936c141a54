package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a unique email constraint is violated.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrNoPendingOTP is returned by ConsumeOTP when the account has no reset code.
	ErrNoPendingOTP = errors.New("no pending reset code")
)
