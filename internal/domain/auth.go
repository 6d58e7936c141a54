package domain

// Identity is the set of claims carried by a login session token.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  StaffRole
}
