package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost keeps verification sub-second on commodity hardware.
const DefaultBcryptCost = 10

// Hasher hashes and verifies secrets (account passwords and OTP codes) with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost, falling back to DefaultBcryptCost
// when the cost is outside bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted one-way hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hashed. An empty or malformed hash never matches.
func (h *Hasher) Verify(plain, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
