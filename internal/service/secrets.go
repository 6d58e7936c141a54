package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	passwordBytes = 8
	otpDigits     = 6
)

var otpLimit = big.NewInt(1_000_000)

// generatePassword returns 16 lowercase hex characters from a CSPRNG.
func generatePassword() (string, error) {
	buf := make([]byte, passwordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// generateOTP returns a uniformly distributed zero-padded 6 digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpLimit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
