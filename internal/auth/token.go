package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/membership-hub/membership-service/internal/domain"
)

// Token purposes carried in the "purpose" claim.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

// Verification failures.
var (
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrMalformedToken   = errors.New("token malformed")
	ErrWrongPurpose     = errors.New("token issued for another purpose")
)

// SessionClaims is the payload of a login session token.
type SessionClaims struct {
	UserID  string           `json:"id"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Role    domain.StaffRole `json:"role"`
	Purpose string           `json:"purpose"`
	jwt.RegisteredClaims
}

// Identity converts claims into the domain identity.
func (c *SessionClaims) Identity() *domain.Identity {
	return &domain.Identity{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// ResetClaims is the payload of a reset-verification token.
type ResetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock injects the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret, issuer string, sessionTTL, resetTTL time.Duration, opts ...TokenOption) *TokenManager {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	tm := &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// IssueSession signs a login session token for the identity.
func (tm *TokenManager) IssueSession(id *domain.Identity) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.sessionTTL)
	claims := &SessionClaims{
		UserID:           id.ID,
		Name:             id.Name,
		Email:            id.Email,
		Role:             id.Role,
		Purpose:          PurposeSession,
		RegisteredClaims: tm.registered(id.ID, issuedAt, expiresAt),
	}
	return tm.sign(claims, expiresAt)
}

// IssueReset signs a reset-verification token bound to email.
func (tm *TokenManager) IssueReset(email string) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.resetTTL)
	claims := &ResetClaims{
		Email:            email,
		Purpose:          PurposePasswordReset,
		RegisteredClaims: tm.registered(email, issuedAt, expiresAt),
	}
	return tm.sign(claims, expiresAt)
}

// ParseSession validates a login session token.
func (tm *TokenManager) ParseSession(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := tm.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeSession {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// ParseReset validates a reset-verification token.
func (tm *TokenManager) ParseReset(tokenStr string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := tm.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposePasswordReset || claims.Email == "" {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func (tm *TokenManager) registered(subject string, issuedAt, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tm.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}

func (tm *TokenManager) sign(claims jwt.Claims, expiresAt time.Time) (string, time.Time, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (tm *TokenManager) parse(tokenStr string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return classify(err)
	}
	if !parsed.Valid {
		return ErrMalformedToken
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformedToken
	}
}
