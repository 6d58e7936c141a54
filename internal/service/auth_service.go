package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/config"
	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/observability"
	"github.com/membership-hub/membership-service/internal/repository"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

const (
	opLogin          = "login"
	opCreateStaff    = "create_staff"
	opRequestReset   = "request_reset"
	opVerifyOTP      = "verify_otp"
	opResetPassword  = "reset_password"
	opChangePassword = "change_password"
)

// AuthService owns the staff identity lifecycle: account management, login
// and the OTP password reset flow.
type AuthService struct {
	staff    repository.StaffRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenManager
	notifier notification.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
	otpTTL   time.Duration
	orgName  string

	newPassword func() (string, error)
	newOTP      func() (string, error)
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	StaffRepo repository.StaffRepository
	Hasher    *auth.Hasher
	Tokens    *auth.TokenManager
	Notifier  notification.Dispatcher
	Logger    *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		staff:       deps.StaffRepo,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		notifier:    deps.Notifier,
		logger:      logger.With(zap.String("component", "auth_service")),
		now:         clock,
		otpTTL:      cfg.Auth.OTPTTL,
		orgName:     cfg.Notification.OrgName,
		newPassword: generatePassword,
		newOTP:      generateOTP,
	}
}

// StaffView is the externally visible projection of a staff account. It never
// carries the password hash or OTP state.
type StaffView struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Position    string
	Role        domain.StaffRole
	IsSuspended bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewStaffView projects a staff account.
func NewStaffView(s *domain.StaffAccount) StaffView {
	return StaffView{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Position:    s.Position,
		Role:        s.Role,
		IsSuspended: s.IsSuspended,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// LoginResult carries the issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Staff     StaffView
}

// VerificationResult carries a reset verification token.
type VerificationResult struct {
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login authenticates a staff account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (result *LoginResult, err error) {
	defer func() { observability.AuthEventsTotal.WithLabelValues(opLogin, resultLabel(err)).Inc() }()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreError(err, "staff account", map[string]any{"email": email})
	}
	if staff.IsSuspended {
		return nil, apperrors.NewSuspended()
	}
	if !s.hasher.Verify(password, staff.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}

	identity := &domain.Identity{ID: staff.ID, Name: staff.Name, Email: staff.Email, Role: staff.Role}
	token, exp, err := s.tokens.IssueSession(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("staff logged in", zap.String("staff_id", staff.ID))
	return &LoginResult{Token: token, ExpiresAt: exp, Staff: NewStaffView(staff)}, nil
}

// RequestPasswordReset issues a fresh OTP for the account and sends it to the
// account's email. A new request replaces any pending code. Delivery failures
// are logged only.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { observability.AuthEventsTotal.WithLabelValues(opRequestReset, resultLabel(err)).Inc() }()

	email = normalizeEmail(email)
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return mapStoreError(err, "staff account", map[string]any{"email": email})
	}

	code, err := s.newOTP()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.staff.SetOTP(ctx, staff.ID, hash, s.now().Add(s.otpTTL)); err != nil {
		return mapStoreError(err, "staff account", map[string]any{"email": email})
	}

	if sendErr := dispatch(ctx, s.notifier, notification.KindOTP, notification.OTPMessage(staff.Email, code, s.otpTTL)); sendErr != nil {
		s.logger.Error("failed to send reset code", zap.String("staff_id", staff.ID), zap.Error(sendErr))
	}
	return nil
}

// VerifyOtp checks a reset code. Any attempt against a pending code consumes
// it, so a code can be tried once. On success a short-lived verification token
// is returned for UpdatePasswordWithVerificationToken.
func (s *AuthService) VerifyOtp(ctx context.Context, email, otp string) (result *VerificationResult, err error) {
	defer func() { observability.AuthEventsTotal.WithLabelValues(opVerifyOTP, resultLabel(err)).Inc() }()

	email = normalizeEmail(email)
	if email == "" || otp == "" {
		return nil, apperrors.NewValidationError("email and otp are required", nil)
	}

	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreError(err, "staff account", map[string]any{"email": email})
	}

	hash, expiresAt, err := s.staff.ConsumeOTP(ctx, staff.ID)
	if errors.Is(err, repository.ErrNoPendingOTP) {
		return nil, apperrors.NewInvalidOrExpiredOTP()
	}
	if err != nil {
		return nil, mapStoreError(err, "staff account", map[string]any{"email": email})
	}

	if !s.now().Before(expiresAt) || !s.hasher.Verify(otp, hash) {
		return nil, apperrors.NewInvalidOrExpiredOTP()
	}

	token, exp, err := s.tokens.IssueReset(staff.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &VerificationResult{Token: token, ExpiresAt: exp}, nil
}

// UpdatePasswordWithVerificationToken sets a new password for the account named
// by a reset verification token.
func (s *AuthService) UpdatePasswordWithVerificationToken(ctx context.Context, token, newPassword string) (err error) {
	defer func() { observability.AuthEventsTotal.WithLabelValues(opResetPassword, resultLabel(err)).Inc() }()

	if newPassword == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}

	claims, err := s.tokens.ParseReset(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return apperrors.NewExpiredVerificationToken()
		}
		return apperrors.NewInvalidVerificationToken()
	}

	staff, err := s.staff.GetByEmail(ctx, claims.Email)
	if err != nil {
		return mapStoreError(err, "staff account", map[string]any{"email": claims.Email})
	}
	return s.setPassword(ctx, staff, newPassword)
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.Identity, currentPassword, newPassword string) (err error) {
	defer func() { observability.AuthEventsTotal.WithLabelValues(opChangePassword, resultLabel(err)).Inc() }()

	if err := auth.Authorize(actor, ""); err != nil {
		return err
	}
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("current and new password are required", nil)
	}

	staff, err := s.staff.GetByID(ctx, actor.ID)
	if err != nil {
		return mapStoreError(err, "staff account", map[string]any{"id": actor.ID})
	}
	if !s.hasher.Verify(currentPassword, staff.PasswordHash) {
		return apperrors.NewInvalidCredentials()
	}
	return s.setPassword(ctx, staff, newPassword)
}

func (s *AuthService) setPassword(ctx context.Context, staff *domain.StaffAccount, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.staff.SetPasswordHash(ctx, staff.ID, hash); err != nil {
		return mapStoreError(err, "staff account", map[string]any{"id": staff.ID})
	}
	s.logger.Info("password updated", zap.String("staff_id", staff.ID))
	return nil
}
