package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/observability"
	"github.com/membership-hub/membership-service/internal/repository"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

// CreateStaffInput describes a new staff account. Role defaults to staff.
type CreateStaffInput struct {
	Name     string
	Email    string
	Phone    string
	Position string
	Role     domain.StaffRole
}

// CreateStaffResult reports the created account and whether the credentials
// message reached the dispatcher.
type CreateStaffResult struct {
	Staff           StaffView
	CredentialsSent bool
}

// CreateStaffAccount provisions a staff account with a generated password and
// mails the credentials to the new account. Admin only.
func (s *AuthService) CreateStaffAccount(ctx context.Context, actor *domain.Identity, input CreateStaffInput) (result *CreateStaffResult, err error) {
	defer func() { observability.AuthEventsTotal.WithLabelValues(opCreateStaff, resultLabel(err)).Inc() }()

	if err := auth.Authorize(actor, domain.StaffRoleAdmin); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Role == "" {
		input.Role = domain.StaffRoleStaff
	}
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	if _, err := s.staff.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateEmail(input.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStoreError(err)
	}

	password, err := s.newPassword()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	staff := &domain.StaffAccount{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		Position:     strings.TrimSpace(input.Position),
		Role:         input.Role,
		PasswordHash: hash,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, mapStoreError(err, "staff account", map[string]any{"email": input.Email})
	}
	s.logger.Info("staff account created",
		zap.String("staff_id", staff.ID),
		zap.String("role", string(staff.Role)),
		zap.String("actor_id", actor.ID))

	msg := notification.CredentialsMessage(staff.Email, staff.Name, staff.Email, password, s.orgName)
	sent := true
	if sendErr := dispatch(ctx, s.notifier, notification.KindCredentials, msg); sendErr != nil {
		sent = false
		s.logger.Error("failed to send credentials", zap.String("staff_id", staff.ID), zap.Error(sendErr))
	}
	return &CreateStaffResult{Staff: NewStaffView(staff), CredentialsSent: sent}, nil
}

// ListStaff returns every staff account. Admin only.
func (s *AuthService) ListStaff(ctx context.Context, actor *domain.Identity) ([]StaffView, error) {
	if err := auth.Authorize(actor, domain.StaffRoleAdmin); err != nil {
		return nil, err
	}
	accounts, err := s.staff.List(ctx, repository.StaffFilter{})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	views := make([]StaffView, 0, len(accounts))
	for i := range accounts {
		views = append(views, NewStaffView(&accounts[i]))
	}
	return views, nil
}

// SetSuspension suspends or reinstates an account. Admin only. Existing
// sessions stay valid until they expire.
func (s *AuthService) SetSuspension(ctx context.Context, actor *domain.Identity, staffID string, suspended bool) (*StaffView, error) {
	if err := auth.Authorize(actor, domain.StaffRoleAdmin); err != nil {
		return nil, err
	}
	staff, err := s.staff.SetSuspended(ctx, staffID, suspended)
	if err != nil {
		return nil, mapStoreError(err, "staff account", map[string]any{"id": staffID})
	}
	s.logger.Info("staff suspension changed",
		zap.String("staff_id", staffID),
		zap.Bool("suspended", suspended),
		zap.String("actor_id", actor.ID))
	view := NewStaffView(staff)
	return &view, nil
}

// DeleteStaffAccount removes an account. Admin only. Deleting a missing
// account succeeds.
func (s *AuthService) DeleteStaffAccount(ctx context.Context, actor *domain.Identity, staffID string) error {
	if err := auth.Authorize(actor, domain.StaffRoleAdmin); err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, staffID); err != nil {
		return apperrors.NewStoreError(err)
	}
	s.logger.Info("staff account deleted", zap.String("staff_id", staffID), zap.String("actor_id", actor.ID))
	return nil
}
