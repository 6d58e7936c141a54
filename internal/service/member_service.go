package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/repository"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

// MemberService is thin CRUD over member records plus ad-hoc member email.
type MemberService struct {
	members  repository.MemberRepository
	notifier notification.Dispatcher
	logger   *zap.Logger
}

// NewMemberService constructs the service.
func NewMemberService(members repository.MemberRepository, notifier notification.Dispatcher, logger *zap.Logger) *MemberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{
		members:  members,
		notifier: notifier,
		logger:   logger.With(zap.String("component", "member_service")),
	}
}

// CreateMemberInput describes a new member.
type CreateMemberInput struct {
	Name             string
	Email            string
	Phone            string
	Address          string
	Gender           string
	DateOfBirth      *time.Time
	MembershipStatus string
}

// Create stores a member. Membership status defaults to Active.
func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*domain.Member, error) {
	member := &domain.Member{
		Name:             strings.TrimSpace(input.Name),
		Email:            normalizeEmail(input.Email),
		Phone:            strings.TrimSpace(input.Phone),
		Address:          input.Address,
		Gender:           input.Gender,
		DateOfBirth:      input.DateOfBirth,
		MembershipStatus: input.MembershipStatus,
	}
	if member.Name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if member.MembershipStatus == "" {
		member.MembershipStatus = domain.DefaultMembershipStatus
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, mapStoreError(err, "member", map[string]any{"email": member.Email})
	}
	s.logger.Info("member created", zap.String("member_id", member.ID))
	return member, nil
}

// List returns all members.
func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	members, err := s.members.List(ctx, repository.MemberFilter{})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return members, nil
}

// Update applies the set fields of update to the member.
func (s *MemberService) Update(ctx context.Context, id string, update domain.MemberUpdate) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "member", map[string]any{"id": id})
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		update.Email = &email
	}
	update.Apply(member)
	if strings.TrimSpace(member.Name) == "" {
		return nil, apperrors.NewValidationError("name must not be empty", nil)
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, mapStoreError(err, "member", map[string]any{"id": id, "email": member.Email})
	}
	return member, nil
}

// Delete removes a member. Deleting a missing member succeeds.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := s.members.Delete(ctx, id); err != nil {
		return apperrors.NewStoreError(err)
	}
	s.logger.Info("member deleted", zap.String("member_id", id))
	return nil
}

// SendEmail delivers a plain text message to one address. Unlike the account
// notifications, delivery failures are returned to the caller.
func (s *MemberService) SendEmail(ctx context.Context, to, subject, body string) error {
	to = normalizeEmail(to)
	if to == "" || strings.TrimSpace(subject) == "" {
		return apperrors.NewValidationError("email and subject are required", nil)
	}
	msg := notification.Message{To: []string{to}, Subject: subject, Body: body}
	if err := dispatch(ctx, s.notifier, notification.KindAdHoc, msg); err != nil {
		s.logger.Error("failed to send member email", zap.Error(err))
		return err
	}
	return nil
}
