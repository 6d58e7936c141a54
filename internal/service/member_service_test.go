package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/repository"
	apperrors "github.com/membership-hub/membership-service/pkg/util/errorutil"
)

func TestMemberCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewMemberService(repository.NewMemoryMemberRepository(), &recordingDispatcher{}, nil)

	member, err := svc.Create(ctx, CreateMemberInput{Name: "Ada", Email: "Ada@X.com", Phone: "555-0100", DateOfBirth: day(1990, 3, 15)})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMembershipStatus, member.MembershipStatus)
	assert.Equal(t, "ada@x.com", member.Email)

	_, err = svc.Create(ctx, CreateMemberInput{Name: "Dup", Email: "ada@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	_, err = svc.Create(ctx, CreateMemberInput{Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	phone := "555-0199"
	updated, err := svc.Update(ctx, member.ID, domain.MemberUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Ada", updated.Name)

	_, err = svc.Update(ctx, "missing", domain.MemberUpdate{Phone: &phone})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	members, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, svc.Delete(ctx, member.ID))
	require.NoError(t, svc.Delete(ctx, member.ID))
	members, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemberSendEmail(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingDispatcher{}
	svc := NewMemberService(repository.NewMemoryMemberRepository(), notifier, nil)

	require.NoError(t, svc.SendEmail(ctx, "m@x.com", "Hello", "Welcome aboard"))
	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"m@x.com"}, sent[0].To)
	assert.Equal(t, "Welcome aboard", sent[0].Body)
	assert.False(t, sent[0].HTML)

	notifier.err = errors.New("smtp unavailable")
	assert.ErrorIs(t, svc.SendEmail(ctx, "m@x.com", "Hello", "x"), apperrors.ErrDelivery)
	assert.ErrorIs(t, svc.SendEmail(ctx, "", "Hello", "x"), apperrors.ErrValidation)
}
