package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membership-hub/membership-service/internal/domain"
)

func TestMemoryStaffRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStaffRepository()

	staff := &domain.StaffAccount{Name: "A", Email: "a@x.com", Role: domain.StaffRoleStaff, PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, staff))
	require.NotEmpty(t, staff.ID)
	assert.False(t, staff.CreatedAt.IsZero())

	err := repo.Create(ctx, &domain.StaffAccount{Name: "B", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)

	got.SetOTP("otp-hash", time.Now().Add(time.Minute))
	stored, err := repo.GetByID(ctx, staff.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasPendingOTP(), "returned records must not alias stored state")

	exp := time.Now().Add(time.Minute).UTC()
	require.NoError(t, repo.SetOTP(ctx, staff.ID, "otp-hash", exp))
	stored, err = repo.GetByID(ctx, staff.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPendingOTP())

	hash, gotExp, err := repo.ConsumeOTP(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "otp-hash", hash)
	assert.True(t, exp.Equal(gotExp))
	_, _, err = repo.ConsumeOTP(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrNoPendingOTP)

	require.NoError(t, repo.SetPasswordHash(ctx, staff.ID, "h2"))
	suspended, err := repo.SetSuspended(ctx, staff.ID, true)
	require.NoError(t, err)
	assert.True(t, suspended.IsSuspended)
	assert.Equal(t, "h2", suspended.PasswordHash)

	require.NoError(t, repo.Delete(ctx, staff.ID))
	require.NoError(t, repo.Delete(ctx, staff.ID))
	_, err = repo.GetByID(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetOTP(ctx, staff.ID, "x", exp), ErrNotFound)
	assert.ErrorIs(t, repo.SetPasswordHash(ctx, staff.ID, "x"), ErrNotFound)
	_, err = repo.SetSuspended(ctx, staff.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = repo.ConsumeOTP(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStaffRepositoryListByRole(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStaffRepository()
	require.NoError(t, repo.Create(ctx, &domain.StaffAccount{Name: "Admin", Email: "admin@x.com", Role: domain.StaffRoleAdmin}))
	require.NoError(t, repo.Create(ctx, &domain.StaffAccount{Name: "Staff", Email: "staff@x.com", Role: domain.StaffRoleStaff}))

	all, err := repo.List(ctx, StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	role := domain.StaffRoleAdmin
	admins, err := repo.List(ctx, StaffFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@x.com", admins[0].Email)
}

func TestMemoryMemberRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMemberRepository()

	dob := time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)
	withDOB := &domain.Member{Name: "Born", Email: "born@x.com", DateOfBirth: &dob}
	without := &domain.Member{Name: "Unknown"}
	require.NoError(t, repo.Create(ctx, withDOB))
	require.NoError(t, repo.Create(ctx, without))

	assert.ErrorIs(t, repo.Create(ctx, &domain.Member{Name: "Dup", Email: "born@x.com"}), ErrDuplicateEmail)
	require.NoError(t, repo.Create(ctx, &domain.Member{Name: "Also unknown"}), "empty emails do not collide")

	filtered, err := repo.List(ctx, MemberFilter{WithDateOfBirth: true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Born", filtered[0].Name)

	withDOB.Phone = "555-0100"
	require.NoError(t, repo.Update(ctx, withDOB))
	got, err := repo.GetByID(ctx, withDOB.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", got.Phone)

	require.NoError(t, repo.Delete(ctx, "missing"))
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
