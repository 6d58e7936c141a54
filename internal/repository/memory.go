package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/membership-hub/membership-service/internal/domain"
)

// MemoryStaffRepository keeps staff accounts in process memory. Records are
// copied on the way in and out so callers never share state with the store.
type MemoryStaffRepository struct {
	mu    sync.RWMutex
	items map[string]domain.StaffAccount
}

// NewMemoryStaffRepository returns an empty in-memory StaffRepository.
func NewMemoryStaffRepository() *MemoryStaffRepository {
	return &MemoryStaffRepository{items: make(map[string]domain.StaffAccount)}
}

func (r *MemoryStaffRepository) Create(_ context.Context, staff *domain.StaffAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == staff.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	staff.ID = uuid.NewString()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	r.items[staff.ID] = cloneStaff(*staff)
	return nil
}

func (r *MemoryStaffRepository) SetOTP(_ context.Context, id, hash string, expiresAt time.Time) error {
	return r.mutate(id, func(s *domain.StaffAccount) { s.SetOTP(hash, expiresAt) })
}

func (r *MemoryStaffRepository) ConsumeOTP(_ context.Context, id string) (string, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff, ok := r.items[id]
	if !ok {
		return "", time.Time{}, ErrNotFound
	}
	if !staff.HasPendingOTP() {
		return "", time.Time{}, ErrNoPendingOTP
	}
	hash, expiresAt := *staff.OTPHash, *staff.OTPExpiresAt
	staff.ClearOTP()
	staff.UpdatedAt = time.Now().UTC()
	r.items[id] = staff
	return hash, expiresAt, nil
}

func (r *MemoryStaffRepository) SetPasswordHash(_ context.Context, id, hash string) error {
	return r.mutate(id, func(s *domain.StaffAccount) { s.PasswordHash = hash })
}

func (r *MemoryStaffRepository) SetSuspended(_ context.Context, id string, suspended bool) (*domain.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	staff.IsSuspended = suspended
	staff.UpdatedAt = time.Now().UTC()
	r.items[id] = staff
	clone := cloneStaff(staff)
	return &clone, nil
}

// mutate applies fn to the stored record while holding the write lock.
func (r *MemoryStaffRepository) mutate(id string, fn func(*domain.StaffAccount)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	fn(&staff)
	staff.UpdatedAt = time.Now().UTC()
	r.items[id] = staff
	return nil
}

func (r *MemoryStaffRepository) GetByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	staff, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneStaff(staff)
	return &clone, nil
}

func (r *MemoryStaffRepository) GetByEmail(_ context.Context, email string) (*domain.StaffAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, staff := range r.items {
		if staff.Email == email {
			clone := cloneStaff(staff)
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryStaffRepository) List(_ context.Context, filter StaffFilter) ([]domain.StaffAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.StaffAccount, 0, len(r.items))
	for _, staff := range r.items {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		result = append(result, cloneStaff(staff))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryStaffRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func cloneStaff(s domain.StaffAccount) domain.StaffAccount {
	if s.OTPHash != nil {
		hash := *s.OTPHash
		s.OTPHash = &hash
	}
	if s.OTPExpiresAt != nil {
		exp := *s.OTPExpiresAt
		s.OTPExpiresAt = &exp
	}
	return s
}

// MemoryMemberRepository keeps member records in process memory.
type MemoryMemberRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Member
}

// NewMemoryMemberRepository returns an empty in-memory MemberRepository.
func NewMemoryMemberRepository() *MemoryMemberRepository {
	return &MemoryMemberRepository{items: make(map[string]domain.Member)}
}

func (r *MemoryMemberRepository) Create(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if member.Email != "" && existing.Email == member.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	member.ID = uuid.NewString()
	member.CreatedAt = now
	member.UpdatedAt = now
	r.items[member.ID] = cloneMember(*member)
	return nil
}

func (r *MemoryMemberRepository) Update(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[member.ID]; !ok {
		return ErrNotFound
	}
	member.UpdatedAt = time.Now().UTC()
	r.items[member.ID] = cloneMember(*member)
	return nil
}

func (r *MemoryMemberRepository) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneMember(member)
	return &clone, nil
}

func (r *MemoryMemberRepository) List(_ context.Context, filter MemberFilter) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Member, 0, len(r.items))
	for _, member := range r.items {
		if filter.WithDateOfBirth && member.DateOfBirth == nil {
			continue
		}
		result = append(result, cloneMember(member))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryMemberRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func cloneMember(m domain.Member) domain.Member {
	if m.DateOfBirth != nil {
		dob := *m.DateOfBirth
		m.DateOfBirth = &dob
	}
	return m
}
