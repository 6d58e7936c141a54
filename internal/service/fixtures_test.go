package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/config"
	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (d *recordingDispatcher) Send(_ context.Context, msg notification.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}

func (d *recordingDispatcher) Sent() []notification.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Message(nil), d.sent...)
}

type authFixture struct {
	svc      *AuthService
	staff    *repository.MemoryStaffRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenManager
	notifier *recordingDispatcher
	clock    *fakeClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := newFakeClock(time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC))
	f := &authFixture{
		staff:    repository.NewMemoryStaffRepository(),
		hasher:   auth.NewHasher(bcrypt.MinCost),
		tokens:   auth.NewTokenManager("test-secret", "membership-test", 24*time.Hour, 15*time.Minute, auth.WithClock(clock.Now)),
		notifier: &recordingDispatcher{},
		clock:    clock,
	}
	cfg := config.Config{
		Auth:         config.AuthConfig{OTPTTL: 15 * time.Minute},
		Notification: config.NotificationConfig{OrgName: "Test Org"},
	}
	f.svc = NewAuthService(cfg, AuthDependencies{
		StaffRepo: f.staff,
		Hasher:    f.hasher,
		Tokens:    f.tokens,
		Notifier:  f.notifier,
		Clock:     clock.Now,
	})
	return f
}

// seed stores an account with a known password and returns its identity.
func (f *authFixture) seed(t *testing.T, email, password string, role domain.StaffRole) *domain.Identity {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	staff := &domain.StaffAccount{Name: email, Email: email, Role: role, PasswordHash: hash}
	require.NoError(t, f.staff.Create(context.Background(), staff))
	return &domain.Identity{ID: staff.ID, Name: staff.Name, Email: staff.Email, Role: staff.Role}
}
