package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "59 59 7 * * *", cfg.Scheduler.BirthdaySpec)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/membership")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("AUTH_OTP_TTL", "5m")
	t.Setenv("BIRTHDAY_JOB_SPEC", "0 0 8 * * *")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, "0 0 8 * * *", cfg.Scheduler.BirthdaySpec)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", StoreDriverPostgres)
		t.Setenv("POSTGRES_DSN", "")
		_, err := Load(context.Background())
		assert.ErrorContains(t, err, "POSTGRES_DSN")
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := Load(context.Background())
		assert.ErrorContains(t, err, "unsupported STORE_DRIVER")
	})
}
