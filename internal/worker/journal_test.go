package worker

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis returns a client for a port nothing listens on.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestJournalKey(t *testing.T) {
	assert.Equal(t, "membership:jobs:birthday_reminder:last_run", journalKey(BirthdayJobName))
}

func TestRedisJournalWrapsStoreErrors(t *testing.T) {
	journal := NewRedisJournal(unreachableRedis(t))
	ctx := context.Background()

	err := journal.Record(ctx, RunRecord{Job: BirthdayJobName, Outcome: "sent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store run record")

	rec, err := journal.LastRun(ctx, BirthdayJobName)
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.Contains(t, err.Error(), "load run record")
}
