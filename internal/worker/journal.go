package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	journalKeyPrefix = "membership:jobs:"
	journalTTL       = 7 * 24 * time.Hour
)

// RunRecord describes one completed scheduler run.
type RunRecord struct {
	Job        string    `json:"job"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Outcome    string    `json:"outcome"`
	Members    int       `json:"members"`
	Recipients int       `json:"recipients"`
	Error      string    `json:"error,omitempty"`
}

// RunJournal stores the most recent run of each job. It is informational and
// never used to skip or deduplicate runs.
type RunJournal interface {
	Record(ctx context.Context, rec RunRecord) error
	LastRun(ctx context.Context, job string) (*RunRecord, error)
}

// RedisJournal keeps the last run per job under a single key.
type RedisJournal struct {
	client *redis.Client
}

// NewRedisJournal wraps a go-redis client.
func NewRedisJournal(client *redis.Client) *RedisJournal {
	return &RedisJournal{client: client}
}

func journalKey(job string) string {
	return journalKeyPrefix + job + ":last_run"
}

// Record overwrites the job's last run.
func (j *RedisJournal) Record(ctx context.Context, rec RunRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	if err := j.client.Set(ctx, journalKey(rec.Job), payload, journalTTL).Err(); err != nil {
		return fmt.Errorf("store run record: %w", err)
	}
	return nil
}

// LastRun returns the job's last recorded run, or nil when none is stored.
func (j *RedisJournal) LastRun(ctx context.Context, job string) (*RunRecord, error) {
	payload, err := j.client.Get(ctx, journalKey(job)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run record: %w", err)
	}
	var rec RunRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode run record: %w", err)
	}
	return &rec, nil
}
