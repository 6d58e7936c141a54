package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/service"
)

type stubAlerter struct {
	report service.BirthdayReport
	err    error
	panic  bool
	calls  int
}

func (a *stubAlerter) SendAlerts(context.Context) (service.BirthdayReport, error) {
	a.calls++
	if a.panic {
		panic("store exploded")
	}
	return a.report, a.err
}

type memoryJournal struct {
	mu      sync.Mutex
	records []RunRecord
}

func (j *memoryJournal) Record(_ context.Context, rec RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

func (j *memoryJournal) LastRun(_ context.Context, job string) (*RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.records) - 1; i >= 0; i-- {
		if j.records[i].Job == job {
			rec := j.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func TestNewBirthdaySchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewBirthdayScheduler("every morning", &stubAlerter{}, nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewBirthdayScheduler("0 8 * * *", &stubAlerter{}, nil, zap.NewNop())
	assert.Error(t, err, "five field specs lack the seconds field")
}

func TestRunOnceRecordsOutcome(t *testing.T) {
	alerter := &stubAlerter{report: service.BirthdayReport{Outcome: service.BirthdayOutcomeSent, Members: 2, Recipients: 1}}
	journal := &memoryJournal{}
	s, err := NewBirthdayScheduler("59 59 7 * * *", alerter, journal, zap.NewNop())
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Equal(t, 1, alerter.calls)
	last, err := journal.LastRun(context.Background(), BirthdayJobName)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "sent", last.Outcome)
	assert.Equal(t, 2, last.Members)
	assert.Empty(t, last.Error)
	assert.False(t, last.FinishedAt.Before(last.StartedAt))
}

func TestRunOnceSwallowsErrorsAndPanics(t *testing.T) {
	journal := &memoryJournal{}

	failing := &stubAlerter{report: service.BirthdayReport{Outcome: service.BirthdayOutcomeFailed}, err: errors.New("store down")}
	s, err := NewBirthdayScheduler("59 59 7 * * *", failing, journal, zap.NewNop())
	require.NoError(t, err)
	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })

	panicking := &stubAlerter{panic: true}
	s, err = NewBirthdayScheduler("59 59 7 * * *", panicking, journal, zap.NewNop())
	require.NoError(t, err)
	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })

	require.Len(t, journal.records, 2)
	assert.Equal(t, "store down", journal.records[0].Error)
	assert.Equal(t, "failed", journal.records[1].Outcome)
	assert.Equal(t, "store exploded", journal.records[1].Error)
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := NewBirthdayScheduler("59 59 7 * * *", &stubAlerter{}, nil, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
