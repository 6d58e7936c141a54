package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/service"
)

// BirthdayJobName identifies the birthday reminder in logs and the run journal.
const BirthdayJobName = "birthday_reminder"

const defaultRunTimeout = 5 * time.Minute

// BirthdayAlerter runs one birthday reminder pass.
type BirthdayAlerter interface {
	SendAlerts(ctx context.Context) (service.BirthdayReport, error)
}

// BirthdayScheduler owns the single cron entry for the daily reminder. Runs
// never overlap; a tick that fires while a run is in progress is skipped.
type BirthdayScheduler struct {
	cron    *cron.Cron
	alerter BirthdayAlerter
	journal RunJournal
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewBirthdayScheduler parses spec (six fields, seconds first) and registers the
// job. journal may be nil.
func NewBirthdayScheduler(spec string, alerter BirthdayAlerter, journal RunJournal, logger *zap.Logger) (*BirthdayScheduler, error) {
	logger = logger.With(zap.String("component", "birthday_scheduler"))
	cl := newCronLogger(logger)
	s := &BirthdayScheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl)),
		),
		alerter: alerter,
		journal: journal,
		logger:  logger,
		timeout: defaultRunTimeout,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule %s %q: %w", BirthdayJobName, spec, err)
	}
	return s, nil
}

// Start begins firing the job in the background.
func (s *BirthdayScheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.Info("scheduler started", zap.Time("next_run", entry.Next))
	}
}

// Stop halts the scheduler and waits for a running job to finish or ctx to end.
func (s *BirthdayScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce executes a single reminder pass. Failures and panics are logged and
// recorded, never propagated.
func (s *BirthdayScheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec := RunRecord{Job: BirthdayJobName, StartedAt: s.now()}
	defer func() {
		if r := recover(); r != nil {
			rec.Outcome = string(service.BirthdayOutcomeFailed)
			rec.Error = fmt.Sprint(r)
			s.logger.Error("birthday job panicked", zap.Any("panic", r))
		}
		rec.FinishedAt = s.now()
		s.record(ctx, rec)
	}()

	report, err := s.alerter.SendAlerts(ctx)
	rec.Outcome = string(report.Outcome)
	rec.Members = report.Members
	rec.Recipients = report.Recipients
	if err != nil {
		rec.Error = err.Error()
		s.logger.Error("birthday job failed", zap.Error(err))
		return
	}
	s.logger.Info("birthday job finished",
		zap.String("outcome", rec.Outcome),
		zap.Int("members", report.Members))
}

func (s *BirthdayScheduler) record(ctx context.Context, rec RunRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record run", zap.Error(err))
	}
}
