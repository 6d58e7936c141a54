package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/domain"
	"github.com/membership-hub/membership-service/internal/notification"
	"github.com/membership-hub/membership-service/internal/observability"
	"github.com/membership-hub/membership-service/internal/repository"
)

// BirthdayOutcome is the result of one reminder run.
type BirthdayOutcome string

const (
	BirthdayOutcomeSent        BirthdayOutcome = "sent"
	BirthdayOutcomeNoBirthdays BirthdayOutcome = "no_birthdays"
	BirthdayOutcomeNoAdmins    BirthdayOutcome = "no_admins"
	BirthdayOutcomeFailed      BirthdayOutcome = "failed"
)

// BirthdayReport summarizes a reminder run.
type BirthdayReport struct {
	Outcome    BirthdayOutcome
	Date       time.Time
	Members    int
	Recipients int
}

// BirthdayService tells administrators whose birthday is tomorrow.
type BirthdayService struct {
	members  repository.MemberRepository
	staff    repository.StaffRepository
	notifier notification.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
	orgName  string
}

// NewBirthdayService constructs the service. A nil clock defaults to time.Now.
func NewBirthdayService(members repository.MemberRepository, staff repository.StaffRepository, notifier notification.Dispatcher,
	logger *zap.Logger, clock func() time.Time, orgName string) *BirthdayService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirthdayService{
		members:  members,
		staff:    staff,
		notifier: notifier,
		logger:   logger.With(zap.String("component", "birthday_service")),
		now:      clock,
		orgName:  orgName,
	}
}

// SendAlerts finds members whose birth month and day equal tomorrow's and sends
// one message listing them to every administrator. Nothing is sent when there
// are no matches or no administrators. The returned error is informational;
// callers log it.
func (s *BirthdayService) SendAlerts(ctx context.Context) (report BirthdayReport, err error) {
	tomorrow := s.now().AddDate(0, 0, 1)
	report.Date = tomorrow
	defer func() {
		if err != nil {
			report.Outcome = BirthdayOutcomeFailed
		}
		observability.BirthdayRunsTotal.WithLabelValues(string(report.Outcome)).Inc()
	}()

	members, err := s.members.List(ctx, repository.MemberFilter{WithDateOfBirth: true})
	if err != nil {
		return report, err
	}
	var celebrants []domain.Member
	for i := range members {
		if members[i].BirthdayOn(tomorrow) {
			celebrants = append(celebrants, members[i])
		}
	}
	report.Members = len(celebrants)
	if len(celebrants) == 0 {
		report.Outcome = BirthdayOutcomeNoBirthdays
		s.logger.Info("no birthdays tomorrow", zap.Time("date", tomorrow))
		return report, nil
	}

	role := domain.StaffRoleAdmin
	admins, err := s.staff.List(ctx, repository.StaffFilter{Role: &role})
	if err != nil {
		return report, err
	}
	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		if admin.Email != "" {
			recipients = append(recipients, admin.Email)
		}
	}
	report.Recipients = len(recipients)
	if len(recipients) == 0 {
		report.Outcome = BirthdayOutcomeNoAdmins
		s.logger.Warn("no administrators to notify", zap.Int("members", len(celebrants)))
		return report, nil
	}

	rows := make([]notification.BirthdayRow, 0, len(celebrants))
	for i, m := range celebrants {
		phone := m.Phone
		if phone == "" {
			phone = "N/A"
		}
		rows = append(rows, notification.BirthdayRow{Seq: i + 1, Name: m.Name, Phone: phone})
	}
	msg, err := notification.BirthdayMessage(recipients, rows, s.orgName)
	if err != nil {
		return report, err
	}
	if err := dispatch(ctx, s.notifier, notification.KindBirthday, msg); err != nil {
		return report, err
	}

	report.Outcome = BirthdayOutcomeSent
	s.logger.Info("birthday reminder sent",
		zap.Int("members", len(celebrants)),
		zap.Int("recipients", len(recipients)))
	return report, nil
}
