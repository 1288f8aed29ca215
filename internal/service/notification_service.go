package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/rota"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
	"github.com/shiftops/roster-api/pkg/jobs"
	"github.com/shiftops/roster-api/pkg/mailer"
)

const (
	jobShiftCreated  = "shift.created"
	jobShiftReminder = "shift.reminder"
)

type notificationShiftRepository interface {
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	ListByPersonBetween(ctx context.Context, personID string, from, to time.Time) ([]models.Shift, error)
}

type notificationPersonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

// NotificationConfig tunes dispatch behaviour.
type NotificationConfig struct {
	Workers      int
	BufferSize   int
	MaxRetries   int
	RetryDelay   time.Duration
	SendTimeout  time.Duration
	BulkThrottle time.Duration
}

// NotificationService renders and sends shift emails. Every failure past its
// boundary is logged and swallowed: scheduling outcomes never depend on
// notification outcomes, and a persisted shift is never rolled back here.
type NotificationService struct {
	shifts  notificationShiftRepository
	persons notificationPersonRepository
	sender  mailer.Sender
	metrics *MetricsService
	logger  *zap.Logger

	sendTimeout  time.Duration
	bulkThrottle time.Duration
	queue        *jobs.Queue
}

// NewNotificationService constructs the dispatcher and its background queue.
func NewNotificationService(shifts notificationShiftRepository, persons notificationPersonRepository, sender mailer.Sender, metrics *MetricsService, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.BulkThrottle < 0 {
		cfg.BulkThrottle = 0
	}

	s := &NotificationService{
		shifts:       shifts,
		persons:      persons,
		sender:       sender,
		metrics:      metrics,
		logger:       logger,
		sendTimeout:  cfg.SendTimeout,
		bulkThrottle: cfg.BulkThrottle,
	}

	s.queue = jobs.NewQueue("notifications", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})

	return s
}

// Start begins background dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the dispatch workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// ShiftCreated enqueues an advisory notification for a freshly persisted
// shift. Enqueue failures are logged, never returned.
func (s *NotificationService) ShiftCreated(shiftID string) {
	job := jobs.Job{ID: uuid.NewString(), Type: jobShiftCreated, Payload: shiftID}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue shift notification",
			zap.String("shift_id", shiftID),
			zap.Error(err))
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	shiftID, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("notification job carries no shift id", zap.String("job_id", job.ID))
		return nil
	}
	switch job.Type {
	case jobShiftReminder:
		s.Remind(ctx, shiftID)
	default:
		s.Notify(ctx, shiftID)
	}
	return nil
}

// Notify sends the "shift scheduled" email for one shift. All failures are
// contained here.
func (s *NotificationService) Notify(ctx context.Context, shiftID string) {
	s.deliver(ctx, shiftID, false)
}

// Remind sends the reminder variant for one shift.
func (s *NotificationService) Remind(ctx context.Context, shiftID string) {
	s.deliver(ctx, shiftID, true)
}

// NotifyBulk sends one message per shift id, sequentially with a small
// inter-message delay so the provider's rate ceiling is respected. A failed
// message never stops the rest of the batch.
func (s *NotificationService) NotifyBulk(ctx context.Context, shiftIDs []string) {
	for i, id := range shiftIDs {
		if i > 0 && s.bulkThrottle > 0 {
			timer := time.NewTimer(s.bulkThrottle)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Warn("bulk notification cancelled",
					zap.Int("sent", i),
					zap.Int("total", len(shiftIDs)))
				return
			case <-timer.C:
			}
		}
		s.Notify(ctx, id)
	}
}

// PendingToday returns the person's shifts falling on the current calendar
// day, used as a pending-notification proxy.
func (s *NotificationService) PendingToday(ctx context.Context, personID string) ([]models.Shift, error) {
	today := rota.Day(time.Now())
	shifts, err := s.shifts.ListByPersonBetween(ctx, personID, today, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's shifts")
	}
	return shifts, nil
}

func (s *NotificationService) deliver(ctx context.Context, shiftID string, reminder bool) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("shift not found for notification", zap.String("shift_id", shiftID))
		} else {
			s.fail(shiftID, "load shift", err)
		}
		return
	}

	person, err := s.persons.FindByID(ctx, shift.PersonID)
	if err != nil {
		s.fail(shiftID, "load person", err)
		return
	}

	if person.Email == "" {
		s.logger.Warn("person has no email address, skipping notification",
			zap.String("shift_id", shiftID),
			zap.String("person_id", person.ID))
		return
	}

	msg := renderShiftMessage(shift, person, reminder)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	messageID, err := s.sender.Send(sendCtx, msg)
	if err != nil {
		s.fail(shiftID, "send mail", err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordNotification(true)
	}
	s.logger.Info("shift notification sent",
		zap.String("shift_id", shiftID),
		zap.String("person_id", person.ID),
		zap.String("message_id", messageID),
		zap.Bool("reminder", reminder))
}

func (s *NotificationService) fail(shiftID, stage string, err error) {
	if s.metrics != nil {
		s.metrics.RecordNotification(false)
	}
	wrapped := appErrors.Wrap(err, appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, stage+" failed")
	s.logger.Error("shift notification failed",
		zap.String("shift_id", shiftID),
		zap.String("stage", stage),
		zap.Error(wrapped))
}

func renderShiftMessage(shift *models.Shift, person *models.Person, reminder bool) mailer.Message {
	day := shift.Date.Format("Monday, 02 Jan 2006")

	subject := fmt.Sprintf("New shift on %s", day)
	lead := "You have been scheduled for a new shift."
	if reminder {
		subject = fmt.Sprintf("Reminder: shift on %s", day)
		lead = "This is a reminder for your upcoming shift."
	}

	position := ""
	if shift.Position != nil && *shift.Position != "" {
		position = fmt.Sprintf("<li>Position: %s</li>", *shift.Position)
	}

	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s</p><ul><li>Date: %s</li><li>Time: %s - %s</li><li>Type: %s</li>%s</ul>",
		person.FullName, lead, day, shift.StartTime, shift.EndTime, shift.Kind, position)

	plain := fmt.Sprintf("Hi %s, %s Date: %s, time: %s - %s (%s).",
		person.FullName, lead, day, shift.StartTime, shift.EndTime, shift.Kind)

	return mailer.Message{
		ToName:    person.FullName,
		ToEmail:   person.Email,
		Subject:   subject,
		HTMLBody:  html,
		PlainBody: plain,
	}
}
