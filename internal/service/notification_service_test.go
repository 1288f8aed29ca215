package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/rota"
	"github.com/shiftops/roster-api/pkg/mailer"
)

type mockNotifyShiftRepo struct {
	shifts map[string]models.Shift
}

func (m *mockNotifyShiftRepo) FindByID(_ context.Context, id string) (*models.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockNotifyShiftRepo) ListByPersonBetween(_ context.Context, personID string, from, to time.Time) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range m.shifts {
		if s.PersonID == personID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockNotifyPersonRepo struct {
	persons map[string]models.Person
}

func (m *mockNotifyPersonRepo) FindByID(_ context.Context, id string) (*models.Person, error) {
	p, ok := m.persons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

type mockSender struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func (m *mockSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[msg.ToEmail]; ok {
		return "", err
	}
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

func notifyFixture(shifts map[string]models.Shift, persons map[string]models.Person, sender mailer.Sender) *NotificationService {
	return NewNotificationService(
		&mockNotifyShiftRepo{shifts: shifts},
		&mockNotifyPersonRepo{persons: persons},
		sender,
		nil,
		zap.NewNop(),
		NotificationConfig{SendTimeout: time.Second},
	)
}

func testShift(id, personID, date string) models.Shift {
	day, _ := time.Parse("2006-01-02", date)
	return models.Shift{
		ID:        id,
		PersonID:  personID,
		Date:      day,
		StartTime: "08:00",
		EndTime:   "16:00",
		Kind:      models.ShiftMorning,
	}
}

func TestNotificationServiceNotifySendsEmail(t *testing.T) {
	sender := &mockSender{}
	svc := notifyFixture(
		map[string]models.Shift{"s-1": testShift("s-1", "p-1", "2024-05-15")},
		map[string]models.Person{"p-1": eligiblePerson("p-1", "Ada")},
		sender,
	)

	svc.Notify(context.Background(), "s-1")

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "p-1@example.com", msg.ToEmail)
	assert.Contains(t, msg.Subject, "New shift")
	assert.Contains(t, msg.HTMLBody, "Ada")
	assert.Contains(t, msg.PlainBody, "08:00 - 16:00")
}

func TestNotificationServiceRemindUsesReminderSubject(t *testing.T) {
	sender := &mockSender{}
	svc := notifyFixture(
		map[string]models.Shift{"s-1": testShift("s-1", "p-1", "2024-05-15")},
		map[string]models.Person{"p-1": eligiblePerson("p-1", "Ada")},
		sender,
	)

	svc.Remind(context.Background(), "s-1")

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Reminder")
}

func TestNotificationServiceSwallowsSendFailure(t *testing.T) {
	sender := &mockSender{failFor: map[string]error{"p-1@example.com": assert.AnError}}
	svc := notifyFixture(
		map[string]models.Shift{"s-1": testShift("s-1", "p-1", "2024-05-15")},
		map[string]models.Person{"p-1": eligiblePerson("p-1", "Ada")},
		sender,
	)

	// Must not panic and must not surface the transport error.
	svc.Notify(context.Background(), "s-1")
	assert.Empty(t, sender.sent)
}

func TestNotificationServiceSkipsPersonWithoutEmail(t *testing.T) {
	person := eligiblePerson("p-1", "Ada")
	person.Email = ""
	sender := &mockSender{}
	svc := notifyFixture(
		map[string]models.Shift{"s-1": testShift("s-1", "p-1", "2024-05-15")},
		map[string]models.Person{"p-1": person},
		sender,
	)

	svc.Notify(context.Background(), "s-1")
	assert.Empty(t, sender.sent)
}

func TestNotificationServiceBulkContinuesPastFailures(t *testing.T) {
	sender := &mockSender{failFor: map[string]error{"p-2@example.com": assert.AnError}}
	svc := notifyFixture(
		map[string]models.Shift{
			"s-1": testShift("s-1", "p-1", "2024-05-15"),
			"s-2": testShift("s-2", "p-2", "2024-05-15"),
			"s-3": testShift("s-3", "p-3", "2024-05-15"),
		},
		map[string]models.Person{
			"p-1": eligiblePerson("p-1", "Ada"),
			"p-2": eligiblePerson("p-2", "Ben"),
			"p-3": eligiblePerson("p-3", "Cleo"),
		},
		sender,
	)

	svc.NotifyBulk(context.Background(), []string{"s-1", "s-2", "s-3"})

	// The failing middle message is dropped; the rest still go out.
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "p-1@example.com", sender.sent[0].ToEmail)
	assert.Equal(t, "p-3@example.com", sender.sent[1].ToEmail)
}

func TestNotificationServiceBulkStopsOnCancel(t *testing.T) {
	sender := &mockSender{}
	svc := NewNotificationService(
		&mockNotifyShiftRepo{shifts: map[string]models.Shift{
			"s-1": testShift("s-1", "p-1", "2024-05-15"),
			"s-2": testShift("s-2", "p-1", "2024-05-15"),
		}},
		&mockNotifyPersonRepo{persons: map[string]models.Person{"p-1": eligiblePerson("p-1", "Ada")}},
		sender,
		nil,
		zap.NewNop(),
		NotificationConfig{SendTimeout: time.Second, BulkThrottle: time.Hour},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	svc.NotifyBulk(ctx, []string{"s-1", "s-2"})
	assert.Len(t, sender.sent, 1)
}

func TestNotificationServicePendingToday(t *testing.T) {
	todayShift := testShift("s-1", "p-1", "2024-05-15")
	todayShift.Date = rota.Day(time.Now())
	svc := notifyFixture(
		map[string]models.Shift{
			"s-1": todayShift,
			"s-2": testShift("s-2", "p-1", "2000-01-01"),
		},
		map[string]models.Person{"p-1": eligiblePerson("p-1", "Ada")},
		&mockSender{},
	)

	shifts, err := svc.PendingToday(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "s-1", shifts[0].ID)
}
