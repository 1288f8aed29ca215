package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
)

type mockExportShiftRepo struct {
	shifts []models.Shift
}

func (m *mockExportShiftRepo) ListBetween(_ context.Context, from, to time.Time) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range m.shifts {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockExportPersonRepo struct {
	persons map[string]models.Person
}

func (m *mockExportPersonRepo) FindByIDs(_ context.Context, ids []string) ([]models.Person, error) {
	var out []models.Person
	for _, id := range ids {
		if p, ok := m.persons[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func exportFixture() *ExportService {
	position := "BARISTA"
	shifts := []models.Shift{
		testShift("s-2", "p-2", "2024-05-14"),
		testShift("s-1", "p-1", "2024-05-13"),
	}
	shifts[1].Position = &position
	return NewExportService(
		&mockExportShiftRepo{shifts: shifts},
		&mockExportPersonRepo{persons: map[string]models.Person{
			"p-1": eligiblePerson("p-1", "Ada Lovelace"),
			"p-2": eligiblePerson("p-2", "Ben Byte"),
		}},
		nil,
		zap.NewNop(),
	)
}

func TestExportServiceWeeklyRosterCSV(t *testing.T) {
	svc := exportFixture()

	result, err := svc.WeeklyRoster(context.Background(), "2024-05-12", ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "roster-2024-05-12.csv", result.FileName)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Content)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Date")
	// Rows come out sorted by date.
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Contains(t, lines[1], "BARISTA")
	assert.Contains(t, lines[2], "Ben Byte")
}

func TestExportServiceWeeklyRosterPDF(t *testing.T) {
	svc := exportFixture()

	result, err := svc.WeeklyRoster(context.Background(), "2024-05-12", ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "roster-2024-05-12.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceWeeklyRosterDefaultsToCSV(t *testing.T) {
	svc := exportFixture()

	result, err := svc.WeeklyRoster(context.Background(), "2024-05-12", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := exportFixture()

	_, err := svc.WeeklyRoster(context.Background(), "2024-05-12", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRejectsBadWeekStart(t *testing.T) {
	svc := exportFixture()

	_, err := svc.WeeklyRoster(context.Background(), "May 12", ExportCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
