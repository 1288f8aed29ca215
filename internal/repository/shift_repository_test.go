package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftops/roster-api/internal/models"
)

func newShiftRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func shiftRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "person_id", "date", "start_time", "end_time", "kind", "position", "notes", "holiday", "assigned", "assigned_by", "created_at", "updated_at"})
}

func TestShiftRepositoryList(t *testing.T) {
	db, mock, cleanup := newShiftRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	date := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	rows := shiftRows().
		AddRow("s1", "p1", date, "08:00", "16:00", "MORNING", nil, nil, false, true, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, person_id, date, start_time, end_time, kind, position, notes, holiday, assigned, assigned_by, created_at, updated_at FROM shifts WHERE 1=1 ORDER BY date ASC, start_time ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM shifts WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ShiftFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newShiftRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectExec("INSERT INTO shifts").
		WillReturnResult(sqlmock.NewResult(1, 1))

	shift := &models.Shift{
		PersonID:  "p1",
		Date:      time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
		StartTime: "08:00",
		EndTime:   "16:00",
		Kind:      models.ShiftMorning,
	}
	require.NoError(t, repo.Create(context.Background(), shift))
	assert.NotEmpty(t, shift.ID)
	assert.False(t, shift.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryListByPersonBetween(t *testing.T) {
	db, mock, cleanup := newShiftRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	from := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)
	rows := shiftRows().
		AddRow("s1", "p1", from, "00:00", "08:00", "NIGHT", nil, nil, false, true, nil, time.Now(), time.Now()).
		AddRow("s2", "p1", to, "08:00", "16:00", "MORNING", nil, nil, false, true, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM shifts WHERE person_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC")).
		WithArgs("p1", from, to).
		WillReturnRows(rows)

	list, err := repo.ListByPersonBetween(context.Background(), "p1", from, to)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newShiftRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	from := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM shifts WHERE date >= $1 AND date <= $2 ORDER BY date ASC, start_time ASC")).
		WithArgs(from, to).
		WillReturnRows(shiftRows())

	list, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newShiftRepoMock(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shifts WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
