package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/middleware"
	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/service"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
)

type fakeShiftRepo struct {
	shifts []models.Shift
	seq    int
}

func (f *fakeShiftRepo) List(context.Context, models.ShiftFilter) ([]models.Shift, int, error) {
	return f.shifts, len(f.shifts), nil
}

func (f *fakeShiftRepo) FindByID(_ context.Context, id string) (*models.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeShiftRepo) ListByPerson(_ context.Context, personID string) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range f.shifts {
		if s.PersonID == personID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) ListByPersonBetween(context.Context, string, time.Time, time.Time) ([]models.Shift, error) {
	return nil, nil
}

func (f *fakeShiftRepo) ListBetween(context.Context, time.Time, time.Time) ([]models.Shift, error) {
	return f.shifts, nil
}

func (f *fakeShiftRepo) Create(_ context.Context, shift *models.Shift) error {
	f.seq++
	shift.ID = fmt.Sprintf("shift-%d", f.seq)
	f.shifts = append(f.shifts, *shift)
	return nil
}

func (f *fakeShiftRepo) Update(_ context.Context, shift *models.Shift) error {
	for i, s := range f.shifts {
		if s.ID == shift.ID {
			f.shifts[i] = *shift
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeShiftRepo) Delete(_ context.Context, id string) error {
	for i, s := range f.shifts {
		if s.ID == id {
			f.shifts = append(f.shifts[:i], f.shifts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeRoster struct {
	eligible map[string]models.Person
}

func (f *fakeRoster) RequireEligible(_ context.Context, personID string) (*models.Person, error) {
	p, ok := f.eligible[personID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "person is not shift-eligible")
	}
	return &p, nil
}

func (f *fakeRoster) ResolveEligible(_ context.Context, personIDs []string) ([]models.Person, error) {
	out := make([]models.Person, 0, len(personIDs))
	for _, id := range personIDs {
		p, ok := f.eligible[id]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "person is not shift-eligible")
		}
		out = append(out, p)
	}
	return out, nil
}

func staffPerson(id, name string) models.Person {
	return models.Person{
		ID:           id,
		Email:        id + "@example.com",
		FullName:     name,
		Role:         models.RoleStaff,
		Capabilities: []string{models.CapabilityShiftEligible},
		Active:       true,
	}
}

func newShiftHandlerFixture(repo *fakeShiftRepo, roster *fakeRoster) *ShiftHandler {
	svc := service.NewShiftService(repo, roster, nil, nil, time.Minute, nil, zap.NewNop())
	return NewShiftHandler(svc, nil, nil)
}

func adminContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{PersonID: "admin-1", Role: models.RoleAdmin})
	return c, rec
}

func TestShiftHandlerCreateStampsAssignedBy(t *testing.T) {
	repo := &fakeShiftRepo{}
	handler := newShiftHandlerFixture(repo, &fakeRoster{eligible: map[string]models.Person{
		"p-1": staffPerson("p-1", "Ada"),
	}})

	c, rec := adminContext(t, http.MethodPost, "/shifts",
		`{"person_id":"p-1","date":"2024-05-15","start_time":"08:00","end_time":"16:00"}`)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.shifts, 1)
	require.NotNil(t, repo.shifts[0].AssignedBy)
	assert.Equal(t, "admin-1", *repo.shifts[0].AssignedBy)
}

func TestShiftHandlerCreateRejectsMalformedBody(t *testing.T) {
	handler := newShiftHandlerFixture(&fakeShiftRepo{}, &fakeRoster{})

	c, rec := adminContext(t, http.MethodPost, "/shifts", `{"person_id":`)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShiftHandlerAssignWeekRejectsIneligibleRoster(t *testing.T) {
	repo := &fakeShiftRepo{}
	handler := newShiftHandlerFixture(repo, &fakeRoster{eligible: map[string]models.Person{
		"p-1": staffPerson("p-1", "Ada"),
	}})

	c, rec := adminContext(t, http.MethodPost, "/shifts/assign-week",
		`{"week_start":"2024-05-12","person_ids":["p-1","ghost"],"pattern":"ROTATING"}`)

	handler.AssignWeek(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.shifts)
}

func TestShiftHandlerAssignWeekCreatesFullWeek(t *testing.T) {
	repo := &fakeShiftRepo{}
	handler := newShiftHandlerFixture(repo, &fakeRoster{eligible: map[string]models.Person{
		"p-1": staffPerson("p-1", "Ada"),
	}})

	c, rec := adminContext(t, http.MethodPost, "/shifts/assign-week",
		`{"week_start":"2024-05-12","person_ids":["p-1"],"pattern":"ROTATING"}`)

	handler.AssignWeek(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.shifts, 7)

	var envelope struct {
		Data []models.Shift `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 7)
	assert.Equal(t, models.ShiftMorning, envelope.Data[0].Kind)
}

func TestShiftHandlerDeleteMissingShift(t *testing.T) {
	handler := newShiftHandlerFixture(&fakeShiftRepo{}, &fakeRoster{})

	c, rec := adminContext(t, http.MethodDelete, "/shifts/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
