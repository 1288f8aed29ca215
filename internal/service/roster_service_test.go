package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
)

type mockPersonDirectory struct {
	persons map[string]models.Person
	findErr error
}

func (m *mockPersonDirectory) FindByID(_ context.Context, id string) (*models.Person, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.persons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *mockPersonDirectory) FindByIDs(_ context.Context, ids []string) ([]models.Person, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.persons[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPersonDirectory) ListEligible(_ context.Context) ([]models.Person, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.Person, 0, len(m.persons))
	for _, p := range m.persons {
		if p.Active && p.ShiftEligible() {
			out = append(out, p)
		}
	}
	return out, nil
}

func eligiblePerson(id, name string, tags ...string) models.Person {
	return models.Person{
		ID:           id,
		Email:        id + "@example.com",
		FullName:     name,
		Role:         models.RoleStaff,
		Capabilities: append([]string{models.CapabilityShiftEligible}, tags...),
		Active:       true,
	}
}

func TestRosterServiceIsEligible(t *testing.T) {
	repo := &mockPersonDirectory{persons: map[string]models.Person{
		"p-1": eligiblePerson("p-1", "Ada"),
		"p-2": {ID: "p-2", FullName: "Ben", Active: true, Capabilities: []string{"BARISTA"}},
	}}
	svc := NewRosterService(repo, zap.NewNop())

	ok, err := svc.IsEligible(context.Background(), "p-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsEligible(context.Background(), "p-2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsEligible(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRosterServiceRequireEligibleRejectsInactive(t *testing.T) {
	inactive := eligiblePerson("p-1", "Ada")
	inactive.Active = false
	repo := &mockPersonDirectory{persons: map[string]models.Person{"p-1": inactive}}
	svc := NewRosterService(repo, zap.NewNop())

	_, err := svc.RequireEligible(context.Background(), "p-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRosterServiceResolveEligiblePreservesOrder(t *testing.T) {
	repo := &mockPersonDirectory{persons: map[string]models.Person{
		"p-1": eligiblePerson("p-1", "Ada"),
		"p-2": eligiblePerson("p-2", "Ben"),
		"p-3": eligiblePerson("p-3", "Cleo"),
	}}
	svc := NewRosterService(repo, zap.NewNop())

	persons, err := svc.ResolveEligible(context.Background(), []string{"p-3", "p-1", "p-2"})
	require.NoError(t, err)
	require.Len(t, persons, 3)
	assert.Equal(t, "p-3", persons[0].ID)
	assert.Equal(t, "p-1", persons[1].ID)
	assert.Equal(t, "p-2", persons[2].ID)
}

func TestRosterServiceResolveEligibleAllOrNothing(t *testing.T) {
	repo := &mockPersonDirectory{persons: map[string]models.Person{
		"p-1": eligiblePerson("p-1", "Ada"),
	}}
	svc := NewRosterService(repo, zap.NewNop())

	_, err := svc.ResolveEligible(context.Background(), []string{"p-1", "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.ResolveEligible(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
