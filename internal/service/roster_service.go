package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
)

type rosterPersonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Person, error)
	ListEligible(ctx context.Context) ([]models.Person, error)
}

// RosterService resolves which identities may receive shift assignments.
type RosterService struct {
	repo   rosterPersonRepository
	logger *zap.Logger
}

// NewRosterService instantiates RosterService.
func NewRosterService(repo rosterPersonRepository, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, logger: logger}
}

// EligiblePersons lists every active person carrying the shift-eligible tag.
func (s *RosterService) EligiblePersons(ctx context.Context) ([]models.Person, error) {
	persons, err := s.repo.ListEligible(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list eligible persons")
	}
	return persons, nil
}

// IsEligible reports whether the person exists and carries the tag.
func (s *RosterService) IsEligible(ctx context.Context, personID string) (bool, error) {
	person, err := s.repo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}
	return person.Active && person.ShiftEligible(), nil
}

// RequireEligible loads a person and fails with a validation error when the
// person is unknown or not shift-eligible.
func (s *RosterService) RequireEligible(ctx context.Context, personID string) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("person %s not found", personID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}
	if !person.Active || !person.ShiftEligible() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("person %s is not shift-eligible", personID))
	}
	return person, nil
}

// ResolveEligible resolves every requested id to an eligible person,
// preserving the input order. The check is all-or-nothing: one unknown or
// ineligible id fails the whole call.
func (s *RosterService) ResolveEligible(ctx context.Context, personIDs []string) ([]models.Person, error) {
	if len(personIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no person ids supplied")
	}

	persons, err := s.repo.FindByIDs(ctx, personIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve persons")
	}

	byID := make(map[string]models.Person, len(persons))
	for _, p := range persons {
		if p.Active && p.ShiftEligible() {
			byID[p.ID] = p
		}
	}

	ordered := make([]models.Person, 0, len(personIDs))
	for _, id := range personIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	if len(ordered) != len(personIDs) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("resolved %d eligible persons for %d requested ids", len(ordered), len(personIDs)))
	}

	return ordered, nil
}
