package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/rota"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type shiftRepository interface {
	List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, int, error)
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	ListByPerson(ctx context.Context, personID string) ([]models.Shift, error)
	ListByPersonBetween(ctx context.Context, personID string, from, to time.Time) ([]models.Shift, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Shift, error)
	Create(ctx context.Context, shift *models.Shift) error
	Update(ctx context.Context, shift *models.Shift) error
	Delete(ctx context.Context, id string) error
}

type rosterDirectory interface {
	RequireEligible(ctx context.Context, personID string) (*models.Person, error)
	ResolveEligible(ctx context.Context, personIDs []string) ([]models.Person, error)
}

// shiftNotifier receives advisory created-shift events. Implementations must
// swallow their own failures; the engine never checks an outcome.
type shiftNotifier interface {
	ShiftCreated(shiftID string)
}

type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateShiftRequest describes payload for creating one shift.
type CreateShiftRequest struct {
	PersonID   string  `json:"person_id" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	StartTime  string  `json:"start_time" validate:"required"`
	EndTime    string  `json:"end_time" validate:"required"`
	Kind       string  `json:"kind,omitempty"`
	Position   *string `json:"position,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Holiday    bool    `json:"holiday"`
	Assigned   bool    `json:"assigned"`
	AssignedBy *string `json:"assigned_by,omitempty"`
}

// UpdateShiftRequest updates an existing shift.
type UpdateShiftRequest struct {
	Date      string  `json:"date" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Kind      string  `json:"kind,omitempty"`
	Position  *string `json:"position,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Holiday   bool    `json:"holiday"`
}

// BulkCreateShiftsRequest holds multiple shift drafts.
type BulkCreateShiftsRequest struct {
	Items []CreateShiftRequest `json:"items" validate:"required,min=1,dive"`
}

// AssignWeekRequest expands one week of pattern-based shifts over a roster.
type AssignWeekRequest struct {
	WeekStart  string   `json:"week_start" validate:"required"`
	PersonIDs  []string `json:"person_ids" validate:"required,min=1"`
	Pattern    string   `json:"pattern,omitempty"`
	Position   *string  `json:"position,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	AssignedBy string   `json:"-"`
}

// ShiftService orchestrates roster validation, week expansion, pattern
// resolution and bulk persistence.
type ShiftService struct {
	repo      shiftRepository
	roster    rosterDirectory
	notifier  shiftNotifier
	cache     viewCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShiftService instantiates ShiftService. Notifier and cache may be nil.
func NewShiftService(repo shiftRepository, roster rosterDirectory, notifier shiftNotifier, cache viewCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ShiftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{
		repo:      repo,
		roster:    roster,
		notifier:  notifier,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Create validates eligibility and persists one shift. The notification is
// advisory; the returned shift reflects persistence outcome only.
func (s *ShiftService) Create(ctx context.Context, req CreateShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift payload")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	if _, err := s.roster.RequireEligible(ctx, req.PersonID); err != nil {
		return nil, err
	}

	kind := models.ShiftKind(req.Kind)
	if kind == "" {
		kind = models.ShiftFullDay
	}

	shift := models.Shift{
		PersonID:   req.PersonID,
		Date:       rota.Day(date),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Kind:       kind,
		Position:   req.Position,
		Notes:      req.Notes,
		Holiday:    req.Holiday,
		Assigned:   req.Assigned,
		AssignedBy: req.AssignedBy,
	}

	if err := s.repo.Create(ctx, &shift); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create shift")
	}

	s.invalidateViews(ctx)
	if s.notifier != nil {
		s.notifier.ShiftCreated(shift.ID)
	}
	return &shift, nil
}

// BulkCreate processes drafts independently. A failing draft is logged and
// skipped; the result contains only shifts that were really persisted.
func (s *ShiftService) BulkCreate(ctx context.Context, req BulkCreateShiftsRequest) ([]models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk shift payload")
	}

	created := make([]models.Shift, 0, len(req.Items))
	for i, item := range req.Items {
		shift, err := s.Create(ctx, item)
		if err != nil {
			s.logger.Warn("skipping shift draft",
				zap.Int("index", i),
				zap.String("person_id", item.PersonID),
				zap.String("date", item.Date),
				zap.Error(err))
			continue
		}
		created = append(created, *shift)
	}
	return created, nil
}

// AssignWeek validates the whole roster up front, expands the week into
// per-day drafts via the rotation pattern and bulk-persists them.
func (s *ShiftService) AssignWeek(ctx context.Context, req AssignWeekRequest) ([]models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	weekStart, err := time.Parse(dateLayout, req.WeekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "week_start must be YYYY-MM-DD")
	}

	// All-or-nothing pre-check, unlike the per-item tolerance below.
	persons, err := s.roster.ResolveEligible(ctx, req.PersonIDs)
	if err != nil {
		return nil, err
	}

	pattern := rota.Pattern(req.Pattern)
	days := rota.WeekDays(weekStart)

	drafts := make([]CreateShiftRequest, 0, len(days)*len(persons))
	for dayOffset, day := range days {
		for idx, person := range persons {
			window := rota.Resolve(dayOffset, idx, pattern)

			position := req.Position
			if position == nil {
				if primary := person.PrimaryCapability(); primary != "" {
					p := primary
					position = &p
				}
			}

			var assignedBy *string
			if req.AssignedBy != "" {
				by := req.AssignedBy
				assignedBy = &by
			}

			drafts = append(drafts, CreateShiftRequest{
				PersonID:   person.ID,
				Date:       day.Format(dateLayout),
				StartTime:  window.StartTime,
				EndTime:    window.EndTime,
				Kind:       string(window.Kind),
				Position:   position,
				Notes:      req.Notes,
				Assigned:   true,
				AssignedBy: assignedBy,
			})
		}
	}

	return s.BulkCreate(ctx, BulkCreateShiftsRequest{Items: drafts})
}

// ListByPerson returns every shift for a person ordered by date.
func (s *ShiftService) ListByPerson(ctx context.Context, personID string) ([]models.Shift, error) {
	shifts, err := s.repo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list person shifts")
	}
	return shifts, nil
}

// List returns shifts for the administrative overview.
func (s *ShiftService) List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, *models.Pagination, error) {
	shifts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return shifts, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ThreeWeekView returns the prior, current and next Sunday-anchored weeks of
// shifts for one person. The three windows are independent reads and are
// fetched concurrently.
func (s *ShiftService) ThreeWeekView(ctx context.Context, personID string) (*models.ThreeWeekView, error) {
	anchor := rota.WeekStart(time.Now())

	cacheKey := fmt.Sprintf("view:3w:%s:%s", personID, anchor.Format(dateLayout))
	if s.cache != nil {
		var cached models.ThreeWeekView
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	anchors := [3]time.Time{anchor.AddDate(0, 0, -7), anchor, anchor.AddDate(0, 0, 7)}
	var weeks [3][]models.Shift
	var errs [3]error

	var wg sync.WaitGroup
	for i, start := range anchors {
		wg.Add(1)
		go func(i int, start time.Time) {
			defer wg.Done()
			weeks[i], errs[i] = s.repo.ListByPersonBetween(ctx, personID, start, rota.WeekEnd(start))
		}(i, start)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week window")
		}
	}

	view := &models.ThreeWeekView{LastWeek: weeks[0], CurrentWeek: weeks[1], NextWeek: weeks[2]}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, view, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache three-week view", zap.Error(err))
		}
	}
	return view, nil
}

// WeeklyView returns all shifts across all persons for the week starting at
// the given anchor date, ordered by date then start time.
func (s *ShiftService) WeeklyView(ctx context.Context, weekStart string) ([]models.Shift, error) {
	anchor, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "week_start must be YYYY-MM-DD")
	}
	anchorDay := rota.Day(anchor)

	cacheKey := fmt.Sprintf("view:week:%s", anchorDay.Format(dateLayout))
	if s.cache != nil {
		var cached []models.Shift
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	shifts, err := s.repo.ListBetween(ctx, anchorDay, rota.WeekEnd(anchorDay))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly view")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, shifts, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache weekly view", zap.Error(err))
		}
	}
	return shifts, nil
}

// Update modifies an existing shift.
func (s *ShiftService) Update(ctx context.Context, id string, req UpdateShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shift payload")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}

	kind := models.ShiftKind(req.Kind)
	if kind == "" {
		kind = existing.Kind
	}

	updated := *existing
	updated.Date = rota.Day(date)
	updated.StartTime = req.StartTime
	updated.EndTime = req.EndTime
	updated.Kind = kind
	updated.Position = req.Position
	updated.Notes = req.Notes
	updated.Holiday = req.Holiday

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update shift")
	}

	s.invalidateViews(ctx)
	return &updated, nil
}

// Delete removes a shift.
func (s *ShiftService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete shift")
	}

	s.invalidateViews(ctx)
	return nil
}

func (s *ShiftService) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "view:*"); err != nil {
		s.logger.Warn("failed to invalidate view cache", zap.Error(err))
	}
}
