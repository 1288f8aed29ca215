package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shiftops/roster-api/internal/models"
)

const shiftColumns = "id, person_id, date, start_time, end_time, kind, position, notes, holiday, assigned, assigned_by, created_at, updated_at"

// ShiftRepository provides persistence for shift records.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository creates a new shift repository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// List returns shifts with optional filtering and pagination.
func (r *ShiftRepository) List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, int, error) {
	base := "FROM shifts WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.PersonID != "" {
		conditions = append(conditions, fmt.Sprintf("person_id = $%d", len(args)+1))
		args = append(args, filter.PersonID)
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)+1))
		args = append(args, filter.Kind)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"date":       true,
		"start_time": true,
		"kind":       true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", shiftColumns, base, sortBy, order, size, offset)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list shifts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count shifts: %w", err)
	}

	return shifts, total, nil
}

// FindByID loads a shift by id.
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE id = $1", shiftColumns)
	var shift models.Shift
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		return nil, err
	}
	return &shift, nil
}

// ListByPerson returns every shift for a person ordered by date.
func (r *ShiftRepository) ListByPerson(ctx context.Context, personID string) ([]models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE person_id = $1 ORDER BY date ASC, start_time ASC", shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, personID); err != nil {
		return nil, fmt.Errorf("list shifts by person: %w", err)
	}
	return shifts, nil
}

// ListByPersonBetween returns a person's shifts within an inclusive date range.
func (r *ShiftRepository) ListByPersonBetween(ctx context.Context, personID string, from, to time.Time) ([]models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE person_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC", shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, personID, from, to); err != nil {
		return nil, fmt.Errorf("list shifts by person between: %w", err)
	}
	return shifts, nil
}

// ListBetween returns shifts for all persons within an inclusive date range.
func (r *ShiftRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE date >= $1 AND date <= $2 ORDER BY date ASC, start_time ASC", shiftColumns)
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, from, to); err != nil {
		return nil, fmt.Errorf("list shifts between: %w", err)
	}
	return shifts, nil
}

// Create stores a new shift record.
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = now
	}
	shift.UpdatedAt = now

	const query = `INSERT INTO shifts (id, person_id, date, start_time, end_time, kind, position, notes, holiday, assigned, assigned_by, created_at, updated_at) VALUES (:id, :person_id, :date, :start_time, :end_time, :kind, :position, :notes, :holiday, :assigned, :assigned_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, shift); err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

// Update modifies a shift record.
func (r *ShiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	shift.UpdatedAt = time.Now().UTC()
	const query = `UPDATE shifts SET person_id = :person_id, date = :date, start_time = :start_time, end_time = :end_time, kind = :kind, position = :position, notes = :notes, holiday = :holiday, assigned = :assigned, assigned_by = :assigned_by, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, shift); err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	return nil
}

// Delete removes a shift by id.
func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	return nil
}
