package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shiftops/roster-api/internal/models"
)

const personColumns = "id, email, password_hash, full_name, role, capabilities, active, created_at, updated_at"

// PersonRepository reads rostered identities. The identity domain owns
// writes; this API only consumes it.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new person repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// FindByID loads a person by id.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM persons WHERE id = $1", personColumns)
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByEmail loads a person by email for credential checks.
func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM persons WHERE LOWER(email) = LOWER($1)", personColumns)
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, email); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByIDs loads the persons matching the given ids. Missing ids are simply
// absent from the result; callers decide whether that is an error.
func (r *PersonRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM persons WHERE id IN (%s)", personColumns, strings.Join(placeholders, ","))
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query, args...); err != nil {
		return nil, fmt.Errorf("find persons by ids: %w", err)
	}
	return persons, nil
}

// ListEligible returns the active persons carrying the shift-eligible tag.
func (r *PersonRepository) ListEligible(ctx context.Context) ([]models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM persons WHERE active = TRUE AND capabilities @> $1 ORDER BY full_name ASC", personColumns)
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query, pq.Array([]string{models.CapabilityShiftEligible})); err != nil {
		return nil, fmt.Errorf("list eligible persons: %w", err)
	}
	return persons, nil
}
