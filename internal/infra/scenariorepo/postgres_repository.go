package scenariorepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
)

const defaultListLimit = 50

// PostgresRepository implements scenario.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new scenario row.
func (r *PostgresRepository) Insert(ctx context.Context, s scenario.Scenario) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO scenarios (id, name, state_code, monthly_consumption_kwh, peak_share_percent, profile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Name, s.State, s.MonthlyConsumptionKWh, s.PeakSharePercent, s.Profile, s.CreatedAt)
	return err
}

// Get fetches a scenario by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (scenario.Scenario, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, state_code, monthly_consumption_kwh, peak_share_percent, profile, created_at
		FROM scenarios
		WHERE id = $1
	`, id)
	s, err := scanScenario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return scenario.Scenario{}, false, nil
	}
	if err != nil {
		return scenario.Scenario{}, false, err
	}
	return s, true, nil
}

// List returns the newest scenarios first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]scenario.Scenario, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, state_code, monthly_consumption_kwh, peak_share_percent, profile, created_at
		FROM scenarios
		ORDER BY created_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]scenario.Scenario, 0, limit)
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (scenario.Scenario, error) {
	var s scenario.Scenario
	if err := row.Scan(&s.ID, &s.Name, &s.State, &s.MonthlyConsumptionKWh, &s.PeakSharePercent, &s.Profile, &s.CreatedAt); err != nil {
		return scenario.Scenario{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

var _ scenario.Repository = (*PostgresRepository)(nil)
