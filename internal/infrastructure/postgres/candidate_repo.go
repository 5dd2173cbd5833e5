package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const candidateColumns = `id, first_name, last_name, email, mobile_number, degree,
		       hired_city, hired_date, status, created_at, updated_at`

type CandidateRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCandidateRepository(pool *pgxpool.Pool, logger *slog.Logger) *CandidateRepository {
	return &CandidateRepository{pool: pool, logger: logger.With("component", "candidate_repo")}
}

func (r *CandidateRepository) Upsert(ctx context.Context, c *domain.HiredCandidate) (*domain.HiredCandidate, error) {
	query := `
		INSERT INTO hired_candidates (
			first_name, last_name, email, mobile_number, degree,
			hired_city, hired_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			first_name    = EXCLUDED.first_name,
			last_name     = EXCLUDED.last_name,
			mobile_number = EXCLUDED.mobile_number,
			degree        = EXCLUDED.degree,
			hired_city    = EXCLUDED.hired_city,
			hired_date    = EXCLUDED.hired_date,
			status        = EXCLUDED.status,
			updated_at    = NOW()
		RETURNING ` + candidateColumns

	row := r.pool.QueryRow(ctx, query,
		c.FirstName, c.LastName, c.Email, c.MobileNumber, c.Degree,
		c.HiredCity, c.HiredDate, c.Status,
	)
	saved, err := scanCandidate(row)
	if err != nil {
		return nil, fmt.Errorf("upsert candidate: %w", err)
	}
	return saved, nil
}

func (r *CandidateRepository) List(ctx context.Context) ([]*domain.HiredCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+candidateColumns+`
		FROM hired_candidates
		ORDER BY hired_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []*domain.HiredCandidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	r.logger.DebugContext(ctx, "listed candidates", "count", len(out))
	return out, nil
}

// FindByFirstName returns the oldest candidate with that first name.
func (r *CandidateRepository) FindByFirstName(ctx context.Context, firstName string) (*domain.HiredCandidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+candidateColumns+`
		FROM hired_candidates
		WHERE first_name = $1
		ORDER BY id
		LIMIT 1`, firstName)
	return scanCandidate(row)
}

func scanCandidate(row pgx.Row) (*domain.HiredCandidate, error) {
	var c domain.HiredCandidate
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.MobileNumber, &c.Degree,
		&c.HiredCity, &c.HiredDate, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	return &c, nil
}
