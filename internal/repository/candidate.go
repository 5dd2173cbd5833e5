package repository

import (
	"context"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
)

type CandidateRepository interface {
	// Upsert inserts c or updates the row with the same email.
	Upsert(ctx context.Context, c *domain.HiredCandidate) (*domain.HiredCandidate, error)
	List(ctx context.Context) ([]*domain.HiredCandidate, error)
	FindByFirstName(ctx context.Context, firstName string) (*domain.HiredCandidate, error)
}
