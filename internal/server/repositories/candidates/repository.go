package candidates

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Candidate) (*models.Candidate, error)
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	// ListByElection returns the candidates of every position of the election.
	ListByElection(ctx context.Context, electionID string) ([]models.Candidate, error)
	CountByPosition(ctx context.Context, positionID string) (int64, error)
	// Update rewrites every field but the position.
	Update(ctx context.Context, c *models.Candidate) error
	Delete(ctx context.Context, id string) error
}
