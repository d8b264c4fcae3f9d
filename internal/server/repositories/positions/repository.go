package positions

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Position) (*models.Position, error)
	GetByID(ctx context.Context, id string) (*models.Position, error)
	ListByElection(ctx context.Context, electionID string) ([]models.Position, error)
	// Update rewrites name and max selectable of an existing position.
	Update(ctx context.Context, p *models.Position) error
	Delete(ctx context.Context, id string) error
}
