package votes

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	// Last returns the highest-seq vote of the election or
	// common.ErrorNotFound for an empty ledger.
	Last(ctx context.Context, electionID string) (*models.Vote, error)
	Insert(ctx context.Context, v *models.Vote) error
	// ListByElection returns the whole ledger in seq order.
	ListByElection(ctx context.Context, electionID string) ([]*models.Vote, error)
}
