package users

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListByIDs returns the users that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []string) ([]*models.User, error)
}
