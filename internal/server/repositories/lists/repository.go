package lists

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, list *models.List) (*models.List, error)
	GetByID(ctx context.Context, id string) (*models.List, error)
}
