package elections

import (
	"context"
	"time"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.Election) (*models.Election, error)
	GetByID(ctx context.Context, id string) (*models.Election, error)
	// GetForUpdate reads the election and locks its row until the enclosing
	// transaction ends. State checks that must not race a transition use it.
	GetForUpdate(ctx context.Context, id string) (*models.Election, error)
	// List returns the elections of tenantID, or of every tenant when
	// tenantID is empty, newest start first.
	List(ctx context.Context, tenantID string) ([]*models.Election, error)
	// Update rewrites the editable fields (not state, not tenant).
	Update(ctx context.Context, e *models.Election) error
	// UpdateState moves the election from one state to another and reports
	// whether the row was in the expected state.
	UpdateState(ctx context.Context, id string, from, to models.ElectionState) (bool, error)
	Delete(ctx context.Context, id string) error
	// ListStartDue returns pending elections whose start is not after now.
	ListStartDue(ctx context.Context, now time.Time) ([]*models.Election, error)
	// ListEndDue returns active elections whose end is not after now.
	ListEndDue(ctx context.Context, now time.Time) ([]*models.Election, error)
}
