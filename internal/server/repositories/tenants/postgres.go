package tenants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	query :=
		`INSERT INTO tenants (id, name, contact_email, timezone, country, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.ContactEmail, t.Timezone, t.Country, t.Active).Scan(&t.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: tenant %q already exists", common.ErrorConflict, t.Name)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	query :=
		`SELECT id, name, contact_email, timezone, COALESCE(country, ''), active, created_at
		 FROM tenants
		 WHERE id = $1
		 `

	t := &models.Tenant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.ContactEmail, &t.Timezone, &t.Country, &t.Active, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}
