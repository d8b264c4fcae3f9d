package lists

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

func (r *PostgresRepository) Create(ctx context.Context, l *models.List) (*models.List, error) {
	query :=
		`INSERT INTO lists (id, tenant_id, name, description, primary_color)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query, l.ID, l.TenantID, l.Name, l.Description, l.PrimaryColor); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return l, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.List, error) {
	query :=
		`SELECT id, tenant_id, name, description, primary_color
		 FROM lists
		 WHERE id = $1
		 `

	l := &models.List{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.TenantID, &l.Name, &l.Description, &l.PrimaryColor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return l, nil
}
