package positions

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

func (r *PostgresRepository) Create(ctx context.Context, p *models.Position) (*models.Position, error) {
	query :=
		`INSERT INTO positions (id, election_id, name, max_selectable)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.ElectionID, p.Name, p.MaxSelectable); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: position %q already exists in election", common.ErrorConflict, p.Name)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Position, error) {
	query :=
		`SELECT id, election_id, name, max_selectable
		 FROM positions
		 WHERE id = $1
		 `

	p := &models.Position{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.ElectionID, &p.Name, &p.MaxSelectable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) ListByElection(ctx context.Context, electionID string) ([]models.Position, error) {
	query :=
		`SELECT id, election_id, name, max_selectable
		 FROM positions
		 WHERE election_id = $1
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Name, &p.MaxSelectable); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Position) error {
	query :=
		`UPDATE positions
		 SET name = $2, max_selectable = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.MaxSelectable)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: position %q already exists in election", common.ErrorConflict, p.Name)
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
