package candidates

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	var listID sql.NullString
	err := row.Scan(&c.ID, &c.PositionID, &listID, &c.FirstName, &c.LastName, &c.Description, &c.OrderNumber)
	c.ListID = dbx.StringPtr(listID)
	return c, err
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	query :=
		`INSERT INTO candidates (id, position_id, list_id, first_name, last_name, description, order_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.PositionID, dbx.NullString(c.ListID), c.FirstName, c.LastName, c.Description, c.OrderNumber)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: order number %d already taken", common.ErrorConflict, c.OrderNumber)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	query :=
		`SELECT id, position_id, list_id, first_name, last_name, description, order_number
		 FROM candidates
		 WHERE id = $1
		 `

	c, err := scanCandidate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &c, nil
}

func (r *PostgresRepository) ListByElection(ctx context.Context, electionID string) ([]models.Candidate, error) {
	query :=
		`SELECT c.id, c.position_id, c.list_id, c.first_name, c.last_name, c.description, c.order_number
		 FROM candidates c
		 JOIN positions p ON p.id = c.position_id
		 WHERE p.election_id = $1
		 ORDER BY p.name, c.order_number
		 `

	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByPosition(ctx context.Context, positionID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE position_id = $1`, positionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Candidate) error {
	query :=
		`UPDATE candidates
		 SET list_id = $2, first_name = $3, last_name = $4, description = $5, order_number = $6
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		c.ID, dbx.NullString(c.ListID), c.FirstName, c.LastName, c.Description, c.OrderNumber)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: order number %d already taken", common.ErrorConflict, c.OrderNumber)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
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
