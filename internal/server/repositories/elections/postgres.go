package elections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const electionColumns = `id, tenant_id, title, description, start_at, end_at, state, voting_type, anonymous, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (*models.Election, error) {
	e := &models.Election{}
	err := row.Scan(&e.ID, &e.TenantID, &e.Title, &e.Description, &e.StartAt, &e.EndAt,
		&e.State, &e.VotingType, &e.Anonymous, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Election, error) {
	e, err := scanElection(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Election, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Election) (*models.Election, error) {
	query :=
		`INSERT INTO elections (id, tenant_id, title, description, start_at, end_at, state, voting_type, anonymous)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.TenantID, e.Title, e.Description, e.StartAt, e.EndAt, e.State, e.VotingType, e.Anonymous).
		Scan(&e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Election, error) {
	return r.getOne(ctx, `SELECT `+electionColumns+` FROM elections WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Election, error) {
	return r.getOne(ctx, `SELECT `+electionColumns+` FROM elections WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context, tenantID string) ([]*models.Election, error) {
	if tenantID == "" {
		return r.list(ctx, `SELECT `+electionColumns+` FROM elections ORDER BY start_at DESC`)
	}
	return r.list(ctx, `SELECT `+electionColumns+` FROM elections WHERE tenant_id = $1 ORDER BY start_at DESC`, tenantID)
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.Election) error {
	query :=
		`UPDATE elections
		 SET title = $2, description = $3, start_at = $4, end_at = $5, voting_type = $6, anonymous = $7
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.StartAt, e.EndAt, e.VotingType, e.Anonymous)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) UpdateState(ctx context.Context, id string, from, to models.ElectionState) (bool, error) {
	query :=
		`UPDATE elections SET state = $3
		 WHERE id = $1 AND state = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) ListStartDue(ctx context.Context, now time.Time) ([]*models.Election, error) {
	return r.list(ctx,
		`SELECT `+electionColumns+` FROM elections WHERE state = $1 AND start_at <= $2 ORDER BY start_at`,
		models.StatePending, now)
}

func (r *PostgresRepository) ListEndDue(ctx context.Context, now time.Time) ([]*models.Election, error) {
	return r.list(ctx,
		`SELECT `+electionColumns+` FROM elections WHERE state = $1 AND end_at <= $2 ORDER BY end_at`,
		models.StateActive, now)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
