package users

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

const userColumns = `id, tenant_id, email, first_name, last_name, role, active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var tenantID sql.NullString
	if err := row.Scan(&u.ID, &tenantID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Active, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.TenantID = dbx.StringPtr(tenantID)
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, tenant_id, email, first_name, last_name, role, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, dbx.NullString(user.TenantID), user.Email, user.FirstName, user.LastName, user.Role, user.Active).
		Scan(&user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %q already registered", common.ErrorConflict, user.Email)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// listByIDsChunk bounds the placeholders of one ListByIDs query, well under
// the 65535 bind parameters PostgreSQL accepts per statement.
var listByIDsChunk = 1000

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	var result []*models.User
	for start := 0; start < len(ids); start += listByIDsChunk {
		end := min(start+listByIDsChunk, len(ids))
		users, err := r.listByIDs(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		result = append(result, users...)
	}
	return result, nil
}

func (r *PostgresRepository) listByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (` + dbx.Placeholders(1, len(ids)) + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
