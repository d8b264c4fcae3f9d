package votes

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

const voteColumns = `id, election_id, voter_id, seq, encrypted_payload, signature, chain_hash, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVote(row rowScanner) (*models.Vote, error) {
	v := &models.Vote{}
	err := row.Scan(&v.ID, &v.ElectionID, &v.VoterID, &v.Seq, &v.EncryptedPayload, &v.Signature, &v.ChainHash, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) Last(ctx context.Context, electionID string) (*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE election_id = $1 ORDER BY seq DESC LIMIT 1`

	v, err := scanVote(r.db.QueryRowContext(ctx, query, electionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, v *models.Vote) error {
	query :=
		`INSERT INTO votes (id, election_id, voter_id, seq, encrypted_payload, signature, chain_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.ElectionID, v.VoterID, v.Seq, v.EncryptedPayload, v.Signature, v.ChainHash, v.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: vote already recorded", common.ErrorConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByElection(ctx context.Context, electionID string) ([]*models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE election_id = $1 ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
