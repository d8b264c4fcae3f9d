package registrations

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

func (r *PostgresRepository) Get(ctx context.Context, electionID, voterID string) (*models.VoterRegistration, error) {
	query :=
		`SELECT election_id, voter_id, has_voted
		 FROM voter_registrations
		 WHERE election_id = $1 AND voter_id = $2
		 `

	reg := &models.VoterRegistration{}
	err := r.db.QueryRowContext(ctx, query, electionID, voterID).Scan(&reg.ElectionID, &reg.VoterID, &reg.HasVoted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reg, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, electionID, voterID string) (bool, error) {
	query :=
		`INSERT INTO voter_registrations (election_id, voter_id, has_voted)
		 VALUES ($1, $2, FALSE)
		 ON CONFLICT (election_id, voter_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, electionID, voterID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) MarkVoted(ctx context.Context, electionID, voterID string) (bool, error) {
	query :=
		`UPDATE voter_registrations SET has_voted = TRUE
		 WHERE election_id = $1 AND voter_id = $2 AND has_voted = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, electionID, voterID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Counts(ctx context.Context, electionID string) (*models.Participation, error) {
	query :=
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE has_voted)
		 FROM voter_registrations
		 WHERE election_id = $1
		 `

	p := &models.Participation{ElectionID: electionID}
	if err := r.db.QueryRowContext(ctx, query, electionID).Scan(&p.TotalRegistered, &p.TotalVoted); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
