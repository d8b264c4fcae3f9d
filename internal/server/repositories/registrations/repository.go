package registrations

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, electionID, voterID string) (*models.VoterRegistration, error)
	// Insert registers the voter and reports whether a new row was created;
	// an existing registration is left untouched.
	Insert(ctx context.Context, electionID, voterID string) (bool, error)
	// MarkVoted flips has_voted from false to true. It reports false when the
	// voter is not registered or has already voted.
	MarkVoted(ctx context.Context, electionID, voterID string) (bool, error)
	Counts(ctx context.Context, electionID string) (*models.Participation, error)
}
