package services

import (
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/server/models"
)

// BallotReason classifies why a ballot was rejected.
type BallotReason string

const (
	ReasonUnknownCandidate   BallotReason = "unknown candidate"
	ReasonForeignCandidate   BallotReason = "candidate belongs to another election"
	ReasonDuplicateCandidate BallotReason = "duplicate candidate"
	ReasonOverSelection      BallotReason = "over-selection"
)

// BallotError is returned by ValidateBallot. It matches common.ErrorInvalidInput.
type BallotError struct {
	Reason      BallotReason
	CandidateID string
	Position    string
}

func (e *BallotError) Error() string {
	if e.Reason == ReasonOverSelection {
		return fmt.Sprintf("over-selection for position %s", e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.CandidateID)
}

func (e *BallotError) Unwrap() error { return common.ErrorInvalidInput }

// ValidateBallot checks candidateIDs against the election schema: every id
// must name a candidate of the election, at most once, and no position may
// receive more selections than its MaxSelectable. An empty ballot is valid.
//
// Ids absent from the schema are reported as ReasonUnknownCandidate; callers
// that can look candidates up elsewhere refine that to ReasonForeignCandidate.
func ValidateBallot(schema models.ElectionSchema, candidateIDs []string) error {
	byID := make(map[string]models.Candidate, len(schema.Candidates))
	for _, c := range schema.Candidates {
		byID[c.ID] = c
	}

	seen := make(map[string]bool, len(candidateIDs))
	perPosition := make(map[string]int)
	for _, id := range candidateIDs {
		c, ok := byID[id]
		if !ok {
			return &BallotError{Reason: ReasonUnknownCandidate, CandidateID: id}
		}
		if seen[id] {
			return &BallotError{Reason: ReasonDuplicateCandidate, CandidateID: id}
		}
		seen[id] = true
		perPosition[c.PositionID]++
	}

	for _, p := range schema.Positions {
		if perPosition[p.ID] > p.MaxSelectable {
			return &BallotError{Reason: ReasonOverSelection, Position: p.Name}
		}
	}
	return nil
}
