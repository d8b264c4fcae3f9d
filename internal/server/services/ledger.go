package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/cryptox"
	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BallotSealer is the crypto the ledger needs; *cryptox.BallotCodec
// implements it.
type BallotSealer interface {
	Seal(content any) (string, error)
	Open(payload string, v any) error
	Sign(payload, voterID string) (string, error)
	VerifySignature(payload, voterID, signature string) bool
}

// VoteReceipt is returned to the voter. It proves inclusion in the chain
// without revealing the selections.
type VoteReceipt struct {
	VoteID     string
	ElectionID string
	ChainHash  string
	CastAt     time.Time
}

// CandidateResult is one row of the tally.
type CandidateResult struct {
	CandidateID string
	Name        string
	Position    string
	Votes       int64
	// Percentage is Votes over all ledger rows, two decimals.
	Percentage float64
}

// Results is a best-effort tally: payloads that cannot be decoded are
// skipped and counted in UndecodableVotes.
type Results struct {
	ElectionID       string
	Title            string
	State            models.ElectionState
	Candidates       []CandidateResult
	TotalVotes       int64
	DecodedVotes     int64
	UndecodableVotes int64
}

// LedgerService commits ballots to the per-election hash chain and reads
// them back for tallying.
type LedgerService struct {
	repomanager repomanager.RepositoryManager
	codec       BallotSealer
	log         logging.Logger
	now         func() time.Time
}

func NewLedgerService(m repomanager.RepositoryManager, codec BallotSealer, log logging.Logger) *LedgerService {
	return &LedgerService{repomanager: m, codec: codec, log: log.With("module", "ledger"), now: time.Now}
}

// CastVote records one ballot for p. Checks run in this order and the first
// failure wins: election exists and is in scope, election is ACTIVA, voter is
// registered, voter has not voted, ballot is valid. The commit itself runs in
// one transaction holding the election row lock, so concurrent casts for the
// same election append to the chain one at a time and a voter's second
// concurrent cast fails with common.ErrorConflict.
func (s *LedgerService) CastVote(ctx context.Context, p auth.Principal, electionID string, candidateIDs []string) (*VoteReceipt, error) {
	db := s.repomanager.Conn()
	e, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionCastVote)
	if err != nil {
		return nil, err
	}
	if e.State != models.StateActive {
		return nil, fmt.Errorf("%w: election not open for voting", common.ErrorInvalidState)
	}

	reg, err := s.repomanager.Registrations(db).Get(ctx, electionID, p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: not registered", common.ErrorForbidden)
		}
		return nil, storageError(err)
	}
	if reg.HasVoted {
		return nil, fmt.Errorf("%w: already voted", common.ErrorConflict)
	}

	schema, err := loadSchema(ctx, s.repomanager, db, electionID)
	if err != nil {
		return nil, err
	}
	if err := ValidateBallot(schema, candidateIDs); err != nil {
		return nil, s.refineBallotError(ctx, db, err)
	}

	var receipt *VoteReceipt
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		locked, err := s.repomanager.Elections(tx).GetForUpdate(ctx, electionID)
		if err != nil {
			return err
		}
		if locked.State != models.StateActive {
			return fmt.Errorf("%w: election not open for voting", common.ErrorInvalidState)
		}

		flipped, err := s.repomanager.Registrations(tx).MarkVoted(ctx, electionID, p.UserID)
		if err != nil {
			return err
		}
		if !flipped {
			return fmt.Errorf("%w: already voted", common.ErrorConflict)
		}

		votes := s.repomanager.Votes(tx)
		prevHash, prevSeq := common.GenesisHash, int64(0)
		last, err := votes.Last(ctx, electionID)
		switch {
		case err == nil:
			prevHash, prevSeq = last.ChainHash, last.Seq
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		castAt := s.now().UTC()
		selections := append([]string{}, candidateIDs...)
		payload, err := s.codec.Seal(models.BallotContent{
			ElectionID:   electionID,
			CandidateIDs: selections,
			Timestamp:    castAt.Format(time.RFC3339Nano),
			VoterHash:    cryptox.VoterFingerprint(p.UserID),
		})
		if err != nil {
			return fmt.Errorf("seal ballot: %w", err)
		}
		signature, err := s.codec.Sign(payload, p.UserID)
		if err != nil {
			return fmt.Errorf("sign ballot: %w", err)
		}

		v := &models.Vote{
			ID:               uuid.NewString(),
			ElectionID:       electionID,
			VoterID:          p.UserID,
			Seq:              prevSeq + 1,
			EncryptedPayload: payload,
			Signature:        signature,
			ChainHash:        cryptox.ChainHash(prevHash, payload, signature),
			CreatedAt:        castAt,
		}
		if err := votes.Insert(ctx, v); err != nil {
			return err
		}

		receipt = &VoteReceipt{VoteID: v.ID, ElectionID: electionID, ChainHash: v.ChainHash, CastAt: castAt}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrorConflict) && !errors.Is(err, common.ErrorInvalidState) {
			s.log.Error(ctx, "cast vote rolled back", "election_id", electionID, "error", err)
		}
		return nil, storageError(err)
	}

	s.log.Info(ctx, "vote cast", "election_id", electionID, "chain_hash", receipt.ChainHash)
	return receipt, nil
}

// refineBallotError turns "unknown candidate" into "foreign candidate" when
// the id does exist, just not in this election.
func (s *LedgerService) refineBallotError(ctx context.Context, db dbx.DBTX, err error) error {
	var be *BallotError
	if !errors.As(err, &be) || be.Reason != ReasonUnknownCandidate || !validID(be.CandidateID) {
		return err
	}
	if _, lookupErr := s.repomanager.Candidates(db).GetByID(ctx, be.CandidateID); lookupErr == nil {
		return &BallotError{Reason: ReasonForeignCandidate, CandidateID: be.CandidateID}
	}
	return err
}

// Results tallies a CERRADA election. Super admins may read results in any
// state.
func (s *LedgerService) Results(ctx context.Context, p auth.Principal, electionID string) (*Results, error) {
	db := s.repomanager.Conn()
	e, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionReadResults)
	if err != nil {
		return nil, err
	}
	if e.State != models.StateClosed && !p.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: results only available for closed elections", common.ErrorInvalidState)
	}

	schema, err := loadSchema(ctx, s.repomanager, db, electionID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.repomanager.Votes(db).ListByElection(ctx, electionID)
	if err != nil {
		return nil, storageError(err)
	}

	counts := make(map[string]int64, len(schema.Candidates))
	for _, c := range schema.Candidates {
		counts[c.ID] = 0
	}

	res := &Results{ElectionID: e.ID, Title: e.Title, State: e.State, TotalVotes: int64(len(ledger))}
	for _, v := range ledger {
		var content models.BallotContent
		if err := s.codec.Open(v.EncryptedPayload, &content); err != nil || content.ElectionID != electionID {
			res.UndecodableVotes++
			s.log.Debug(ctx, "skipping undecodable vote", "election_id", electionID, "seq", v.Seq)
			continue
		}
		res.DecodedVotes++
		for _, id := range content.CandidateIDs {
			if _, ok := counts[id]; ok {
				counts[id]++
			}
		}
	}

	positionNames := make(map[string]string, len(schema.Positions))
	for _, pos := range schema.Positions {
		positionNames[pos.ID] = pos.Name
	}
	candidates := append([]models.Candidate(nil), schema.Candidates...)
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := positionNames[candidates[i].PositionID], positionNames[candidates[j].PositionID]
		if pi != pj {
			return pi < pj
		}
		return candidates[i].OrderNumber < candidates[j].OrderNumber
	})

	for _, c := range candidates {
		r := CandidateResult{
			CandidateID: c.ID,
			Name:        c.FullName(),
			Position:    positionNames[c.PositionID],
			Votes:       counts[c.ID],
		}
		if res.TotalVotes > 0 {
			r.Percentage = round2(float64(r.Votes) / float64(res.TotalVotes) * 100)
		}
		res.Candidates = append(res.Candidates, r)
	}
	return res, nil
}
