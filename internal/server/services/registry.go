package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
)

// VoterStatus is what a voter may learn about their own participation.
// It never carries vote content or timing.
type VoterStatus struct {
	Registered    bool
	HasVoted      bool
	CanVote       bool
	ElectionState models.ElectionState
}

// ParticipationReport aggregates the registry of one election.
type ParticipationReport struct {
	ElectionID      string
	TotalRegistered int64
	TotalVoted      int64
	Remaining       int64
	// Rate is TotalVoted/TotalRegistered in percent, two decimals.
	Rate float64
}

// RegistryService manages the eligibility registry.
type RegistryService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewRegistryService(m repomanager.RepositoryManager, log logging.Logger) *RegistryService {
	return &RegistryService{repomanager: m, log: log.With("module", "registry")}
}

func registrationClosed(e *models.Election) error {
	if e.State == models.StateActive || e.State == models.StateClosed {
		return fmt.Errorf("%w: cannot register voters for an election that is %s", common.ErrorInvalidState, e.State)
	}
	return nil
}

// RegisterVoters adds voterIDs to the election's registry and returns how
// many were newly added. The whole batch is validated before anything is
// written; voters already registered are skipped.
func (s *RegistryService) RegisterVoters(ctx context.Context, p auth.Principal, electionID string, voterIDs []string) (int, error) {
	db := s.repomanager.Conn()
	e, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionRegisterVoters)
	if err != nil {
		return 0, err
	}
	if err := registrationClosed(e); err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(voterIDs))
	seen := make(map[string]bool, len(voterIDs))
	for _, id := range voterIDs {
		if err := checkID(common.ErrorInvalidInput, "voter", id); err != nil {
			return 0, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	found, err := s.repomanager.Users(db).ListByIDs(ctx, ids)
	if err != nil {
		return 0, storageError(err)
	}
	eligible := make(map[string]bool, len(found))
	for _, u := range found {
		if u.Role == models.RoleVoter && u.TenantID != nil && *u.TenantID == e.TenantID {
			eligible[u.ID] = true
		}
	}
	for _, id := range ids {
		if !eligible[id] {
			return 0, fmt.Errorf("%w: voter %s not found or not a voter of this tenant", common.ErrorInvalidInput, id)
		}
	}

	added := 0
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		added = 0
		locked, err := scopedElection(ctx, s.repomanager.Elections(tx).GetForUpdate, p, electionID, auth.ActionRegisterVoters)
		if err != nil {
			return err
		}
		if err := registrationClosed(locked); err != nil {
			return err
		}
		regs := s.repomanager.Registrations(tx)
		for _, id := range ids {
			ok, err := regs.Insert(ctx, electionID, id)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, storageError(err)
	}

	s.log.Info(ctx, "voters registered", "election_id", electionID, "requested", len(ids), "added", added)
	return added, nil
}

// Status reports the caller's own registration for the election.
func (s *RegistryService) Status(ctx context.Context, p auth.Principal, electionID string) (*VoterStatus, error) {
	db := s.repomanager.Conn()
	e, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionReadStatus)
	if err != nil {
		return nil, err
	}

	st := &VoterStatus{ElectionState: e.State}
	reg, err := s.repomanager.Registrations(db).Get(ctx, electionID, p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return st, nil
		}
		return nil, storageError(err)
	}

	st.Registered = true
	st.HasVoted = reg.HasVoted
	st.CanVote = !reg.HasVoted && e.State == models.StateActive && p.IsVoter()
	return st, nil
}

// Participation returns aggregate turnout in any state.
func (s *RegistryService) Participation(ctx context.Context, p auth.Principal, electionID string) (*ParticipationReport, error) {
	db := s.repomanager.Conn()
	if _, err := scopedElection(ctx, s.repomanager.Elections(db).GetByID, p, electionID, auth.ActionReadParticipation); err != nil {
		return nil, err
	}

	counts, err := s.repomanager.Registrations(db).Counts(ctx, electionID)
	if err != nil {
		return nil, storageError(err)
	}
	return participationReport(counts), nil
}

func participationReport(c *models.Participation) *ParticipationReport {
	r := &ParticipationReport{
		ElectionID:      c.ElectionID,
		TotalRegistered: c.TotalRegistered,
		TotalVoted:      c.TotalVoted,
		Remaining:       c.TotalRegistered - c.TotalVoted,
	}
	if c.TotalRegistered > 0 {
		r.Rate = round2(float64(c.TotalVoted) / float64(c.TotalRegistered) * 100)
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
