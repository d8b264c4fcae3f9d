package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ElectionInput carries the editable fields of an election. TenantID is only
// honoured for super admins; tenant admins always create in their own tenant.
type ElectionInput struct {
	TenantID    string
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	VotingType  models.VotingType
	Anonymous   bool
}

// CandidateInput describes a candidate to add to a position.
type CandidateInput struct {
	PositionID  string
	ListID      *string
	FirstName   string
	LastName    string
	Description string
	OrderNumber int
}

// ElectionDetails is an election together with its ballot structure.
type ElectionDetails struct {
	Election *models.Election
	Schema   models.ElectionSchema
}

// DirectoryService owns election lookup and the structural edits
// (positions, candidates, dates) that are only legal while PENDIENTE.
type DirectoryService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewDirectoryService(m repomanager.RepositoryManager, log logging.Logger) *DirectoryService {
	return &DirectoryService{repomanager: m, log: log.With("module", "directory"), now: time.Now}
}

func (s *DirectoryService) elections(db dbx.DBTX) electionGetter {
	return s.repomanager.Elections(db).GetByID
}

func (s *DirectoryService) lockedElections(db dbx.DBTX) electionGetter {
	return s.repomanager.Elections(db).GetForUpdate
}

func (in ElectionInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorInvalidInput)
	}
	if !in.StartAt.Before(in.EndAt) {
		return fmt.Errorf("%w: start must be before end", common.ErrorInvalidInput)
	}
	switch in.VotingType {
	case models.VotingMajority, models.VotingWeighted:
	default:
		return fmt.Errorf("%w: unknown voting type %q", common.ErrorInvalidInput, in.VotingType)
	}
	return nil
}

// CreateElection creates a PENDIENTE election. The start must lie in the
// future; instants are compared in UTC and the tenant's zone is only used
// for logging local times.
func (s *DirectoryService) CreateElection(ctx context.Context, p auth.Principal, in ElectionInput) (*models.Election, error) {
	tenantID := in.TenantID
	if !p.IsSuperAdmin() {
		if p.TenantID == nil {
			return nil, fmt.Errorf("%w: principal has no tenant", common.ErrorForbidden)
		}
		if tenantID != "" && tenantID != *p.TenantID {
			return nil, fmt.Errorf("%w: cannot create elections for another tenant", common.ErrorForbidden)
		}
		tenantID = *p.TenantID
	}
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant is required", common.ErrorInvalidInput)
	}
	if err := checkID(common.ErrorNotFound, "tenant", tenantID); err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionManageStructure, tenantID); err != nil {
		return nil, err
	}

	if in.VotingType == "" {
		in.VotingType = models.VotingMajority
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	if !in.StartAt.After(now) {
		return nil, fmt.Errorf("%w: start must be in the future", common.ErrorInvalidInput)
	}

	tenant, err := s.repomanager.Tenants(s.repomanager.Conn()).GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: tenant %s", common.ErrorNotFound, tenantID)
		}
		return nil, storageError(err)
	}
	if !tenant.Active {
		return nil, fmt.Errorf("%w: tenant %s is inactive", common.ErrorInvalidInput, tenantID)
	}
	loc, err := time.LoadLocation(tenant.Timezone)
	if err != nil {
		s.log.Warn(ctx, "unknown tenant timezone, using UTC", "tenant_id", tenantID, "timezone", tenant.Timezone)
		loc = time.UTC
	}

	e := &models.Election{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Title:       in.Title,
		Description: in.Description,
		StartAt:     in.StartAt.UTC(),
		EndAt:       in.EndAt.UTC(),
		State:       models.StatePending,
		VotingType:  in.VotingType,
		Anonymous:   in.Anonymous,
	}
	if _, err := s.repomanager.Elections(s.repomanager.Conn()).Create(ctx, e); err != nil {
		return nil, storageError(err)
	}

	s.log.Info(ctx, "election created",
		"election_id", e.ID, "tenant_id", tenantID,
		"start_local", e.StartAt.In(loc).Format(time.RFC3339),
		"end_local", e.EndAt.In(loc).Format(time.RFC3339))
	return e, nil
}

// UpdateElection rewrites title, description, dates, voting type and the
// anonymity flag of a PENDIENTE election.
func (s *DirectoryService) UpdateElection(ctx context.Context, p auth.Principal, id string, in ElectionInput) (*models.Election, error) {
	if in.VotingType == "" {
		in.VotingType = models.VotingMajority
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *models.Election
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, id, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		e.Title = in.Title
		e.Description = in.Description
		e.StartAt = in.StartAt.UTC()
		e.EndAt = in.EndAt.UTC()
		e.VotingType = in.VotingType
		e.Anonymous = in.Anonymous
		if err := s.repomanager.Elections(tx).Update(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return updated, nil
}

// DeleteElection removes a PENDIENTE election with its positions,
// candidates and registrations.
func (s *DirectoryService) DeleteElection(ctx context.Context, p auth.Principal, id string) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, id, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		return s.repomanager.Elections(tx).Delete(ctx, id)
	})
	if err != nil {
		return storageError(err)
	}
	s.log.Info(ctx, "election deleted", "election_id", id)
	return nil
}

// GetElection returns the election and its positions and candidates.
func (s *DirectoryService) GetElection(ctx context.Context, p auth.Principal, id string) (*ElectionDetails, error) {
	db := s.repomanager.Conn()
	e, err := scopedElection(ctx, s.elections(db), p, id, auth.ActionReadElection)
	if err != nil {
		return nil, err
	}
	schema, err := loadSchema(ctx, s.repomanager, db, id)
	if err != nil {
		return nil, err
	}
	return &ElectionDetails{Election: e, Schema: schema}, nil
}

// ListElections returns every election visible to p.
func (s *DirectoryService) ListElections(ctx context.Context, p auth.Principal) ([]*models.Election, error) {
	tenantID := ""
	if !p.IsSuperAdmin() {
		if p.TenantID == nil {
			return nil, fmt.Errorf("%w: principal has no tenant", common.ErrorForbidden)
		}
		tenantID = *p.TenantID
	}
	list, err := s.repomanager.Elections(s.repomanager.Conn()).List(ctx, tenantID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// AddPosition adds a position ("cargo") to a PENDIENTE election.
func (s *DirectoryService) AddPosition(ctx context.Context, p auth.Principal, electionID, name string, maxSelectable int) (*models.Position, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: position name is required", common.ErrorInvalidInput)
	}
	if maxSelectable < 1 {
		return nil, fmt.Errorf("%w: max selectable must be at least 1", common.ErrorInvalidInput)
	}

	pos := &models.Position{ID: uuid.NewString(), ElectionID: electionID, Name: name, MaxSelectable: maxSelectable}
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, electionID, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		_, err = s.repomanager.Positions(tx).Create(ctx, pos)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}
	return pos, nil
}

// DeletePosition removes a position that no longer has candidates.
func (s *DirectoryService) DeletePosition(ctx context.Context, p auth.Principal, positionID string) error {
	if err := checkID(common.ErrorNotFound, "position", positionID); err != nil {
		return err
	}
	pos, err := s.position(ctx, positionID)
	if err != nil {
		return err
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, pos.ElectionID, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		n, err := s.repomanager.Candidates(tx).CountByPosition(ctx, positionID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: position %q still has %d candidates", common.ErrorConflict, pos.Name, n)
		}
		return s.repomanager.Positions(tx).Delete(ctx, positionID)
	})
	return storageError(err)
}

// UpdatePosition renames a position of a PENDIENTE election and changes how
// many candidates a ballot may mark for it.
func (s *DirectoryService) UpdatePosition(ctx context.Context, p auth.Principal, positionID, name string, maxSelectable int) (*models.Position, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: position name is required", common.ErrorInvalidInput)
	}
	if maxSelectable < 1 {
		return nil, fmt.Errorf("%w: max selectable must be at least 1", common.ErrorInvalidInput)
	}
	if err := checkID(common.ErrorNotFound, "position", positionID); err != nil {
		return nil, err
	}
	pos, err := s.position(ctx, positionID)
	if err != nil {
		return nil, err
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, pos.ElectionID, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		pos.Name = name
		pos.MaxSelectable = maxSelectable
		return s.repomanager.Positions(tx).Update(ctx, pos)
	})
	if err != nil {
		return nil, storageError(err)
	}
	return pos, nil
}

func (s *DirectoryService) position(ctx context.Context, id string) (*models.Position, error) {
	pos, err := s.repomanager.Positions(s.repomanager.Conn()).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: position %s", common.ErrorNotFound, id)
		}
		return nil, storageError(err)
	}
	return pos, nil
}

// checkList verifies that the optional list exists and belongs to tenantID.
func (s *DirectoryService) checkList(ctx context.Context, tx dbx.DBTX, listID *string, tenantID string) error {
	if listID == nil {
		return nil
	}
	l, err := s.repomanager.Lists(tx).GetByID(ctx, *listID)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: list %s does not exist", common.ErrorInvalidInput, *listID)
	}
	if err != nil {
		return err
	}
	if l.TenantID != tenantID {
		return fmt.Errorf("%w: list %s belongs to another tenant", common.ErrorInvalidInput, l.ID)
	}
	return nil
}

func (in CandidateInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return fmt.Errorf("%w: candidate name is required", common.ErrorInvalidInput)
	}
	if in.ListID != nil {
		return checkID(common.ErrorInvalidInput, "list", *in.ListID)
	}
	return nil
}

// AddCandidate adds a candidate to a position of a PENDIENTE election. The
// optional list must belong to the election's tenant.
func (s *DirectoryService) AddCandidate(ctx context.Context, p auth.Principal, in CandidateInput) (*models.Candidate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkID(common.ErrorNotFound, "position", in.PositionID); err != nil {
		return nil, err
	}
	pos, err := s.position(ctx, in.PositionID)
	if err != nil {
		return nil, err
	}

	c := &models.Candidate{
		ID:          uuid.NewString(),
		PositionID:  in.PositionID,
		ListID:      in.ListID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Description: in.Description,
		OrderNumber: in.OrderNumber,
	}
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, pos.ElectionID, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		if err := s.checkList(ctx, tx, in.ListID, e.TenantID); err != nil {
			return err
		}
		_, err = s.repomanager.Candidates(tx).Create(ctx, c)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

// UpdateCandidate rewrites a candidate of a PENDIENTE election. The candidate
// stays on its position; in.PositionID is ignored.
func (s *DirectoryService) UpdateCandidate(ctx context.Context, p auth.Principal, candidateID string, in CandidateInput) (*models.Candidate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkID(common.ErrorNotFound, "candidate", candidateID); err != nil {
		return nil, err
	}
	cur, err := s.repomanager.Candidates(s.repomanager.Conn()).GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: candidate %s", common.ErrorNotFound, candidateID)
		}
		return nil, storageError(err)
	}
	pos, err := s.position(ctx, cur.PositionID)
	if err != nil {
		return nil, err
	}

	c := &models.Candidate{
		ID:          candidateID,
		PositionID:  cur.PositionID,
		ListID:      in.ListID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Description: in.Description,
		OrderNumber: in.OrderNumber,
	}
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, pos.ElectionID, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		if err := s.checkList(ctx, tx, in.ListID, e.TenantID); err != nil {
			return err
		}
		return s.repomanager.Candidates(tx).Update(ctx, c)
	})
	if err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

// DeleteCandidate removes a candidate of a PENDIENTE election.
func (s *DirectoryService) DeleteCandidate(ctx context.Context, p auth.Principal, candidateID string) error {
	if err := checkID(common.ErrorNotFound, "candidate", candidateID); err != nil {
		return err
	}
	db := s.repomanager.Conn()
	c, err := s.repomanager.Candidates(db).GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: candidate %s", common.ErrorNotFound, candidateID)
		}
		return storageError(err)
	}
	pos, err := s.repomanager.Positions(db).GetByID(ctx, c.PositionID)
	if err != nil {
		return storageError(err)
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		e, err := scopedElection(ctx, s.lockedElections(tx), p, pos.ElectionID, auth.ActionManageStructure)
		if err != nil {
			return err
		}
		if err := requirePending(e); err != nil {
			return err
		}
		return s.repomanager.Candidates(tx).Delete(ctx, candidateID)
	})
	return storageError(err)
}

// loadSchema reads the position/candidate structure of an election.
func loadSchema(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, electionID string) (models.ElectionSchema, error) {
	schema := models.ElectionSchema{ElectionID: electionID}
	positions, err := m.Positions(db).ListByElection(ctx, electionID)
	if err != nil {
		return schema, storageError(err)
	}
	candidates, err := m.Candidates(db).ListByElection(ctx, electionID)
	if err != nil {
		return schema, storageError(err)
	}
	schema.Positions = positions
	schema.Candidates = candidates
	return schema, nil
}
