package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
)

// LifecycleService drives the election state machine:
//
//	PENDIENTE -> ACTIVA -> CERRADA
//	PENDIENTE -> CANCELADA
type LifecycleService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewLifecycleService(m repomanager.RepositoryManager, log logging.Logger) *LifecycleService {
	return &LifecycleService{repomanager: m, log: log.With("module", "lifecycle")}
}

func (s *LifecycleService) Activate(ctx context.Context, p auth.Principal, id string) (*models.Election, error) {
	return s.transition(ctx, p, id, models.StatePending, models.StateActive)
}

func (s *LifecycleService) Close(ctx context.Context, p auth.Principal, id string) (*models.Election, error) {
	return s.transition(ctx, p, id, models.StateActive, models.StateClosed)
}

func (s *LifecycleService) Cancel(ctx context.Context, p auth.Principal, id string) (*models.Election, error) {
	return s.transition(ctx, p, id, models.StatePending, models.StateCancelled)
}

func (s *LifecycleService) transition(ctx context.Context, p auth.Principal, id string, from, to models.ElectionState) (*models.Election, error) {
	var out *models.Election
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Elections(tx)
		e, err := scopedElection(ctx, repo.GetForUpdate, p, id, auth.ActionManageLifecycle)
		if err != nil {
			return err
		}
		if e.State != from {
			return invalidState(e, from)
		}
		ok, err := repo.UpdateState(ctx, id, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return invalidState(e, from)
		}
		e.State = to
		out = e
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	s.log.Info(ctx, "election state changed", "election_id", id, "from", from, "to", to, "by", p.UserID)
	return out, nil
}

// Sweep activates pending elections whose start has passed and closes active
// elections whose end has passed, acting as auth.System. Elections moved by
// someone else in the meantime are skipped.
func (s *LifecycleService) Sweep(ctx context.Context, now time.Time) (activated, closed int, err error) {
	repo := s.repomanager.Elections(s.repomanager.Conn())

	due, err := repo.ListStartDue(ctx, now)
	if err != nil {
		return 0, 0, storageError(err)
	}
	for _, e := range due {
		if _, err := s.Activate(ctx, auth.System, e.ID); err != nil {
			if errors.Is(err, common.ErrorInvalidState) {
				continue
			}
			return activated, closed, err
		}
		activated++
	}

	due, err = repo.ListEndDue(ctx, now)
	if err != nil {
		return activated, closed, storageError(err)
	}
	for _, e := range due {
		if _, err := s.Close(ctx, auth.System, e.ID); err != nil {
			if errors.Is(err, common.ErrorInvalidState) {
				continue
			}
			return activated, closed, err
		}
		closed++
	}
	return activated, closed, nil
}
