// Package services contains server-side business logic: the election
// directory and lifecycle controller, the eligibility registry, the vote
// ledger and the audit reader. Every operation takes the caller's
// auth.Principal and consults auth.Authorize before touching data.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/google/uuid"
)

var domainErrors = []error{
	common.ErrorNotFound,
	common.ErrorConflict,
	common.ErrorForbidden,
	common.ErrorInvalidState,
	common.ErrorInvalidInput,
	common.ErrorUnauthorized,
	common.ErrorInternal,
}

// storageError passes domain errors through and turns anything else (driver
// failures, commit errors) into common.ErrorInternal. A literal rejected by
// the database is the caller's fault, not a transient failure.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	if dbx.IsInvalidTextRepresentation(err) {
		return fmt.Errorf("%w: %v", common.ErrorInvalidInput, err)
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

// validID reports whether id is a canonical uuid, the only form the id
// columns accept.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// checkID rejects a malformed id before it reaches storage, reporting it as
// kind (NotFound for lookups, InvalidInput for references in a payload).
func checkID(kind error, what, id string) error {
	if validID(id) {
		return nil
	}
	return fmt.Errorf("%w: %s %q", kind, what, id)
}

type electionGetter func(ctx context.Context, id string) (*models.Election, error)

// scopedElection loads the election with get and checks that p may perform
// action on it.
func scopedElection(ctx context.Context, get electionGetter, p auth.Principal, id string, action auth.Action) (*models.Election, error) {
	if err := checkID(common.ErrorNotFound, "election", id); err != nil {
		return nil, err
	}
	e, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: election %s", common.ErrorNotFound, id)
		}
		return nil, storageError(err)
	}
	if err := auth.Authorize(p, action, e.TenantID); err != nil {
		return nil, err
	}
	return e, nil
}

func invalidState(e *models.Election, required ...models.ElectionState) error {
	return fmt.Errorf("%w: election is %s, must be %v", common.ErrorInvalidState, e.State, required)
}

func requirePending(e *models.Election) error {
	if e.State != models.StatePending {
		return invalidState(e, models.StatePending)
	}
	return nil
}
