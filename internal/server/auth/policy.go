package auth

import (
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/common"
)

// Action names something a principal wants to do to an election.
type Action string

const (
	ActionReadElection      Action = "read_election"
	ActionCastVote          Action = "cast_vote"
	ActionReadStatus        Action = "read_status"
	ActionReadParticipation Action = "read_participation"
	ActionReadResults       Action = "read_results"
	ActionManageStructure   Action = "manage_structure"
	ActionManageLifecycle   Action = "manage_lifecycle"
	ActionRegisterVoters    Action = "register_voters"
	ActionAuditLedger       Action = "audit_ledger"
	// ActionManageMembers covers accounts and candidate lists of a tenant.
	ActionManageMembers     Action = "manage_members"
)

var adminOnly = map[Action]bool{
	ActionManageStructure: true,
	ActionManageLifecycle: true,
	ActionRegisterVoters:  true,
	ActionAuditLedger:     true,
	ActionManageMembers:   true,
}

// Authorize is the one policy function for tenant-scoped operations. Role is
// checked first, then tenant scope. Failures wrap common.ErrorForbidden.
func Authorize(p Principal, action Action, tenantID string) error {
	if !p.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrorForbidden, p.Role)
	}
	if adminOnly[action] && !p.IsAdmin() {
		return fmt.Errorf("%w: not enough permissions", common.ErrorForbidden)
	}
	if !p.InTenant(tenantID) {
		return fmt.Errorf("%w: resource belongs to a different tenant", common.ErrorForbidden)
	}
	return nil
}
