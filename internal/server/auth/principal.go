// Package auth verifies bearer tokens and holds the capability-checked
// principal type together with the single authorization policy every core
// operation consults.
package auth

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/server/models"
)

// Principal is an authenticated caller.
type Principal struct {
	UserID   string
	TenantID *string
	Role     models.Role
}

// System is the principal used by background jobs such as the lifecycle sweep.
var System = Principal{UserID: "system", Role: models.RoleSuperAdmin}

func (p Principal) IsSuperAdmin() bool { return p.Role == models.RoleSuperAdmin }

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleSuperAdmin || p.Role == models.RoleTenantAdmin
}

func (p Principal) IsVoter() bool { return p.Role == models.RoleVoter }

// InTenant reports whether p may see resources of tenantID. Super admins
// cross tenant boundaries.
func (p Principal) InTenant(tenantID string) bool {
	if p.IsSuperAdmin() {
		return true
	}
	return p.TenantID != nil && *p.TenantID == tenantID
}

type ctxKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
