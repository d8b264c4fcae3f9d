package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/evoting/internal/cryptox"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	sc "github.com/dmitrijs2005/evoting/internal/server/config"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fixture wires every service to one in-memory store with a tenant, its
// admin and a super admin.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memstore.Store
	codec *cryptox.BallotCodec

	directory *DirectoryService
	lifecycle *LifecycleService
	registry  *RegistryService
	ledger    *LedgerService
	audit     *AuditService

	tenantID string
	admin    auth.Principal
	super    auth.Principal
}

// seeded is an election with two positions: President (pick 1) with
// candidates "Ana" and "Luis", and Board (pick 2) with "Eva", "Juan", "Sol".
type seeded struct {
	ID         string
	Candidates map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ring := cryptox.NewKeyRing()
	_, err := ring.Rotate(time.Now())
	require.NoError(t, err)

	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: memstore.New(),
		codec: cryptox.NewBallotCodec(ring),
	}
	log := logging.Nop{}
	f.directory = NewDirectoryService(f.store, log)
	f.lifecycle = NewLifecycleService(f.store, log)
	f.registry = NewRegistryService(f.store, log)
	f.ledger = NewLedgerService(f.store, f.codec, log)
	f.audit = NewAuditService(f.store, f.codec, &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "ledgers",
	}, log)

	f.tenantID = f.addTenant("Acme")
	f.admin = f.addUser(&f.tenantID, models.RoleTenantAdmin)
	f.super = f.addUser(nil, models.RoleSuperAdmin)
	return f
}

func (f *fixture) addTenant(name string) string {
	f.t.Helper()
	tn := &models.Tenant{ID: uuid.NewString(), Name: name, Timezone: "America/Bogota", Active: true}
	_, err := f.store.Tenants(nil).Create(f.ctx, tn)
	require.NoError(f.t, err)
	return tn.ID
}

func (f *fixture) addUser(tenantID *string, role models.Role) auth.Principal {
	f.t.Helper()
	u := &models.User{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Email:     uuid.NewString() + "@example.com",
		FirstName: string(role),
		Role:      role,
		Active:    true,
	}
	_, err := f.store.Users(nil).Create(f.ctx, u)
	require.NoError(f.t, err)
	return auth.Principal{UserID: u.ID, TenantID: tenantID, Role: role}
}

func (f *fixture) addVoter() auth.Principal {
	return f.addUser(&f.tenantID, models.RoleVoter)
}

// seedElection stores an election of the fixture tenant directly in state.
func (f *fixture) seedElection(state models.ElectionState) seeded {
	f.t.Helper()
	return f.seedElectionFor(f.tenantID, state)
}

func (f *fixture) seedElectionFor(tenantID string, state models.ElectionState) seeded {
	f.t.Helper()
	now := time.Now().UTC()
	e := &models.Election{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Title:      "Board 2026",
		StartAt:    now.Add(time.Hour),
		EndAt:      now.Add(2 * time.Hour),
		State:      state,
		VotingType: models.VotingMajority,
		Anonymous:  true,
	}
	_, err := f.store.Elections(nil).Create(f.ctx, e)
	require.NoError(f.t, err)

	out := seeded{ID: e.ID, Candidates: map[string]string{}}
	for _, pos := range []struct {
		name  string
		max   int
		names []string
	}{
		{"President", 1, []string{"Ana", "Luis"}},
		{"Board", 2, []string{"Eva", "Juan", "Sol"}},
	} {
		p := &models.Position{ID: uuid.NewString(), ElectionID: e.ID, Name: pos.name, MaxSelectable: pos.max}
		_, err := f.store.Positions(nil).Create(f.ctx, p)
		require.NoError(f.t, err)
		for i, n := range pos.names {
			c := &models.Candidate{ID: uuid.NewString(), PositionID: p.ID, FirstName: n, OrderNumber: i + 1}
			_, err := f.store.Candidates(nil).Create(f.ctx, c)
			require.NoError(f.t, err)
			out.Candidates[n] = c.ID
		}
	}
	return out
}

func (f *fixture) register(electionID string, voters ...auth.Principal) {
	f.t.Helper()
	for _, v := range voters {
		_, err := f.store.Registrations(nil).Insert(f.ctx, electionID, v.UserID)
		require.NoError(f.t, err)
	}
}

func (f *fixture) setState(electionID string, state models.ElectionState) {
	f.t.Helper()
	e, err := f.store.Elections(nil).GetByID(f.ctx, electionID)
	require.NoError(f.t, err)
	ok, err := f.store.Elections(nil).UpdateState(f.ctx, electionID, e.State, state)
	require.NoError(f.t, err)
	require.True(f.t, ok, fmt.Sprintf("state %s -> %s", e.State, state))
}

func ptr[T any](v T) *T { return &v }
