package services

import (
	"testing"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterVoters_Idempotent(t *testing.T) {
	f := newFixture(t)
	e := f.seedElection(models.StatePending)
	a, b, c := f.addVoter(), f.addVoter(), f.addVoter()

	n, err := f.registry.RegisterVoters(f.ctx, f.admin, e.ID, []string{a.UserID, b.UserID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := f.store.Registrations(nil).MarkVoted(f.ctx, e.ID, b.UserID)
	require.NoError(t, err)
	require.True(t, ok)

	n, err = f.registry.RegisterVoters(f.ctx, f.admin, e.ID, []string{b.UserID, c.UserID, c.UserID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Re-registering must not reset the flag of a voter who already voted.
	st, err := f.registry.Status(f.ctx, b, e.ID)
	require.NoError(t, err)
	assert.True(t, st.Registered)
	assert.True(t, st.HasVoted)
	assert.False(t, st.CanVote)

	st, err = f.registry.Status(f.ctx, c, e.ID)
	require.NoError(t, err)
	assert.True(t, st.Registered)
	assert.False(t, st.HasVoted)

	p, err := f.registry.Participation(f.ctx, f.admin, e.ID)
	require.NoError(t, err)
	assert.Equal(t, &ParticipationReport{ElectionID: e.ID, TotalRegistered: 3, TotalVoted: 1, Remaining: 2, Rate: 33.33}, p)
}

func TestRegisterVoters_RejectsWholeBatch(t *testing.T) {
	f := newFixture(t)
	e := f.seedElection(models.StatePending)
	voter := f.addVoter()

	otherTenant := f.addTenant("Globex")
	foreign := f.addUser(&otherTenant, models.RoleVoter)

	tests := []struct {
		name string
		ids  []string
	}{
		{"unknown user", []string{voter.UserID, uuid.NewString()}},
		{"malformed id", []string{voter.UserID, "ghost"}},
		{"admin is not a voter", []string{voter.UserID, f.admin.UserID}},
		{"voter of another tenant", []string{voter.UserID, foreign.UserID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.registry.RegisterVoters(f.ctx, f.admin, e.ID, tt.ids)
			assert.ErrorIs(t, err, common.ErrorInvalidInput)
		})
	}

	p, err := f.registry.Participation(f.ctx, f.admin, e.ID)
	require.NoError(t, err)
	assert.Zero(t, p.TotalRegistered)
}

func TestRegisterVoters_Gating(t *testing.T) {
	f := newFixture(t)
	voter := f.addVoter()

	for _, st := range []models.ElectionState{models.StateActive, models.StateClosed} {
		e := f.seedElection(st)
		_, err := f.registry.RegisterVoters(f.ctx, f.admin, e.ID, []string{voter.UserID})
		assert.ErrorIs(t, err, common.ErrorInvalidState, st)
	}

	e := f.seedElection(models.StatePending)
	_, err := f.registry.RegisterVoters(f.ctx, voter, e.ID, []string{voter.UserID})
	assert.ErrorIs(t, err, common.ErrorForbidden)

	otherTenant := f.addTenant("Globex")
	otherAdmin := f.addUser(&otherTenant, models.RoleTenantAdmin)
	_, err = f.registry.RegisterVoters(f.ctx, otherAdmin, e.ID, []string{voter.UserID})
	assert.ErrorIs(t, err, common.ErrorForbidden)

	n, err := f.registry.RegisterVoters(f.ctx, f.admin, e.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	e := f.seedElection(models.StateActive)
	voter, stranger := f.addVoter(), f.addVoter()
	f.register(e.ID, voter)

	st, err := f.registry.Status(f.ctx, voter, e.ID)
	require.NoError(t, err)
	assert.Equal(t, &VoterStatus{Registered: true, CanVote: true, ElectionState: models.StateActive}, st)

	st, err = f.registry.Status(f.ctx, stranger, e.ID)
	require.NoError(t, err)
	assert.Equal(t, &VoterStatus{ElectionState: models.StateActive}, st)
}

func TestParticipationReport(t *testing.T) {
	tests := []struct {
		name string
		in   models.Participation
		want ParticipationReport
	}{
		{"empty registry", models.Participation{ElectionID: "e"}, ParticipationReport{ElectionID: "e"}},
		{"one of three", models.Participation{ElectionID: "e", TotalRegistered: 3, TotalVoted: 1},
			ParticipationReport{ElectionID: "e", TotalRegistered: 3, TotalVoted: 1, Remaining: 2, Rate: 33.33}},
		{"two of three", models.Participation{ElectionID: "e", TotalRegistered: 3, TotalVoted: 2},
			ParticipationReport{ElectionID: "e", TotalRegistered: 3, TotalVoted: 2, Remaining: 1, Rate: 66.67}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			assert.Equal(t, tt.want, *participationReport(&in))
		})
	}
}
