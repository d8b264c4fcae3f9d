package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/cryptox"
	"github.com/dmitrijs2005/evoting/internal/logging"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	sc "github.com/dmitrijs2005/evoting/internal/server/config"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/evoting/internal/server/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "test-secret"

type harness struct {
	t        *testing.T
	store    *memstore.Store
	client   *pb.VotingServiceClient
	tenantID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ring := cryptox.NewKeyRing()
	_, err := ring.Rotate(time.Now())
	require.NoError(t, err)
	codec := cryptox.NewBallotCodec(ring)

	store := memstore.New()
	log := logging.Nop{}
	srv := NewGRPCServer("bufconn", log, Services{
		Identity:     services.NewIdentityService(store, testSecret, log),
		Directory:    services.NewDirectoryService(store, log),
		Lifecycle:    services.NewLifecycleService(store, log),
		Registry:     services.NewRegistryService(store, log),
		Ledger:       services.NewLedgerService(store, codec, log),
		Audit:        services.NewAuditService(store, codec, &sc.Config{}, log),
		Provisioning: services.NewProvisioningService(store, log),
	})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})

	h := &harness{t: t, store: store, client: pb.NewVotingServiceClient(conn)}
	tn := &models.Tenant{ID: uuid.NewString(), Name: "Acme", Timezone: "UTC", Active: true}
	_, err = store.Tenants(nil).Create(context.Background(), tn)
	require.NoError(t, err)
	h.tenantID = tn.ID
	return h
}

// user creates an account and returns a context carrying its token.
func (h *harness) user(role models.Role) (string, context.Context) {
	h.t.Helper()
	u := &models.User{ID: uuid.NewString(), TenantID: &h.tenantID, Email: uuid.NewString() + "@example.com", Role: role, Active: true}
	_, err := h.store.Users(nil).Create(context.Background(), u)
	require.NoError(h.t, err)

	token, err := auth.GenerateToken(u.ID, u.TenantID, role, []byte(testSecret), time.Hour)
	require.NoError(h.t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
	return u.ID, ctx
}

func TestPing_IsPublic(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Ping(context.Background(), &pb.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestAuth_Rejections(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.ListElections(context.Background(), &pb.ListElectionsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())

	bad := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "garbage")
	_, err = h.client.ListElections(bad, &pb.ListElectionsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ghost, err := auth.GenerateToken(uuid.NewString(), nil, models.RoleSuperAdmin, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	_, err = h.client.ListElections(metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, ghost), &pb.ListElectionsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	malformed, err := auth.GenerateToken("user-1", nil, models.RoleSuperAdmin, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	_, err = h.client.ListElections(metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, malformed), &pb.ListElectionsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestMalformedIDs_AreNotFound(t *testing.T) {
	h := newHarness(t)
	_, voter := h.user(models.RoleVoter)
	_, admin := h.user(models.RoleTenantAdmin)

	_, err := h.client.CastVote(voter, &pb.CastVoteRequest{ElectionID: "not-a-uuid", CandidateIDs: []string{"x"}})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = h.client.GetElection(admin, &pb.ElectionRef{ElectionID: "42"})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = h.client.UpdatePosition(admin, &pb.UpdatePositionRequest{PositionID: "p1", Name: "Chair", MaxSelectable: 1})
	assert.Equal(t, codes.NotFound, status.Code(err))

	e, err := h.client.CreateElection(admin, &pb.CreateElectionRequest{
		Title: "Council", StartAt: time.Now().Add(time.Hour), EndAt: time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = h.client.RegisterVoters(admin, &pb.RegisterVotersRequest{ElectionID: e.Election.ID, VoterIDs: []string{"bob"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestProvisioningAndStructureEdits(t *testing.T) {
	h := newHarness(t)
	_, root := h.user(models.RoleSuperAdmin)
	_, admin := h.user(models.RoleTenantAdmin)

	tn, err := h.client.CreateTenant(root, &pb.CreateTenantRequest{Name: "Globex", ContactEmail: "ops@globex.test", Timezone: "Europe/Riga"})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Riga", tn.Tenant.Timezone)
	_, err = h.client.CreateTenant(admin, &pb.CreateTenantRequest{Name: "Initech", ContactEmail: "ops@initech.test"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	u, err := h.client.CreateUser(admin, &pb.CreateUserRequest{Email: "ana@acme.test", FirstName: "Ana", Role: string(models.RoleVoter)})
	require.NoError(t, err)
	assert.Equal(t, h.tenantID, u.User.TenantID)
	_, err = h.client.CreateUser(admin, &pb.CreateUserRequest{Email: "ana@acme.test", FirstName: "Ana", Role: string(models.RoleVoter)})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	_, err = h.client.CreateUser(admin, &pb.CreateUserRequest{TenantID: tn.Tenant.ID, Email: "x@globex.test", FirstName: "X", Role: string(models.RoleVoter)})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	list, err := h.client.CreateList(admin, &pb.CreateListRequest{Name: "Blue"})
	require.NoError(t, err)
	assert.Equal(t, h.tenantID, list.List.TenantID)

	e, err := h.client.CreateElection(admin, &pb.CreateElectionRequest{
		Title: "Council", StartAt: time.Now().Add(time.Hour), EndAt: time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)
	pos, err := h.client.AddPosition(admin, &pb.AddPositionRequest{ElectionID: e.Election.ID, Name: "Chair", MaxSelectable: 1})
	require.NoError(t, err)
	_, err = h.client.AddPosition(admin, &pb.AddPositionRequest{ElectionID: e.Election.ID, Name: "Board", MaxSelectable: 2})
	require.NoError(t, err)

	upd, err := h.client.UpdatePosition(admin, &pb.UpdatePositionRequest{PositionID: pos.Position.ID, Name: "President", MaxSelectable: 1})
	require.NoError(t, err)
	assert.Equal(t, "President", upd.Position.Name)
	_, err = h.client.UpdatePosition(admin, &pb.UpdatePositionRequest{PositionID: pos.Position.ID, Name: "Board", MaxSelectable: 1})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	c, err := h.client.AddCandidate(admin, &pb.AddCandidateRequest{PositionID: pos.Position.ID, FirstName: "Rita", OrderNumber: 1})
	require.NoError(t, err)
	_, err = h.client.AddCandidate(admin, &pb.AddCandidateRequest{PositionID: pos.Position.ID, FirstName: "Tom", OrderNumber: 2})
	require.NoError(t, err)

	uc, err := h.client.UpdateCandidate(admin, &pb.UpdateCandidateRequest{
		CandidateID:         c.Candidate.ID,
		AddCandidateRequest: pb.AddCandidateRequest{ListID: list.List.ID, FirstName: "Rita", LastName: "Mora", OrderNumber: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, list.List.ID, uc.Candidate.ListID)
	assert.Equal(t, pos.Position.ID, uc.Candidate.PositionID)
	_, err = h.client.UpdateCandidate(admin, &pb.UpdateCandidateRequest{
		CandidateID:         c.Candidate.ID,
		AddCandidateRequest: pb.AddCandidateRequest{FirstName: "Rita", OrderNumber: 2},
	})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = h.client.Activate(admin, &pb.ElectionRef{ElectionID: e.Election.ID})
	require.NoError(t, err)
	_, err = h.client.UpdatePosition(admin, &pb.UpdatePositionRequest{PositionID: pos.Position.ID, Name: "Late", MaxSelectable: 1})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestVotingFlow(t *testing.T) {
	h := newHarness(t)
	_, admin := h.user(models.RoleTenantAdmin)
	voterID, voter := h.user(models.RoleVoter)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	created, err := h.client.CreateElection(admin, &pb.CreateElectionRequest{
		Title:   "Council",
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	id := created.Election.ID
	assert.Equal(t, "PENDIENTE", created.Election.State)
	assert.Equal(t, h.tenantID, created.Election.TenantID)

	pos, err := h.client.AddPosition(admin, &pb.AddPositionRequest{ElectionID: id, Name: "President", MaxSelectable: 1})
	require.NoError(t, err)
	c1, err := h.client.AddCandidate(admin, &pb.AddCandidateRequest{PositionID: pos.Position.ID, FirstName: "Ana", OrderNumber: 1})
	require.NoError(t, err)
	c2, err := h.client.AddCandidate(admin, &pb.AddCandidateRequest{PositionID: pos.Position.ID, FirstName: "Luis", OrderNumber: 2})
	require.NoError(t, err)

	reg, err := h.client.RegisterVoters(admin, &pb.RegisterVotersRequest{ElectionID: id, VoterIDs: []string{voterID}})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Added)

	_, err = h.client.Activate(voter, &pb.ElectionRef{ElectionID: id})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.client.CastVote(voter, &pb.CastVoteRequest{ElectionID: id, CandidateIDs: []string{c1.Candidate.ID}})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	activated, err := h.client.Activate(admin, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVA", activated.Election.State)

	_, err = h.client.CastVote(voter, &pb.CastVoteRequest{ElectionID: id, CandidateIDs: []string{c1.Candidate.ID, c2.Candidate.ID}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	receipt, err := h.client.CastVote(voter, &pb.CastVoteRequest{ElectionID: id, CandidateIDs: []string{c1.Candidate.ID}})
	require.NoError(t, err)
	assert.Len(t, receipt.ChainHash, 64)

	_, err = h.client.CastVote(voter, &pb.CastVoteRequest{ElectionID: id, CandidateIDs: []string{c1.Candidate.ID}})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	st, err := h.client.GetMyStatus(voter, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	assert.True(t, st.HasVoted)
	assert.False(t, st.CanVote)

	_, err = h.client.GetResults(admin, &pb.ElectionRef{ElectionID: id})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = h.client.Close(admin, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)

	res, err := h.client.GetResults(admin, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "Ana", res.Candidates[0].Name)
	assert.Equal(t, int64(1), res.Candidates[0].Votes)
	assert.Equal(t, int64(0), res.Candidates[1].Votes)
	assert.Equal(t, int64(1), res.TotalVotes)
	assert.Equal(t, int64(0), res.UndecodableVotes)

	part, err := h.client.GetParticipation(admin, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	assert.Equal(t, 100.0, part.Rate)

	chain, err := h.client.VerifyChain(admin, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	assert.True(t, chain.Valid)
	assert.Equal(t, 1, chain.Checked)

	got, err := h.client.GetElection(voter, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	assert.Equal(t, "CERRADA", got.Election.State)
	assert.Len(t, got.Positions, 1)
	assert.Len(t, got.Candidates, 2)
}

func TestStructureEndpoints(t *testing.T) {
	h := newHarness(t)
	_, admin := h.user(models.RoleTenantAdmin)

	start := time.Now().Add(time.Hour).UTC()
	created, err := h.client.CreateElection(admin, &pb.CreateElectionRequest{Title: "Draft", StartAt: start, EndAt: start.Add(time.Hour)})
	require.NoError(t, err)
	id := created.Election.ID

	updated, err := h.client.UpdateElection(admin, &pb.UpdateElectionRequest{
		ElectionID:            id,
		CreateElectionRequest: pb.CreateElectionRequest{Title: "Final", StartAt: start, EndAt: start.Add(2 * time.Hour), VotingType: "PONDERADA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Election.Title)
	assert.Equal(t, "PONDERADA", updated.Election.VotingType)

	pos, err := h.client.AddPosition(admin, &pb.AddPositionRequest{ElectionID: id, Name: "Seat", MaxSelectable: 1})
	require.NoError(t, err)
	cand, err := h.client.AddCandidate(admin, &pb.AddCandidateRequest{PositionID: pos.Position.ID, FirstName: "Eva"})
	require.NoError(t, err)

	_, err = h.client.DeletePosition(admin, &pb.DeletePositionRequest{PositionID: pos.Position.ID})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = h.client.DeleteCandidate(admin, &pb.DeleteCandidateRequest{CandidateID: cand.Candidate.ID})
	require.NoError(t, err)
	_, err = h.client.DeletePosition(admin, &pb.DeletePositionRequest{PositionID: pos.Position.ID})
	require.NoError(t, err)

	list, err := h.client.ListElections(admin, &pb.ListElectionsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Elections, 1)

	_, err = h.client.DeleteElection(admin, &pb.ElectionRef{ElectionID: id})
	require.NoError(t, err)
	_, err = h.client.GetElection(admin, &pb.ElectionRef{ElectionID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.client.Cancel(admin, &pb.ElectionRef{ElectionID: id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, Services{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, Services{})

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
