package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/common"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// rpc is the subset of *pb.VotingServiceClient used here.
type rpc interface {
	Ping(ctx context.Context, in *pb.PingRequest, opts ...grpc.CallOption) (*pb.PingResponse, error)
	CastVote(ctx context.Context, in *pb.CastVoteRequest, opts ...grpc.CallOption) (*pb.CastVoteResponse, error)
	GetMyStatus(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.GetMyStatusResponse, error)
	RegisterVoters(ctx context.Context, in *pb.RegisterVotersRequest, opts ...grpc.CallOption) (*pb.RegisterVotersResponse, error)
	Activate(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.ElectionResponse, error)
	Close(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.ElectionResponse, error)
	Cancel(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.ElectionResponse, error)
	GetResults(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.GetResultsResponse, error)
	GetParticipation(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.GetParticipationResponse, error)
	VerifyChain(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.VerifyChainResponse, error)
	ExportLedger(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.ExportLedgerResponse, error)
	CreateElection(ctx context.Context, in *pb.CreateElectionRequest, opts ...grpc.CallOption) (*pb.ElectionResponse, error)
	GetElection(ctx context.Context, in *pb.ElectionRef, opts ...grpc.CallOption) (*pb.GetElectionResponse, error)
	ListElections(ctx context.Context, in *pb.ListElectionsRequest, opts ...grpc.CallOption) (*pb.ListElectionsResponse, error)
	AddPosition(ctx context.Context, in *pb.AddPositionRequest, opts ...grpc.CallOption) (*pb.PositionResponse, error)
	AddCandidate(ctx context.Context, in *pb.AddCandidateRequest, opts ...grpc.CallOption) (*pb.CandidateResponse, error)
	UpdatePosition(ctx context.Context, in *pb.UpdatePositionRequest, opts ...grpc.CallOption) (*pb.PositionResponse, error)
	UpdateCandidate(ctx context.Context, in *pb.UpdateCandidateRequest, opts ...grpc.CallOption) (*pb.CandidateResponse, error)
	CreateTenant(ctx context.Context, in *pb.CreateTenantRequest, opts ...grpc.CallOption) (*pb.TenantResponse, error)
	CreateUser(ctx context.Context, in *pb.CreateUserRequest, opts ...grpc.CallOption) (*pb.UserResponse, error)
	CreateList(ctx context.Context, in *pb.CreateListRequest, opts ...grpc.CallOption) (*pb.ListResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewVotingClient connects to endpointURL. Extra dial options are appended
// after the defaults, which lets tests swap the dialer.
func NewVotingClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewVotingServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	var sentinel error
	switch st.Code() {
	case codes.Unauthenticated:
		sentinel = ErrUnauthorized
	case codes.PermissionDenied:
		sentinel = ErrForbidden
	case codes.NotFound:
		sentinel = ErrNotFound
	case codes.AlreadyExists:
		sentinel = ErrConflict
	case codes.FailedPrecondition:
		sentinel = ErrInvalidState
	case codes.InvalidArgument:
		sentinel = ErrInvalidInput
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) ListElections(ctx context.Context) ([]pb.Election, error) {
	resp, err := s.client.ListElections(ctx, &pb.ListElectionsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Elections, nil
}

func (s *GRPCClient) GetElection(ctx context.Context, electionID string) (*pb.GetElectionResponse, error) {
	resp, err := s.client.GetElection(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CreateElection(ctx context.Context, req *pb.CreateElectionRequest) (*pb.Election, error) {
	resp, err := s.client.CreateElection(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Election, nil
}

func (s *GRPCClient) AddPosition(ctx context.Context, electionID, name string, maxSelectable int) (*pb.Position, error) {
	resp, err := s.client.AddPosition(ctx, &pb.AddPositionRequest{ElectionID: electionID, Name: name, MaxSelectable: maxSelectable})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Position, nil
}

func (s *GRPCClient) AddCandidate(ctx context.Context, req *pb.AddCandidateRequest) (*pb.Candidate, error) {
	resp, err := s.client.AddCandidate(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Candidate, nil
}

func (s *GRPCClient) UpdatePosition(ctx context.Context, positionID, name string, maxSelectable int) (*pb.Position, error) {
	resp, err := s.client.UpdatePosition(ctx, &pb.UpdatePositionRequest{PositionID: positionID, Name: name, MaxSelectable: maxSelectable})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Position, nil
}

func (s *GRPCClient) UpdateCandidate(ctx context.Context, req *pb.UpdateCandidateRequest) (*pb.Candidate, error) {
	resp, err := s.client.UpdateCandidate(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Candidate, nil
}

func (s *GRPCClient) Transition(ctx context.Context, t Transition, electionID string) (*pb.Election, error) {
	call := map[Transition]func(context.Context, *pb.ElectionRef, ...grpc.CallOption) (*pb.ElectionResponse, error){
		TransitionActivate: s.client.Activate,
		TransitionClose:    s.client.Close,
		TransitionCancel:   s.client.Cancel,
	}[t]
	if call == nil {
		return nil, fmt.Errorf("%w: unknown transition %q", ErrInvalidInput, t)
	}

	resp, err := call(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Election, nil
}

func (s *GRPCClient) RegisterVoters(ctx context.Context, electionID string, voterIDs []string) (int, error) {
	resp, err := s.client.RegisterVoters(ctx, &pb.RegisterVotersRequest{ElectionID: electionID, VoterIDs: voterIDs})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Added, nil
}

func (s *GRPCClient) Status(ctx context.Context, electionID string) (*pb.GetMyStatusResponse, error) {
	resp, err := s.client.GetMyStatus(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CastVote(ctx context.Context, electionID string, candidateIDs []string) (*pb.CastVoteResponse, error) {
	resp, err := s.client.CastVote(ctx, &pb.CastVoteRequest{ElectionID: electionID, CandidateIDs: candidateIDs})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Results(ctx context.Context, electionID string) (*pb.GetResultsResponse, error) {
	resp, err := s.client.GetResults(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Participation(ctx context.Context, electionID string) (*pb.GetParticipationResponse, error) {
	resp, err := s.client.GetParticipation(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) VerifyChain(ctx context.Context, electionID string) (*pb.VerifyChainResponse, error) {
	resp, err := s.client.VerifyChain(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ExportLedger(ctx context.Context, electionID string) (*pb.ExportLedgerResponse, error) {
	resp, err := s.client.ExportLedger(ctx, &pb.ElectionRef{ElectionID: electionID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CreateTenant(ctx context.Context, req *pb.CreateTenantRequest) (*pb.Tenant, error) {
	resp, err := s.client.CreateTenant(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Tenant, nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.User, error) {
	resp, err := s.client.CreateUser(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) CreateList(ctx context.Context, req *pb.CreateListRequest) (*pb.List, error) {
	resp, err := s.client.CreateList(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.List, nil
}
