package proto

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "evoting.v1.VotingService"

const (
	VotingService_Ping_FullMethodName             = "/evoting.v1.VotingService/Ping"
	VotingService_CastVote_FullMethodName         = "/evoting.v1.VotingService/CastVote"
	VotingService_GetMyStatus_FullMethodName      = "/evoting.v1.VotingService/GetMyStatus"
	VotingService_RegisterVoters_FullMethodName   = "/evoting.v1.VotingService/RegisterVoters"
	VotingService_Activate_FullMethodName         = "/evoting.v1.VotingService/Activate"
	VotingService_Close_FullMethodName            = "/evoting.v1.VotingService/Close"
	VotingService_Cancel_FullMethodName           = "/evoting.v1.VotingService/Cancel"
	VotingService_GetResults_FullMethodName       = "/evoting.v1.VotingService/GetResults"
	VotingService_GetParticipation_FullMethodName = "/evoting.v1.VotingService/GetParticipation"
	VotingService_VerifyChain_FullMethodName      = "/evoting.v1.VotingService/VerifyChain"
	VotingService_ExportLedger_FullMethodName     = "/evoting.v1.VotingService/ExportLedger"
	VotingService_CreateElection_FullMethodName   = "/evoting.v1.VotingService/CreateElection"
	VotingService_UpdateElection_FullMethodName   = "/evoting.v1.VotingService/UpdateElection"
	VotingService_DeleteElection_FullMethodName   = "/evoting.v1.VotingService/DeleteElection"
	VotingService_GetElection_FullMethodName      = "/evoting.v1.VotingService/GetElection"
	VotingService_ListElections_FullMethodName    = "/evoting.v1.VotingService/ListElections"
	VotingService_AddPosition_FullMethodName      = "/evoting.v1.VotingService/AddPosition"
	VotingService_DeletePosition_FullMethodName   = "/evoting.v1.VotingService/DeletePosition"
	VotingService_AddCandidate_FullMethodName     = "/evoting.v1.VotingService/AddCandidate"
	VotingService_DeleteCandidate_FullMethodName  = "/evoting.v1.VotingService/DeleteCandidate"
	VotingService_UpdatePosition_FullMethodName   = "/evoting.v1.VotingService/UpdatePosition"
	VotingService_UpdateCandidate_FullMethodName  = "/evoting.v1.VotingService/UpdateCandidate"
	VotingService_CreateTenant_FullMethodName     = "/evoting.v1.VotingService/CreateTenant"
	VotingService_CreateUser_FullMethodName       = "/evoting.v1.VotingService/CreateUser"
	VotingService_CreateList_FullMethodName       = "/evoting.v1.VotingService/CreateList"
)

// VotingServiceServer is implemented by the voting server.
type VotingServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	CastVote(context.Context, *CastVoteRequest) (*CastVoteResponse, error)
	GetMyStatus(context.Context, *ElectionRef) (*GetMyStatusResponse, error)
	RegisterVoters(context.Context, *RegisterVotersRequest) (*RegisterVotersResponse, error)
	Activate(context.Context, *ElectionRef) (*ElectionResponse, error)
	Close(context.Context, *ElectionRef) (*ElectionResponse, error)
	Cancel(context.Context, *ElectionRef) (*ElectionResponse, error)
	GetResults(context.Context, *ElectionRef) (*GetResultsResponse, error)
	GetParticipation(context.Context, *ElectionRef) (*GetParticipationResponse, error)
	VerifyChain(context.Context, *ElectionRef) (*VerifyChainResponse, error)
	ExportLedger(context.Context, *ElectionRef) (*ExportLedgerResponse, error)
	CreateElection(context.Context, *CreateElectionRequest) (*ElectionResponse, error)
	UpdateElection(context.Context, *UpdateElectionRequest) (*ElectionResponse, error)
	DeleteElection(context.Context, *ElectionRef) (*Empty, error)
	GetElection(context.Context, *ElectionRef) (*GetElectionResponse, error)
	ListElections(context.Context, *ListElectionsRequest) (*ListElectionsResponse, error)
	AddPosition(context.Context, *AddPositionRequest) (*PositionResponse, error)
	DeletePosition(context.Context, *DeletePositionRequest) (*Empty, error)
	AddCandidate(context.Context, *AddCandidateRequest) (*CandidateResponse, error)
	DeleteCandidate(context.Context, *DeleteCandidateRequest) (*Empty, error)
	UpdatePosition(context.Context, *UpdatePositionRequest) (*PositionResponse, error)
	UpdateCandidate(context.Context, *UpdateCandidateRequest) (*CandidateResponse, error)
	CreateTenant(context.Context, *CreateTenantRequest) (*TenantResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*UserResponse, error)
	CreateList(context.Context, *CreateListRequest) (*ListResponse, error)
}

type server = VotingServiceServer

func unary[Req any, Resp any](name string, call func(server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(server), ctx, req.(*Req))
			})
		},
	}
}

// VotingService_ServiceDesc is the grpc.ServiceDesc for VotingService.
var VotingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VotingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", server.Ping),
		unary("CastVote", server.CastVote),
		unary("GetMyStatus", server.GetMyStatus),
		unary("RegisterVoters", server.RegisterVoters),
		unary("Activate", server.Activate),
		unary("Close", server.Close),
		unary("Cancel", server.Cancel),
		unary("GetResults", server.GetResults),
		unary("GetParticipation", server.GetParticipation),
		unary("VerifyChain", server.VerifyChain),
		unary("ExportLedger", server.ExportLedger),
		unary("CreateElection", server.CreateElection),
		unary("UpdateElection", server.UpdateElection),
		unary("DeleteElection", server.DeleteElection),
		unary("GetElection", server.GetElection),
		unary("ListElections", server.ListElections),
		unary("AddPosition", server.AddPosition),
		unary("DeletePosition", server.DeletePosition),
		unary("AddCandidate", server.AddCandidate),
		unary("DeleteCandidate", server.DeleteCandidate),
		unary("UpdatePosition", server.UpdatePosition),
		unary("UpdateCandidate", server.UpdateCandidate),
		unary("CreateTenant", server.CreateTenant),
		unary("CreateUser", server.CreateUser),
		unary("CreateList", server.CreateList),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "evoting/v1/voting.json",
}

func RegisterVotingServiceServer(s grpc.ServiceRegistrar, srv VotingServiceServer) {
	s.RegisterService(&VotingService_ServiceDesc, srv)
}

// VotingServiceClient is the client API for VotingService. Every call is
// sent with the JSON content-subtype.
type VotingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVotingServiceClient(cc grpc.ClientConnInterface) *VotingServiceClient {
	return &VotingServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VotingServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, VotingService_Ping_FullMethodName, in, opts)
}

func (c *VotingServiceClient) CastVote(ctx context.Context, in *CastVoteRequest, opts ...grpc.CallOption) (*CastVoteResponse, error) {
	return invoke[CastVoteResponse](ctx, c.cc, VotingService_CastVote_FullMethodName, in, opts)
}

func (c *VotingServiceClient) GetMyStatus(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*GetMyStatusResponse, error) {
	return invoke[GetMyStatusResponse](ctx, c.cc, VotingService_GetMyStatus_FullMethodName, in, opts)
}

func (c *VotingServiceClient) RegisterVoters(ctx context.Context, in *RegisterVotersRequest, opts ...grpc.CallOption) (*RegisterVotersResponse, error) {
	return invoke[RegisterVotersResponse](ctx, c.cc, VotingService_RegisterVoters_FullMethodName, in, opts)
}

func (c *VotingServiceClient) Activate(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*ElectionResponse, error) {
	return invoke[ElectionResponse](ctx, c.cc, VotingService_Activate_FullMethodName, in, opts)
}

func (c *VotingServiceClient) Close(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*ElectionResponse, error) {
	return invoke[ElectionResponse](ctx, c.cc, VotingService_Close_FullMethodName, in, opts)
}

func (c *VotingServiceClient) Cancel(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*ElectionResponse, error) {
	return invoke[ElectionResponse](ctx, c.cc, VotingService_Cancel_FullMethodName, in, opts)
}

func (c *VotingServiceClient) GetResults(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*GetResultsResponse, error) {
	return invoke[GetResultsResponse](ctx, c.cc, VotingService_GetResults_FullMethodName, in, opts)
}

func (c *VotingServiceClient) GetParticipation(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*GetParticipationResponse, error) {
	return invoke[GetParticipationResponse](ctx, c.cc, VotingService_GetParticipation_FullMethodName, in, opts)
}

func (c *VotingServiceClient) VerifyChain(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*VerifyChainResponse, error) {
	return invoke[VerifyChainResponse](ctx, c.cc, VotingService_VerifyChain_FullMethodName, in, opts)
}

func (c *VotingServiceClient) ExportLedger(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*ExportLedgerResponse, error) {
	return invoke[ExportLedgerResponse](ctx, c.cc, VotingService_ExportLedger_FullMethodName, in, opts)
}

func (c *VotingServiceClient) CreateElection(ctx context.Context, in *CreateElectionRequest, opts ...grpc.CallOption) (*ElectionResponse, error) {
	return invoke[ElectionResponse](ctx, c.cc, VotingService_CreateElection_FullMethodName, in, opts)
}

func (c *VotingServiceClient) UpdateElection(ctx context.Context, in *UpdateElectionRequest, opts ...grpc.CallOption) (*ElectionResponse, error) {
	return invoke[ElectionResponse](ctx, c.cc, VotingService_UpdateElection_FullMethodName, in, opts)
}

func (c *VotingServiceClient) DeleteElection(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, VotingService_DeleteElection_FullMethodName, in, opts)
}

func (c *VotingServiceClient) GetElection(ctx context.Context, in *ElectionRef, opts ...grpc.CallOption) (*GetElectionResponse, error) {
	return invoke[GetElectionResponse](ctx, c.cc, VotingService_GetElection_FullMethodName, in, opts)
}

func (c *VotingServiceClient) ListElections(ctx context.Context, in *ListElectionsRequest, opts ...grpc.CallOption) (*ListElectionsResponse, error) {
	return invoke[ListElectionsResponse](ctx, c.cc, VotingService_ListElections_FullMethodName, in, opts)
}

func (c *VotingServiceClient) AddPosition(ctx context.Context, in *AddPositionRequest, opts ...grpc.CallOption) (*PositionResponse, error) {
	return invoke[PositionResponse](ctx, c.cc, VotingService_AddPosition_FullMethodName, in, opts)
}

func (c *VotingServiceClient) DeletePosition(ctx context.Context, in *DeletePositionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, VotingService_DeletePosition_FullMethodName, in, opts)
}

func (c *VotingServiceClient) AddCandidate(ctx context.Context, in *AddCandidateRequest, opts ...grpc.CallOption) (*CandidateResponse, error) {
	return invoke[CandidateResponse](ctx, c.cc, VotingService_AddCandidate_FullMethodName, in, opts)
}

func (c *VotingServiceClient) DeleteCandidate(ctx context.Context, in *DeleteCandidateRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, VotingService_DeleteCandidate_FullMethodName, in, opts)
}

func (c *VotingServiceClient) UpdatePosition(ctx context.Context, in *UpdatePositionRequest, opts ...grpc.CallOption) (*PositionResponse, error) {
	return invoke[PositionResponse](ctx, c.cc, VotingService_UpdatePosition_FullMethodName, in, opts)
}

func (c *VotingServiceClient) UpdateCandidate(ctx context.Context, in *UpdateCandidateRequest, opts ...grpc.CallOption) (*CandidateResponse, error) {
	return invoke[CandidateResponse](ctx, c.cc, VotingService_UpdateCandidate_FullMethodName, in, opts)
}

func (c *VotingServiceClient) CreateTenant(ctx context.Context, in *CreateTenantRequest, opts ...grpc.CallOption) (*TenantResponse, error) {
	return invoke[TenantResponse](ctx, c.cc, VotingService_CreateTenant_FullMethodName, in, opts)
}

func (c *VotingServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, VotingService_CreateUser_FullMethodName, in, opts)
}

func (c *VotingServiceClient) CreateList(ctx context.Context, in *CreateListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c.cc, VotingService_CreateList_FullMethodName, in, opts)
}
