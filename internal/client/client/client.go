package client

import (
	"context"

	pb "github.com/dmitrijs2005/evoting/internal/proto"
)

// Transition names a lifecycle action.
type Transition string

const (
	TransitionActivate Transition = "activate"
	TransitionClose    Transition = "close"
	TransitionCancel   Transition = "cancel"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	ListElections(ctx context.Context) ([]pb.Election, error)
	GetElection(ctx context.Context, electionID string) (*pb.GetElectionResponse, error)
	CreateElection(ctx context.Context, req *pb.CreateElectionRequest) (*pb.Election, error)
	AddPosition(ctx context.Context, electionID, name string, maxSelectable int) (*pb.Position, error)
	AddCandidate(ctx context.Context, req *pb.AddCandidateRequest) (*pb.Candidate, error)
	UpdatePosition(ctx context.Context, positionID, name string, maxSelectable int) (*pb.Position, error)
	UpdateCandidate(ctx context.Context, req *pb.UpdateCandidateRequest) (*pb.Candidate, error)
	Transition(ctx context.Context, t Transition, electionID string) (*pb.Election, error)

	RegisterVoters(ctx context.Context, electionID string, voterIDs []string) (int, error)
	Status(ctx context.Context, electionID string) (*pb.GetMyStatusResponse, error)
	CastVote(ctx context.Context, electionID string, candidateIDs []string) (*pb.CastVoteResponse, error)

	Results(ctx context.Context, electionID string) (*pb.GetResultsResponse, error)
	Participation(ctx context.Context, electionID string) (*pb.GetParticipationResponse, error)
	VerifyChain(ctx context.Context, electionID string) (*pb.VerifyChainResponse, error)
	ExportLedger(ctx context.Context, electionID string) (*pb.ExportLedgerResponse, error)

	CreateTenant(ctx context.Context, req *pb.CreateTenantRequest) (*pb.Tenant, error)
	CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.User, error)
	CreateList(ctx context.Context, req *pb.CreateListRequest) (*pb.List, error)
}
