package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) CastVote(ctx context.Context, req *pb.CastVoteRequest) (*pb.CastVoteResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := s.services.Ledger.CastVote(ctx, p, req.ElectionID, req.CandidateIDs)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.CastVoteResponse{
		VoteID:     receipt.VoteID,
		ElectionID: receipt.ElectionID,
		ChainHash:  receipt.ChainHash,
		CastAt:     receipt.CastAt,
	}, nil
}

func (s *GRPCServer) GetMyStatus(ctx context.Context, req *pb.ElectionRef) (*pb.GetMyStatusResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.services.Registry.Status(ctx, p, req.ElectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.GetMyStatusResponse{
		Registered:    st.Registered,
		HasVoted:      st.HasVoted,
		CanVote:       st.CanVote,
		ElectionState: string(st.ElectionState),
	}, nil
}

func (s *GRPCServer) RegisterVoters(ctx context.Context, req *pb.RegisterVotersRequest) (*pb.RegisterVotersResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	added, err := s.services.Registry.RegisterVoters(ctx, p, req.ElectionID, req.VoterIDs)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.RegisterVotersResponse{Added: added}, nil
}

func (s *GRPCServer) transition(ctx context.Context, electionID string, apply func(context.Context, auth.Principal, string) (*models.Election, error)) (*pb.ElectionResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	e, err := apply(ctx, p, electionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.ElectionResponse{Election: electionToPB(e)}, nil
}

func (s *GRPCServer) Activate(ctx context.Context, req *pb.ElectionRef) (*pb.ElectionResponse, error) {
	return s.transition(ctx, req.ElectionID, s.services.Lifecycle.Activate)
}

func (s *GRPCServer) Close(ctx context.Context, req *pb.ElectionRef) (*pb.ElectionResponse, error) {
	return s.transition(ctx, req.ElectionID, s.services.Lifecycle.Close)
}

func (s *GRPCServer) Cancel(ctx context.Context, req *pb.ElectionRef) (*pb.ElectionResponse, error) {
	return s.transition(ctx, req.ElectionID, s.services.Lifecycle.Cancel)
}

func (s *GRPCServer) GetResults(ctx context.Context, req *pb.ElectionRef) (*pb.GetResultsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Ledger.Results(ctx, p, req.ElectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return resultsToPB(res), nil
}

func (s *GRPCServer) GetParticipation(ctx context.Context, req *pb.ElectionRef) (*pb.GetParticipationResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.services.Registry.Participation(ctx, p, req.ElectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.GetParticipationResponse{
		ElectionID:      r.ElectionID,
		TotalRegistered: r.TotalRegistered,
		TotalVoted:      r.TotalVoted,
		Remaining:       r.Remaining,
		Rate:            r.Rate,
	}, nil
}

func (s *GRPCServer) VerifyChain(ctx context.Context, req *pb.ElectionRef) (*pb.VerifyChainResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.services.Audit.VerifyChain(ctx, p, req.ElectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.VerifyChainResponse{ElectionID: r.ElectionID, Valid: r.Valid, Checked: r.Checked, FirstBrokenSeq: r.FirstBrokenSeq}, nil
}

func (s *GRPCServer) ExportLedger(ctx context.Context, req *pb.ElectionRef) (*pb.ExportLedgerResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.services.Audit.ExportLedger(ctx, p, req.ElectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.ExportLedgerResponse{Key: out.Key, URL: out.URL, Votes: out.Votes}, nil
}

func (s *GRPCServer) CreateElection(ctx context.Context, req *pb.CreateElectionRequest) (*pb.ElectionResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.services.Directory.CreateElection(ctx, p, electionInputFromPB(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Election created", "election_id", e.ID, "by", p.UserID)
	return &pb.ElectionResponse{Election: electionToPB(e)}, nil
}

func (s *GRPCServer) UpdateElection(ctx context.Context, req *pb.UpdateElectionRequest) (*pb.ElectionResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.services.Directory.UpdateElection(ctx, p, req.ElectionID, electionInputFromPB(&req.CreateElectionRequest))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.ElectionResponse{Election: electionToPB(e)}, nil
}

func (s *GRPCServer) DeleteElection(ctx context.Context, req *pb.ElectionRef) (*pb.Empty, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Directory.DeleteElection(ctx, p, req.ElectionID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.Empty{}, nil
}

func (s *GRPCServer) GetElection(ctx context.Context, req *pb.ElectionRef) (*pb.GetElectionResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.services.Directory.GetElection(ctx, p, req.ElectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := &pb.GetElectionResponse{Election: electionToPB(d.Election)}
	for i := range d.Schema.Positions {
		out.Positions = append(out.Positions, *positionToPB(&d.Schema.Positions[i]))
	}
	for i := range d.Schema.Candidates {
		out.Candidates = append(out.Candidates, *candidateToPB(&d.Schema.Candidates[i]))
	}
	return out, nil
}

func (s *GRPCServer) ListElections(ctx context.Context, req *pb.ListElectionsRequest) (*pb.ListElectionsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Directory.ListElections(ctx, p)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := &pb.ListElectionsResponse{Elections: make([]pb.Election, 0, len(list))}
	for _, e := range list {
		out.Elections = append(out.Elections, *electionToPB(e))
	}
	return out, nil
}

func (s *GRPCServer) AddPosition(ctx context.Context, req *pb.AddPositionRequest) (*pb.PositionResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	pos, err := s.services.Directory.AddPosition(ctx, p, req.ElectionID, req.Name, req.MaxSelectable)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.PositionResponse{Position: positionToPB(pos)}, nil
}

func (s *GRPCServer) DeletePosition(ctx context.Context, req *pb.DeletePositionRequest) (*pb.Empty, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Directory.DeletePosition(ctx, p, req.PositionID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.Empty{}, nil
}

func (s *GRPCServer) AddCandidate(ctx context.Context, req *pb.AddCandidateRequest) (*pb.CandidateResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Directory.AddCandidate(ctx, p, candidateInputFromPB(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.CandidateResponse{Candidate: candidateToPB(c)}, nil
}

func (s *GRPCServer) DeleteCandidate(ctx context.Context, req *pb.DeleteCandidateRequest) (*pb.Empty, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Directory.DeleteCandidate(ctx, p, req.CandidateID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.Empty{}, nil
}

func (s *GRPCServer) UpdatePosition(ctx context.Context, req *pb.UpdatePositionRequest) (*pb.PositionResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	pos, err := s.services.Directory.UpdatePosition(ctx, p, req.PositionID, req.Name, req.MaxSelectable)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.PositionResponse{Position: positionToPB(pos)}, nil
}

func (s *GRPCServer) UpdateCandidate(ctx context.Context, req *pb.UpdateCandidateRequest) (*pb.CandidateResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Directory.UpdateCandidate(ctx, p, req.CandidateID, candidateInputFromPB(&req.AddCandidateRequest))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.CandidateResponse{Candidate: candidateToPB(c)}, nil
}

func (s *GRPCServer) CreateTenant(ctx context.Context, req *pb.CreateTenantRequest) (*pb.TenantResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.services.Provisioning.CreateTenant(ctx, p, services.TenantInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Timezone:     req.Timezone,
		Country:      req.Country,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.TenantResponse{Tenant: tenantToPB(t)}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.UserResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.services.Provisioning.CreateUser(ctx, p, services.UserInput{
		TenantID:  req.TenantID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.Role(req.Role),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.UserResponse{User: userToPB(u)}, nil
}

func (s *GRPCServer) CreateList(ctx context.Context, req *pb.CreateListRequest) (*pb.ListResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.Provisioning.CreateList(ctx, p, services.ListInput{
		TenantID:     req.TenantID,
		Name:         req.Name,
		Description:  req.Description,
		PrimaryColor: req.PrimaryColor,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.ListResponse{List: listToPB(l)}, nil
}
