package grpc

import (
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/services"
)

func electionToPB(e *models.Election) *pb.Election {
	return &pb.Election{
		ID:          e.ID,
		TenantID:    e.TenantID,
		Title:       e.Title,
		Description: e.Description,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		State:       string(e.State),
		VotingType:  string(e.VotingType),
		Anonymous:   e.Anonymous,
	}
}

func positionToPB(p *models.Position) *pb.Position {
	return &pb.Position{ID: p.ID, ElectionID: p.ElectionID, Name: p.Name, MaxSelectable: p.MaxSelectable}
}

func candidateToPB(c *models.Candidate) *pb.Candidate {
	out := &pb.Candidate{
		ID:          c.ID,
		PositionID:  c.PositionID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Description: c.Description,
		OrderNumber: c.OrderNumber,
	}
	if c.ListID != nil {
		out.ListID = *c.ListID
	}
	return out
}

func tenantToPB(t *models.Tenant) *pb.Tenant {
	return &pb.Tenant{
		ID:           t.ID,
		Name:         t.Name,
		ContactEmail: t.ContactEmail,
		Timezone:     t.Timezone,
		Country:      t.Country,
		Active:       t.Active,
	}
}

func userToPB(u *models.User) *pb.User {
	out := &pb.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Active:    u.Active,
	}
	if u.TenantID != nil {
		out.TenantID = *u.TenantID
	}
	return out
}

func listToPB(l *models.List) *pb.List {
	return &pb.List{
		ID:           l.ID,
		TenantID:     l.TenantID,
		Name:         l.Name,
		Description:  l.Description,
		PrimaryColor: l.PrimaryColor,
	}
}

func candidateInputFromPB(r *pb.AddCandidateRequest) services.CandidateInput {
	in := services.CandidateInput{
		PositionID:  r.PositionID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Description: r.Description,
		OrderNumber: r.OrderNumber,
	}
	if r.ListID != "" {
		in.ListID = &r.ListID
	}
	return in
}

func electionInputFromPB(r *pb.CreateElectionRequest) services.ElectionInput {
	return services.ElectionInput{
		TenantID:    r.TenantID,
		Title:       r.Title,
		Description: r.Description,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		VotingType:  models.VotingType(r.VotingType),
		Anonymous:   r.Anonymous,
	}
}

func resultsToPB(r *services.Results) *pb.GetResultsResponse {
	out := &pb.GetResultsResponse{
		ElectionID:       r.ElectionID,
		Title:            r.Title,
		State:            string(r.State),
		TotalVotes:       r.TotalVotes,
		DecodedVotes:     r.DecodedVotes,
		UndecodableVotes: r.UndecodableVotes,
	}
	for _, c := range r.Candidates {
		out.Candidates = append(out.Candidates, pb.CandidateResult{
			CandidateID: c.CandidateID,
			Name:        c.Name,
			Position:    c.Position,
			Votes:       c.Votes,
			Percentage:  c.Percentage,
		})
	}
	return out
}
