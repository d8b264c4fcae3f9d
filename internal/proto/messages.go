// Package proto holds the wire contract of evoting.v1.VotingService: the
// request and response messages, the service descriptor and a typed client.
// Messages travel as JSON through the codec registered in codec.go.
package proto

import "time"

type Election struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	State       string    `json:"state"`
	VotingType  string    `json:"voting_type"`
	Anonymous   bool      `json:"anonymous"`
}

type Position struct {
	ID            string `json:"id"`
	ElectionID    string `json:"election_id"`
	Name          string `json:"name"`
	MaxSelectable int    `json:"max_selectable"`
}

type Candidate struct {
	ID          string `json:"id"`
	PositionID  string `json:"position_id"`
	ListID      string `json:"list_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	Description string `json:"description,omitempty"`
	OrderNumber int    `json:"order_number"`
}

type Tenant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Timezone     string `json:"timezone"`
	Country      string `json:"country,omitempty"`
	Active       bool   `json:"active"`
}

type User struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

type List struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenant_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
}

type CandidateResult struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// ElectionRef addresses one election.
type ElectionRef struct {
	ElectionID string `json:"election_id"`
}

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CastVoteRequest struct {
	ElectionID   string   `json:"election_id"`
	CandidateIDs []string `json:"candidate_ids"`
}

type CastVoteResponse struct {
	VoteID     string    `json:"vote_id"`
	ElectionID string    `json:"election_id"`
	ChainHash  string    `json:"chain_hash"`
	CastAt     time.Time `json:"cast_at"`
}

type GetMyStatusResponse struct {
	Registered    bool   `json:"registered"`
	HasVoted      bool   `json:"has_voted"`
	CanVote       bool   `json:"can_vote"`
	ElectionState string `json:"election_state"`
}

type RegisterVotersRequest struct {
	ElectionID string   `json:"election_id"`
	VoterIDs   []string `json:"voter_ids"`
}

type RegisterVotersResponse struct {
	Added int `json:"added"`
}

type ElectionResponse struct {
	Election *Election `json:"election"`
}

type GetResultsResponse struct {
	ElectionID       string            `json:"election_id"`
	Title            string            `json:"title"`
	State            string            `json:"state"`
	Candidates       []CandidateResult `json:"candidates"`
	TotalVotes       int64             `json:"total_votes"`
	DecodedVotes     int64             `json:"decoded_votes"`
	UndecodableVotes int64             `json:"undecodable_votes"`
}

type GetParticipationResponse struct {
	ElectionID      string  `json:"election_id"`
	TotalRegistered int64   `json:"total_registered"`
	TotalVoted      int64   `json:"total_voted"`
	Remaining       int64   `json:"remaining"`
	Rate            float64 `json:"rate"`
}

type VerifyChainResponse struct {
	ElectionID     string `json:"election_id"`
	Valid          bool   `json:"valid"`
	Checked        int    `json:"checked"`
	FirstBrokenSeq int64  `json:"first_broken_seq,omitempty"`
}

type ExportLedgerResponse struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Votes int    `json:"votes"`
}

type CreateElectionRequest struct {
	TenantID    string    `json:"tenant_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	VotingType  string    `json:"voting_type,omitempty"`
	Anonymous   bool      `json:"anonymous"`
}

type UpdateElectionRequest struct {
	ElectionID string `json:"election_id"`
	CreateElectionRequest
}

type GetElectionResponse struct {
	Election   *Election   `json:"election"`
	Positions  []Position  `json:"positions"`
	Candidates []Candidate `json:"candidates"`
}

type ListElectionsRequest struct{}

type ListElectionsResponse struct {
	Elections []Election `json:"elections"`
}

type AddPositionRequest struct {
	ElectionID    string `json:"election_id"`
	Name          string `json:"name"`
	MaxSelectable int    `json:"max_selectable"`
}

type PositionResponse struct {
	Position *Position `json:"position"`
}

type DeletePositionRequest struct {
	PositionID string `json:"position_id"`
}

type AddCandidateRequest struct {
	PositionID  string `json:"position_id"`
	ListID      string `json:"list_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	Description string `json:"description,omitempty"`
	OrderNumber int    `json:"order_number"`
}

type CandidateResponse struct {
	Candidate *Candidate `json:"candidate"`
}

type DeleteCandidateRequest struct {
	CandidateID string `json:"candidate_id"`
}

type UpdatePositionRequest struct {
	PositionID    string `json:"position_id"`
	Name          string `json:"name"`
	MaxSelectable int    `json:"max_selectable"`
}

// UpdateCandidateRequest replaces the editable fields of a candidate. The
// embedded position id is ignored; candidates never move between positions.
type UpdateCandidateRequest struct {
	CandidateID string `json:"candidate_id"`
	AddCandidateRequest
}

type CreateTenantRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Timezone     string `json:"timezone,omitempty"`
	Country      string `json:"country,omitempty"`
}

type TenantResponse struct {
	Tenant *Tenant `json:"tenant"`
}

type CreateUserRequest struct {
	TenantID  string `json:"tenant_id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type CreateListRequest struct {
	TenantID     string `json:"tenant_id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
}

type ListResponse struct {
	List *List `json:"list"`
}
