package models

import "time"

// VoterRegistration is one row of the eligibility registry. HasVoted is the
// only field mutated after creation and it only ever goes from false to true.
type VoterRegistration struct {
	ElectionID string
	VoterID    string
	HasVoted   bool
}

// Vote is an append-only ledger row. Seq is the 1-based commit order inside
// the election and defines the chain order.
type Vote struct {
	ID               string
	ElectionID       string
	VoterID          string
	Seq              int64
	EncryptedPayload string
	Signature        string
	ChainHash        string
	CreatedAt        time.Time
}

// BallotContent is what gets sealed into Vote.EncryptedPayload. JSON names
// follow the stored format so older ledgers remain readable.
type BallotContent struct {
	ElectionID   string   `json:"eleccion_id"`
	CandidateIDs []string `json:"candidatos"`
	Timestamp    string   `json:"timestamp"`
	VoterHash    string   `json:"votante_hash"`
}

// Participation is an aggregate over the registry; it never reveals votes.
type Participation struct {
	ElectionID      string
	TotalRegistered int64
	TotalVoted      int64
}
