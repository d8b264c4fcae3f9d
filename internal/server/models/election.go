// Package models defines server-side data models persisted in the database.
package models

import "time"

// ElectionState is the lifecycle state of an election.
type ElectionState string

const (
	StatePending   ElectionState = "PENDIENTE"
	StateActive    ElectionState = "ACTIVA"
	StateClosed    ElectionState = "CERRADA"
	StateCancelled ElectionState = "CANCELADA"
)

// Terminal reports whether no further transition is possible from s.
func (s ElectionState) Terminal() bool {
	return s == StateClosed || s == StateCancelled
}

// VotingType is carried for reporting; it does not change counting.
type VotingType string

const (
	VotingMajority VotingType = "MAYORITARIA"
	VotingWeighted VotingType = "PONDERADA"
)

// Election is owned by exactly one tenant.
type Election struct {
	ID          string
	TenantID    string
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	State       ElectionState
	VotingType  VotingType
	Anonymous   bool
	CreatedAt   time.Time
}

// Position ("cargo") is an electable seat within an election.
type Position struct {
	ID            string
	ElectionID    string
	Name          string
	MaxSelectable int
}

// Candidate runs for exactly one position and may be affiliated to a list.
type Candidate struct {
	ID          string
	PositionID  string
	ListID      *string
	FirstName   string
	LastName    string
	Description string
	OrderNumber int
}

// FullName is "First Last".
func (c Candidate) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// List ("lista/partido") groups candidates of one tenant.
type List struct {
	ID           string
	TenantID     string
	Name         string
	Description  string
	PrimaryColor string
}

// ElectionSchema is the position/candidate structure of one election, the
// input of ballot validation.
type ElectionSchema struct {
	ElectionID string
	Positions  []Position
	Candidates []Candidate
}
