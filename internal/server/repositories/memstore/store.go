// Package memstore is an in-memory RepositoryManager. Transactions are
// serialised and roll back to a snapshot on error, which makes it suitable
// for exercising services (including concurrent casting) without PostgreSQL.
package memstore

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/candidates"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/elections"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/lists"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/positions"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/tenants"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/users"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/votes"
)

var errNoSQL = errors.New("memstore: no SQL connection")

type regKey struct{ election, voter string }

type state struct {
	tenants    map[string]models.Tenant
	users      map[string]models.User
	lists      map[string]models.List
	elections  map[string]models.Election
	positions  map[string]models.Position
	candidates map[string]models.Candidate
	regs       map[regKey]models.VoterRegistration
	votes      map[string][]models.Vote
}

func newState() state {
	return state{
		tenants:    map[string]models.Tenant{},
		users:      map[string]models.User{},
		lists:      map[string]models.List{},
		elections:  map[string]models.Election{},
		positions:  map[string]models.Position{},
		candidates: map[string]models.Candidate{},
		regs:       map[regKey]models.VoterRegistration{},
		votes:      map[string][]models.Vote{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	votes := make(map[string][]models.Vote, len(s.votes))
	for k, v := range s.votes {
		votes[k] = append([]models.Vote(nil), v...)
	}
	return state{
		tenants:    cloneMap(s.tenants),
		users:      cloneMap(s.users),
		lists:      cloneMap(s.lists),
		elections:  cloneMap(s.elections),
		positions:  cloneMap(s.positions),
		candidates: cloneMap(s.candidates),
		regs:       cloneMap(s.regs),
		votes:      votes,
	}
}

// Store holds all data behind a single lock.
type Store struct {
	// txMu serialises transactions; mu guards data for single operations.
	txMu sync.Mutex
	mu   sync.Mutex
	data state

	faults map[string]error
}

func New() *Store {
	return &Store{data: newState(), faults: map[string]error{}}
}

// FailOn makes every call of op (e.g. "votes.Insert") return err until it
// is cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// fault must be called with mu held.
func (s *Store) fault(op string) error {
	return s.faults[op]
}

func (s *Store) RunMigrations(ctx context.Context) error { return nil }

func (s *Store) Conn() dbx.DBTX { return noConn{} }

// WithTx runs fn exclusively and restores the pre-transaction snapshot when
// fn fails or panics.
func (s *Store) WithTx(ctx context.Context, fn dbx.TxFunc) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
		if err != nil {
			rollback()
		}
	}()

	return fn(ctx, noConn{})
}

func (s *Store) Tenants(dbx.DBTX) tenants.Repository             { return tenantRepo{s} }
func (s *Store) Users(dbx.DBTX) users.Repository                 { return userRepo{s} }
func (s *Store) Lists(dbx.DBTX) lists.Repository                 { return listRepo{s} }
func (s *Store) Elections(dbx.DBTX) elections.Repository         { return electionRepo{s} }
func (s *Store) Positions(dbx.DBTX) positions.Repository         { return positionRepo{s} }
func (s *Store) Candidates(dbx.DBTX) candidates.Repository       { return candidateRepo{s} }
func (s *Store) Registrations(dbx.DBTX) registrations.Repository { return registrationRepo{s} }
func (s *Store) Votes(dbx.DBTX) votes.Repository                 { return voteRepo{s} }

// noConn satisfies dbx.DBTX for callers that only pass it back to the
// factories above.
type noConn struct{}

func (noConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoSQL
}

func (noConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (noConn) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}
