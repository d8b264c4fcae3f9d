package repomanager

import (
	"context"

	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/candidates"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/elections"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/lists"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/positions"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/tenants"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/users"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/votes"
)

// RepositoryManager vends repositories bound to either the shared
// connection (Conn) or the handle passed to a WithTx callback.
type RepositoryManager interface {
	dbx.Transactor
	RunMigrations(ctx context.Context) error
	Conn() dbx.DBTX

	Tenants(db dbx.DBTX) tenants.Repository
	Users(db dbx.DBTX) users.Repository
	Lists(db dbx.DBTX) lists.Repository
	Elections(db dbx.DBTX) elections.Repository
	Positions(db dbx.DBTX) positions.Repository
	Candidates(db dbx.DBTX) candidates.Repository
	Registrations(db dbx.DBTX) registrations.Repository
	Votes(db dbx.DBTX) votes.Repository
}
