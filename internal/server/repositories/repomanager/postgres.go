// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/evoting/internal/dbx"
	"github.com/dmitrijs2005/evoting/internal/server/migrations"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/candidates"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/elections"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/lists"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/positions"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/tenants"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/users"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/votes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
	tx dbx.SQLTransactor
}

// Conn returns the pooled connection for reads outside a transaction.
func (m *PostgresRepositoryManager) Conn() dbx.DBTX { return m.db }

// WithTx runs fn in a READ COMMITTED transaction. Casting relies on the
// election row lock and the conditional has_voted flip, not on isolation.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	return m.tx.WithTx(ctx, fn)
}

func (m *PostgresRepositoryManager) Tenants(db dbx.DBTX) tenants.Repository {
	return tenants.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Lists(db dbx.DBTX) lists.Repository {
	return lists.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Elections(db dbx.DBTX) elections.Repository {
	return elections.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Positions(db dbx.DBTX) positions.Repository {
	return positions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Candidates(db dbx.DBTX) candidates.Repository {
	return candidates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Registrations(db dbx.DBTX) registrations.Repository {
	return registrations.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Votes(db dbx.DBTX) votes.Repository {
	return votes.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{db: db, tx: dbx.SQLTransactor{DB: db}}, nil
}
