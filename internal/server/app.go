// Package server assembles the voting server: configuration, logging, the
// PostgreSQL repositories, the ballot key ring, the domain services, the
// lifecycle sweeper and the gRPC endpoint. It also handles graceful shutdown
// on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/cryptox"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/config"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/evoting/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/evoting/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	sweeper *services.Sweeper
	server  *gs.GRPCServer
}

// NewApp loads the key ring, connects to the database, applies migrations
// and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	pass := []byte(c.KeyPassphrase)
	ring, err := cryptox.LoadKeyRing(c.KeyRingPath, pass)
	common.WipeByteArray(pass)
	if err != nil {
		return nil, fmt.Errorf("load key ring: %w", err)
	}
	if ring.ActiveKeyID() == "" {
		return nil, fmt.Errorf("load key ring: %w", cryptox.ErrUnknownKey)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	codec := cryptox.NewBallotCodec(ring)
	lifecycle := services.NewLifecycleService(m, logger)

	svc := gs.Services{
		Identity:     services.NewIdentityService(m, c.SecretKey, logger),
		Directory:    services.NewDirectoryService(m, logger),
		Lifecycle:    lifecycle,
		Registry:     services.NewRegistryService(m, logger),
		Ledger:       services.NewLedgerService(m, codec, logger),
		Audit:        services.NewAuditService(m, codec, c, logger),
		Provisioning: services.NewProvisioningService(m, logger),
	}

	logger.Info(ctx, "key ring loaded", "active_key", ring.ActiveKeyID(), "keys", len(ring.IDs()))

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		sweeper: services.NewSweeper(lifecycle, c.SweepInterval, logger),
		server:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until ctx is cancelled, a signal arrives or the gRPC server
// fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
	app.logger.Info(context.Background(), "stopped")
}
