// Package server wires the FlexRent API: it opens the database, runs
// migrations, builds the services and runs the HTTP and gRPC servers until
// the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/flexrent/flexrent/internal/analyzer"
	"github.com/flexrent/flexrent/internal/kyc"
	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/config"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
	"github.com/flexrent/flexrent/internal/server/seed"
	"github.com/flexrent/flexrent/internal/server/services"
	"github.com/flexrent/flexrent/internal/server/storage"

	gs "github.com/flexrent/flexrent/internal/server/grpc"
	hs "github.com/flexrent/flexrent/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	services    hs.Services
}

// OpenDB opens the Postgres pool through the pgx stdlib driver and checks
// the connection.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if c.SeedOnStart {
		if err := seed.NewSeeder(db, rm, logger).Run(ctx, seed.Demo()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed error: %w", err)
		}
	}

	store, err := storage.NewS3StatementStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	identity := kyc.NewClient(c.KYCURL, c.HTTPClientTimeout)
	statements := analyzer.NewClient(c.AnalyzerURL, c.HTTPClientTimeout)

	svc := hs.Services{
		Users:        services.NewUserService(db, rm, c, logger),
		Wallet:       services.NewWalletService(db, rm),
		Transactions: services.NewTransactionService(db, rm),
		Goals:        services.NewGoalService(db, rm),
		Tenancy:      services.NewTenancyService(db, rm),
		Verification: services.NewVerificationService(db, rm, identity, statements, store, logger),
		Documents:    services.NewDocumentService(db, rm, store),
	}

	return &App{config: c, logger: logger, db: db, repomanager: rm, services: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.services, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or one of the servers fails, then
// closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
