package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/flexrent/flexrent/internal/client/client"
	"github.com/flexrent/flexrent/internal/client/config"
	"github.com/flexrent/flexrent/internal/client/services"
	"github.com/flexrent/flexrent/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	finance     services.FinanceService
	logger      logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	as := services.NewAuthService(apiClient, db)

	return &App{
		config:      c,
		authService: as,
		finance:     services.NewFinanceService(apiClient, as),
		logger:      logging.NewTextLogger(os.Stderr, "warn").With("module", "cli"),
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Warn(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.authService.AccessToken() != ""
}

// Run resumes a saved session if there is one and then blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

// resume restores the previous session; a missing session is not an error.
func (a *App) resume(ctx context.Context) {
	err := a.authService.Resume(ctx)
	switch {
	case err == nil:
		a.setMode(ctx, ModeOnline)
		a.printf("Welcome back, %s\n", a.authService.Email())
	case errors.Is(err, client.ErrLocalDataNotAvailable):
	case client.IsUnavailable(err):
		a.setMode(ctx, ModeOffline)
	default:
		a.printf("Saved session expired, please log in again\n")
	}
}

// StartOnlineStatusWatcher pings the API every interval and flips the mode
// between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
