// Package http exposes the FlexRent API over REST. Handlers are thin: they
// bind requests, call a service and render the result through presenters
// that convert money to JSON numbers.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, req services.RegisterRequest) services.ActionResult
	Login(ctx context.Context, req services.LoginRequest) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Overview(ctx context.Context, userID string) (*services.Overview, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type WalletService interface {
	Summary(ctx context.Context, userID string) (*services.WalletSummary, error)
}

type TransactionService interface {
	History(ctx context.Context, userID string, f services.Filters) ([]*models.Transaction, error)
	Cashflow(ctx context.Context, userID string, f services.Filters) (services.Cashflow, error)
	UpdateCategory(ctx context.Context, userID, txID, category string) error
	Create(ctx context.Context, userID string, in services.NewTransaction) (*models.Transaction, error)
}

type GoalService interface {
	List(ctx context.Context, userID string) ([]services.GoalView, error)
	Create(ctx context.Context, userID string, in services.NewGoal) (*models.Goal, error)
	Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*services.GoalView, error)
}

type TenancyService interface {
	Lease(ctx context.Context, userID string) (*services.LeaseView, error)
	CreateLease(ctx context.Context, in services.NewLease) (*models.Lease, error)
}

type VerificationService interface {
	VerifyIdentity(ctx context.Context, userID, bvn string) (*services.IdentityResult, error)
	AnalyzeStatement(ctx context.Context, userID string, st services.Statement) (*services.IncomeResult, error)
	Status(ctx context.Context, userID string) (*services.WizardStatus, error)
}

type DocumentService interface {
	List(ctx context.Context, userID string) ([]*models.Document, error)
	URL(ctx context.Context, userID, documentID string) (string, error)
}

// Services groups the business logic the router dispatches to.
type Services struct {
	Users        UserService
	Wallet       WalletService
	Transactions TransactionService
	Goals        GoalService
	Tenancy      TenancyService
	Verification VerificationService
	Documents    DocumentService
}

type HTTPServer struct {
	address   string
	svc       Services
	logger    logging.Logger
	jwtSecret []byte
	router    *gin.Engine
	now       func() time.Time
}

func NewHTTPServer(address string, l logging.Logger, svc Services, secretKey string) *HTTPServer {
	s := &HTTPServer{
		address:   address,
		svc:       svc,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		now:       time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger)
	r.MaxMultipartMemory = 4 << 20

	r.GET("/health", s.handleHealth)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/refresh", s.handleRefresh)
		authGroup.POST("/logout", s.handleLogout)
	}

	dash := r.Group("/api/dashboard", s.authRequired)
	{
		dash.GET("/overview", s.handleOverview)
		dash.GET("/wallet", s.handleWallet)

		dash.GET("/transactions", s.handleTransactions)
		dash.POST("/transactions", s.handleCreateTransaction)
		dash.GET("/transactions/cashflow", s.handleCashflow)
		dash.PATCH("/transactions/:id/category", s.handleUpdateCategory)

		dash.GET("/goals", s.handleGoals)
		dash.POST("/goals", s.handleCreateGoal)
		dash.POST("/goals/:id/contributions", s.handleContribute)

		dash.GET("/lease", s.handleLease)

		dash.GET("/verify/status", s.handleVerifyStatus)
		dash.POST("/verify/identity", s.handleVerifyIdentity)
		dash.POST("/verify/income", s.handleVerifyIncome)

		dash.GET("/documents", s.handleDocuments)
		dash.GET("/documents/:id/url", s.handleDocumentURL)
	}

	admin := r.Group("/api/admin", s.authRequired, s.adminOnly)
	{
		admin.GET("/users", s.handleListUsers)
		admin.POST("/leases", s.handleCreateLease)
	}

	return r
}

// Handler returns the router; used by tests and by Run.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
