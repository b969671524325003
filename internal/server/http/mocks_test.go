package http

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/services"
)

type mockUsers struct {
	RegisterFunc func(ctx context.Context, req services.RegisterRequest) services.ActionResult
	LoginFunc    func(ctx context.Context, req services.LoginRequest) (*services.Session, error)
	RefreshFunc  func(ctx context.Context, token string) (*services.Session, error)
	LogoutFunc   func(ctx context.Context, token string) error
	OverviewFunc func(ctx context.Context, userID string) (*services.Overview, error)
	ListFunc     func(ctx context.Context) ([]*models.User, error)
}

func (m *mockUsers) Register(ctx context.Context, req services.RegisterRequest) services.ActionResult {
	return m.RegisterFunc(ctx, req)
}

func (m *mockUsers) Login(ctx context.Context, req services.LoginRequest) (*services.Session, error) {
	return m.LoginFunc(ctx, req)
}

func (m *mockUsers) RefreshToken(ctx context.Context, token string) (*services.Session, error) {
	return m.RefreshFunc(ctx, token)
}

func (m *mockUsers) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *mockUsers) Overview(ctx context.Context, userID string) (*services.Overview, error) {
	return m.OverviewFunc(ctx, userID)
}

func (m *mockUsers) ListUsers(ctx context.Context) ([]*models.User, error) {
	return m.ListFunc(ctx)
}

type mockWallet struct {
	SummaryFunc func(ctx context.Context, userID string) (*services.WalletSummary, error)
}

func (m *mockWallet) Summary(ctx context.Context, userID string) (*services.WalletSummary, error) {
	return m.SummaryFunc(ctx, userID)
}

type mockTransactions struct {
	HistoryFunc  func(ctx context.Context, userID string, f services.Filters) ([]*models.Transaction, error)
	CashflowFunc func(ctx context.Context, userID string, f services.Filters) (services.Cashflow, error)
	UpdateFunc   func(ctx context.Context, userID, txID, category string) error
	CreateFunc   func(ctx context.Context, userID string, in services.NewTransaction) (*models.Transaction, error)
}

func (m *mockTransactions) History(ctx context.Context, userID string, f services.Filters) ([]*models.Transaction, error) {
	return m.HistoryFunc(ctx, userID, f)
}

func (m *mockTransactions) Cashflow(ctx context.Context, userID string, f services.Filters) (services.Cashflow, error) {
	return m.CashflowFunc(ctx, userID, f)
}

func (m *mockTransactions) UpdateCategory(ctx context.Context, userID, txID, category string) error {
	return m.UpdateFunc(ctx, userID, txID, category)
}

func (m *mockTransactions) Create(ctx context.Context, userID string, in services.NewTransaction) (*models.Transaction, error) {
	return m.CreateFunc(ctx, userID, in)
}

type mockGoals struct {
	ListFunc       func(ctx context.Context, userID string) ([]services.GoalView, error)
	CreateFunc     func(ctx context.Context, userID string, in services.NewGoal) (*models.Goal, error)
	ContributeFunc func(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*services.GoalView, error)
}

func (m *mockGoals) List(ctx context.Context, userID string) ([]services.GoalView, error) {
	return m.ListFunc(ctx, userID)
}

func (m *mockGoals) Create(ctx context.Context, userID string, in services.NewGoal) (*models.Goal, error) {
	return m.CreateFunc(ctx, userID, in)
}

func (m *mockGoals) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*services.GoalView, error) {
	return m.ContributeFunc(ctx, userID, goalID, amount)
}

type mockTenancy struct {
	LeaseFunc       func(ctx context.Context, userID string) (*services.LeaseView, error)
	CreateLeaseFunc func(ctx context.Context, in services.NewLease) (*models.Lease, error)
}

func (m *mockTenancy) Lease(ctx context.Context, userID string) (*services.LeaseView, error) {
	return m.LeaseFunc(ctx, userID)
}

func (m *mockTenancy) CreateLease(ctx context.Context, in services.NewLease) (*models.Lease, error) {
	return m.CreateLeaseFunc(ctx, in)
}

type mockVerification struct {
	IdentityFunc func(ctx context.Context, userID, bvn string) (*services.IdentityResult, error)
	AnalyzeFunc  func(ctx context.Context, userID string, st services.Statement) (*services.IncomeResult, error)
	StatusFunc   func(ctx context.Context, userID string) (*services.WizardStatus, error)
}

func (m *mockVerification) VerifyIdentity(ctx context.Context, userID, bvn string) (*services.IdentityResult, error) {
	return m.IdentityFunc(ctx, userID, bvn)
}

func (m *mockVerification) AnalyzeStatement(ctx context.Context, userID string, st services.Statement) (*services.IncomeResult, error) {
	return m.AnalyzeFunc(ctx, userID, st)
}

func (m *mockVerification) Status(ctx context.Context, userID string) (*services.WizardStatus, error) {
	return m.StatusFunc(ctx, userID)
}

type mockDocuments struct {
	ListFunc func(ctx context.Context, userID string) ([]*models.Document, error)
	URLFunc  func(ctx context.Context, userID, documentID string) (string, error)
}

func (m *mockDocuments) List(ctx context.Context, userID string) ([]*models.Document, error) {
	return m.ListFunc(ctx, userID)
}

func (m *mockDocuments) URL(ctx context.Context, userID, documentID string) (string, error) {
	return m.URLFunc(ctx, userID, documentID)
}
