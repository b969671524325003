package services

import (
	"context"
	"errors"

	"github.com/flexrent/flexrent/internal/client/client"
)

// TokenSource hands out the current access token and renews it on demand.
type TokenSource interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// FinanceService exposes the tenant dashboard to the CLI.
type FinanceService interface {
	Overview(ctx context.Context) (*client.Overview, error)
	Wallet(ctx context.Context) (*client.Wallet, error)
	History(ctx context.Context, q client.HistoryQuery) ([]client.Transaction, error)
	Goals(ctx context.Context) ([]client.Goal, error)
	VerificationStatus(ctx context.Context) (*client.WizardStatus, error)
	VerifyIdentity(ctx context.Context, bvn string) (*client.IdentityResult, error)
	AnalyzeStatement(ctx context.Context, fileName string, pdf []byte, password string) (*client.IncomeResult, error)
}

type financeService struct {
	client client.Client
	tokens TokenSource
}

func NewFinanceService(c client.Client, tokens TokenSource) FinanceService {
	return &financeService{client: c, tokens: tokens}
}

// authorized runs call with the current access token. An expired token is
// refreshed once and the call retried.
func authorized[T any](ctx context.Context, ts TokenSource, call func(token string) (T, error)) (T, error) {
	res, err := call(ts.AccessToken())
	if !errors.Is(err, client.ErrUnauthorized) {
		return res, err
	}

	if rerr := ts.Refresh(ctx); rerr != nil {
		var zero T
		return zero, rerr
	}
	return call(ts.AccessToken())
}

func (s *financeService) Overview(ctx context.Context) (*client.Overview, error) {
	return authorized(ctx, s.tokens, func(token string) (*client.Overview, error) {
		return s.client.Overview(ctx, token)
	})
}

func (s *financeService) Wallet(ctx context.Context) (*client.Wallet, error) {
	return authorized(ctx, s.tokens, func(token string) (*client.Wallet, error) {
		return s.client.Wallet(ctx, token)
	})
}

func (s *financeService) History(ctx context.Context, q client.HistoryQuery) ([]client.Transaction, error) {
	return authorized(ctx, s.tokens, func(token string) ([]client.Transaction, error) {
		return s.client.History(ctx, token, q)
	})
}

func (s *financeService) Goals(ctx context.Context) ([]client.Goal, error) {
	return authorized(ctx, s.tokens, func(token string) ([]client.Goal, error) {
		return s.client.Goals(ctx, token)
	})
}

func (s *financeService) VerificationStatus(ctx context.Context) (*client.WizardStatus, error) {
	return authorized(ctx, s.tokens, func(token string) (*client.WizardStatus, error) {
		return s.client.VerificationStatus(ctx, token)
	})
}

func (s *financeService) VerifyIdentity(ctx context.Context, bvn string) (*client.IdentityResult, error) {
	return authorized(ctx, s.tokens, func(token string) (*client.IdentityResult, error) {
		return s.client.VerifyIdentity(ctx, token, bvn)
	})
}

func (s *financeService) AnalyzeStatement(ctx context.Context, fileName string, pdf []byte, password string) (*client.IncomeResult, error) {
	return authorized(ctx, s.tokens, func(token string) (*client.IncomeResult, error) {
		return s.client.AnalyzeStatement(ctx, token, fileName, pdf, password)
	})
}
