// Package client talks to the FlexRent HTTP API and owns the CLI's local
// sqlite store.
package client

import "context"

// Client is the API surface used by the CLI services. Authenticated calls
// take the access token explicitly; refreshing it is the caller's concern.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error

	Overview(ctx context.Context, token string) (*Overview, error)
	Wallet(ctx context.Context, token string) (*Wallet, error)
	History(ctx context.Context, token string, q HistoryQuery) ([]Transaction, error)
	Goals(ctx context.Context, token string) ([]Goal, error)

	VerificationStatus(ctx context.Context, token string) (*WizardStatus, error)
	VerifyIdentity(ctx context.Context, token, bvn string) (*IdentityResult, error)
	AnalyzeStatement(ctx context.Context, token, fileName string, pdf []byte, password string) (*IncomeResult, error)
}
