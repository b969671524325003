package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flexrent/flexrent/internal/client/client"
)

// fakeClient implements client.Client; nil funcs panic so unexpected calls
// show up loudly.
type fakeClient struct {
	ping     func(ctx context.Context) error
	register func(ctx context.Context, req client.RegisterRequest) error
	login    func(ctx context.Context, email, password string) (*client.Session, error)
	refresh  func(ctx context.Context, token string) (*client.Session, error)
	logout   func(ctx context.Context, token string) error
	overview func(ctx context.Context, token string) (*client.Overview, error)
	wallet   func(ctx context.Context, token string) (*client.Wallet, error)
	history  func(ctx context.Context, token string, q client.HistoryQuery) ([]client.Transaction, error)
	goals    func(ctx context.Context, token string) ([]client.Goal, error)
	status   func(ctx context.Context, token string) (*client.WizardStatus, error)
	verify   func(ctx context.Context, token, bvn string) (*client.IdentityResult, error)
	analyze  func(ctx context.Context, token, name string, pdf []byte, pw string) (*client.IncomeResult, error)
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Ping(ctx context.Context) error { return f.ping(ctx) }
func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) error {
	return f.register(ctx, req)
}
func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.Session, error) {
	return f.login(ctx, email, password)
}
func (f *fakeClient) Refresh(ctx context.Context, token string) (*client.Session, error) {
	return f.refresh(ctx, token)
}
func (f *fakeClient) Logout(ctx context.Context, token string) error { return f.logout(ctx, token) }
func (f *fakeClient) Overview(ctx context.Context, token string) (*client.Overview, error) {
	return f.overview(ctx, token)
}
func (f *fakeClient) Wallet(ctx context.Context, token string) (*client.Wallet, error) {
	return f.wallet(ctx, token)
}
func (f *fakeClient) History(ctx context.Context, token string, q client.HistoryQuery) ([]client.Transaction, error) {
	return f.history(ctx, token, q)
}
func (f *fakeClient) Goals(ctx context.Context, token string) ([]client.Goal, error) {
	return f.goals(ctx, token)
}
func (f *fakeClient) VerificationStatus(ctx context.Context, token string) (*client.WizardStatus, error) {
	return f.status(ctx, token)
}
func (f *fakeClient) VerifyIdentity(ctx context.Context, token, bvn string) (*client.IdentityResult, error) {
	return f.verify(ctx, token, bvn)
}
func (f *fakeClient) AnalyzeStatement(ctx context.Context, token, name string, pdf []byte, pw string) (*client.IncomeResult, error) {
	return f.analyze(ctx, token, name, pdf, pw)
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getMeta(t *testing.T, db *sql.DB, k string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func insertMeta(t *testing.T, db *sql.DB, k, v string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}
