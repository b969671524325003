package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/flexrent/flexrent/internal/client/client"
	"github.com/flexrent/flexrent/internal/logging"
)

type fakeAuth struct {
	token string
	email string

	regReq    client.RegisterRequest
	regErr    error
	loginPw   string
	loginErr  error
	resumeErr error
	logoutErr error
	pingErr   error

	logoutCalled bool
}

func (f *fakeAuth) Register(_ context.Context, req client.RegisterRequest) error {
	f.regReq = req
	return f.regErr
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	f.loginPw = string(password)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.email, f.token = email, "at"
	return nil
}

func (f *fakeAuth) Resume(context.Context) error {
	if f.resumeErr != nil {
		return f.resumeErr
	}
	f.token = "at"
	return nil
}

func (f *fakeAuth) Refresh(context.Context) error { return nil }

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.email, f.token = "", ""
	return nil
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }
func (f *fakeAuth) AccessToken() string        { return f.token }
func (f *fakeAuth) Email() string              { return f.email }

type fakeFinance struct {
	overview *client.Overview
	wallet   *client.Wallet
	txs      []client.Transaction
	goals    []client.Goal
	status   *client.WizardStatus
	identity *client.IdentityResult
	income   *client.IncomeResult
	err      error

	lastQuery   client.HistoryQuery
	lastBVN     string
	passwords   []string
	analyzeErrs []error
}

func (f *fakeFinance) Overview(context.Context) (*client.Overview, error) { return f.overview, f.err }
func (f *fakeFinance) Wallet(context.Context) (*client.Wallet, error)     { return f.wallet, f.err }
func (f *fakeFinance) History(_ context.Context, q client.HistoryQuery) ([]client.Transaction, error) {
	f.lastQuery = q
	return f.txs, f.err
}
func (f *fakeFinance) Goals(context.Context) ([]client.Goal, error) { return f.goals, f.err }
func (f *fakeFinance) VerificationStatus(context.Context) (*client.WizardStatus, error) {
	return f.status, f.err
}
func (f *fakeFinance) VerifyIdentity(_ context.Context, bvn string) (*client.IdentityResult, error) {
	f.lastBVN = bvn
	return f.identity, f.err
}
func (f *fakeFinance) AnalyzeStatement(_ context.Context, _ string, _ []byte, password string) (*client.IncomeResult, error) {
	f.passwords = append(f.passwords, password)
	if len(f.analyzeErrs) > 0 {
		err := f.analyzeErrs[0]
		f.analyzeErrs = f.analyzeErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.income, f.err
}

func newTestApp(t *testing.T, auth *fakeAuth, fin *fakeFinance) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &App{
		authService: auth,
		finance:     fin,
		logger:      logging.Nop(),
		reader:      bufio.NewReader(strings.NewReader("")),
		out:         &out,
	}, &out
}

// stubInputs replaces the interactive prompts: texts are answered in order,
// every password prompt gets password and confirmations get agree.
func stubInputs(t *testing.T, texts []string, password string, agree bool) {
	t.Helper()
	origST, origGP, origGC := getSimpleText, getPassword, getConfirmation
	t.Cleanup(func() {
		getSimpleText, getPassword, getConfirmation = origST, origGP, origGC
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(password), nil }
	getConfirmation = func(*bufio.Reader, string, io.Writer) (bool, error) { return agree, nil }
}
