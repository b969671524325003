package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/client/client"
	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/money"
)

var errStatementTooLarge = errors.New("statement exceeds 2 MB")

// openFile is a test seam for reading statements from disk.
var openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func balance(acc client.Account) string {
	if acc.Balance == nil {
		return "hidden"
	}
	return money.FormatNaira(*acc.Balance)
}

func (a *App) printAccounts(accs []client.Account) {
	w := a.table()
	fmt.Fprintln(w, "BANK\tACCOUNT\tBALANCE\t")
	for _, acc := range accs {
		name := acc.Bank
		if acc.IsSalaryAccount {
			name += " (salary)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", name, acc.AccountNumber, balance(acc))
	}
	_ = w.Flush()
}

func (a *App) printTransactions(txs []client.Transaction) {
	if len(txs) == 0 {
		a.printf("No transactions\n")
		return
	}
	w := a.table()
	fmt.Fprintln(w, "DATE\tNAME\tCATEGORY\tAMOUNT\t")
	for _, t := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", t.Date.Format("2006-01-02"), t.Name, t.Category, money.FormatNaira(t.Amount))
	}
	_ = w.Flush()
}

func (a *App) printGoals(gs []client.Goal) {
	if len(gs) == 0 {
		a.printf("No goals yet\n")
		return
	}
	w := a.table()
	fmt.Fprintln(w, "GOAL\tSAVED\tTARGET\tPROGRESS\t")
	for _, g := range gs {
		progress := g.Progress.Round(0).String() + "%"
		if g.Completed {
			progress += " done"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", g.Title, money.FormatNaira(g.CurrentAmount), money.FormatNaira(g.TargetAmount), progress)
	}
	_ = w.Flush()
}

func (a *App) Overview(ctx context.Context) error {
	o, err := a.finance.Overview(ctx)
	if err != nil {
		return err
	}

	a.printf("%s <%s>\n", o.FullName, o.User.Email)
	if p := o.TenantProfile; p != nil {
		a.printf("Rent: %s (%s)\n", money.FormatNaira(p.CurrentRent), p.RentStatus)
	}
	a.printf("\nAccounts\n")
	a.printAccounts(o.Accounts)
	a.printf("\nRecent transactions\n")
	a.printTransactions(o.Transactions)
	a.printf("\nGoals\n")
	a.printGoals(o.Goals)
	return nil
}

func (a *App) Wallet(ctx context.Context) error {
	wl, err := a.finance.Wallet(ctx)
	if err != nil {
		return err
	}

	a.printAccounts(wl.Accounts)
	a.printf("\nRent power:   %s\n", money.FormatNaira(wl.RentPower))
	a.printf("Cash on hand: %s\n", money.FormatNaira(wl.CashOnHand))
	a.printf("Target rent:  %s\n", money.FormatNaira(wl.TargetRent))
	a.printf("Coverage:     %s%%\n", wl.Coverage.StringFixed(1))
	return nil
}

// historyQuery turns the command arguments into filters: no argument keeps
// the housing view, "all" widens it and anything else is a category.
func historyQuery(args []string) client.HistoryQuery {
	if len(args) == 0 {
		return client.HistoryQuery{}
	}
	if strings.EqualFold(args[0], "all") {
		return client.HistoryQuery{AllScopes: true}
	}
	return client.HistoryQuery{Category: strings.ToUpper(args[0]), AllScopes: true}
}

func (a *App) History(ctx context.Context, args []string) error {
	txs, err := a.finance.History(ctx, historyQuery(args))
	if err != nil {
		return err
	}

	a.printTransactions(txs)

	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	if len(txs) > 0 {
		a.printf("Net: %s\n", money.FormatNaira(total))
	}
	return nil
}

func (a *App) Goals(ctx context.Context) error {
	gs, err := a.finance.Goals(ctx)
	if err != nil {
		return err
	}
	a.printGoals(gs)
	return nil
}

func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: verify <bvn>")
	}

	res, err := a.finance.VerifyIdentity(ctx, args[0])
	if err != nil {
		return err
	}

	a.printf("Identity check: %s\n", res.Status)
	if res.Status != "VERIFIED" {
		a.printf("The name on the BVN record does not match your account\n")
	}
	return nil
}

func readStatement(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, common.StatementMaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > common.StatementMaxSize {
		return nil, errStatementTooLarge
	}
	return data, nil
}

// Analyze uploads a bank statement. A password-protected statement prompts
// for its password once and is retried.
func (a *App) Analyze(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: analyze <file.pdf>")
	}

	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	data, err := readStatement(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	name := filepath.Base(args[0])
	res, err := a.finance.AnalyzeStatement(ctx, name, data, "")
	if errors.Is(err, client.ErrPasswordRequired) {
		pw, perr := getPassword("Statement password", a.out)
		if perr != nil {
			return perr
		}
		defer common.WipeByteArray(pw)
		res, err = a.finance.AnalyzeStatement(ctx, name, data, string(pw))
	}
	if err != nil {
		return err
	}

	d := res.Document
	a.printf("Income check: %s\n", res.Status)
	a.printf("Total income:    %s\n", money.FormatNaira(d.TotalIncome))
	a.printf("Salary estimate: %s\n", money.FormatNaira(d.SalaryEstimate))
	a.printf("Transactions:    %d\n", res.TransactionCount)
	if !res.SummaryMatched {
		a.printf("Warning: statement summary does not match its transactions\n")
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.finance.VerificationStatus(ctx)
	if err != nil {
		return err
	}

	a.printf("Current step: %s\n", st.Step)
	if st.Identity != nil {
		a.printf("Identity: %s (%s)\n", st.Identity.Status, st.Identity.CreatedAt.Format("2006-01-02"))
	}
	if st.Income != nil {
		a.printf("Income:   %s (%s)\n", st.Income.Status, st.Income.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
