package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/money"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/services"
)

type userJSON struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func presentUser(u *models.User) userJSON {
	return userJSON{
		ID:         u.ID,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		Email:      u.Email,
		Role:       string(u.Role),
		Image:      u.Image,
		CreatedAt:  u.CreatedAt,
	}
}

type tenantProfileJSON struct {
	ID              string  `json:"id"`
	CurrentRent     float64 `json:"currentRent"`
	RentStatus      string  `json:"rentStatus"`
	PensionProvider string  `json:"pensionProvider,omitempty"`
	PensionStatus   string  `json:"pensionStatus,omitempty"`
}

func presentTenantProfile(p *models.TenantProfile) *tenantProfileJSON {
	if p == nil {
		return nil
	}
	return &tenantProfileJSON{
		ID:              p.ID,
		CurrentRent:     money.ToFloat(p.CurrentRent),
		RentStatus:      string(p.RentStatus),
		PensionProvider: p.PensionProvider,
		PensionStatus:   p.PensionStatus,
	}
}

type accountJSON struct {
	ID              string   `json:"id"`
	Bank            string   `json:"bank"`
	ShortName       string   `json:"shortName"`
	AccountNumber   string   `json:"accountNumber"`
	Balance         *float64 `json:"balance"`
	IsCreditLine    bool     `json:"isCreditLine"`
	IsSalaryAccount bool     `json:"isSalaryAccount"`
	ColorScheme     string   `json:"colorScheme,omitempty"`
}

func optionalFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := money.ToFloat(*d)
	return &f
}

func presentAccountView(a services.AccountView) accountJSON {
	return accountJSON{
		ID:              a.ID,
		Bank:            a.Bank,
		ShortName:       a.ShortName,
		AccountNumber:   a.MaskedNumber,
		Balance:         optionalFloat(a.Balance),
		IsCreditLine:    a.IsCreditLine,
		IsSalaryAccount: a.IsSalaryAccount,
		ColorScheme:     a.ColorScheme,
	}
}

// presentAccount hides the balance of accounts whose balance must not be
// shown and masks the account number.
func presentAccount(a *models.Account) accountJSON {
	var bal *decimal.Decimal
	if a.BalanceVisible() {
		bal = &a.Balance
	}
	return presentAccountView(services.AccountView{
		ID:              a.ID,
		Bank:            a.Bank,
		ShortName:       a.ShortName,
		MaskedNumber:    services.MaskAccountNumber(a.AccountNumber),
		Balance:         bal,
		IsCreditLine:    a.IsCreditLine,
		IsSalaryAccount: a.IsSalaryAccount,
		ColorScheme:     a.ColorScheme,
	})
}

type transactionJSON struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
}

func presentTransaction(t *models.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Date:        t.Date,
		Name:        t.Name,
		Description: t.Description,
		Amount:      money.ToFloat(t.Amount),
		Type:        string(t.Type),
		Category:    string(t.Category),
	}
}

func presentTransactions(txs []*models.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, presentTransaction(t))
	}
	return out
}

type goalJSON struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Icon               string  `json:"icon,omitempty"`
	Type               string  `json:"type"`
	CurrentAmount      float64 `json:"currentAmount"`
	TargetAmount       float64 `json:"targetAmount"`
	ContributionAmount float64 `json:"contributionAmount"`
	Completed          bool    `json:"completed"`
	Progress           float64 `json:"progress"`
}

func presentGoal(g *models.Goal) goalJSON {
	return goalJSON{
		ID:                 g.ID,
		Title:              g.Title,
		Icon:               g.Icon,
		Type:               string(g.Type),
		CurrentAmount:      money.ToFloat(g.CurrentAmount),
		TargetAmount:       money.ToFloat(g.TargetAmount),
		ContributionAmount: money.ToFloat(g.ContributionAmount.Decimal),
		Completed:          g.Completed,
		Progress:           money.ToFloat(services.Progress(g)),
	}
}

func presentGoals(gs []*models.Goal) []goalJSON {
	out := make([]goalJSON, 0, len(gs))
	for _, g := range gs {
		out = append(out, presentGoal(g))
	}
	return out
}

type overviewJSON struct {
	User               userJSON           `json:"user"`
	FullName           string             `json:"fullName"`
	TenantProfile      *tenantProfileJSON `json:"tenantProfile"`
	Accounts           []accountJSON      `json:"accounts"`
	RecentTransactions []transactionJSON  `json:"transactions"`
	Goals              []goalJSON         `json:"goals"`
}

func presentOverview(o *services.Overview) overviewJSON {
	accs := make([]accountJSON, 0, len(o.Accounts))
	for _, a := range o.Accounts {
		accs = append(accs, presentAccount(a))
	}
	return overviewJSON{
		User:               presentUser(o.User),
		FullName:           o.FullName,
		TenantProfile:      presentTenantProfile(o.TenantProfile),
		Accounts:           accs,
		RecentTransactions: presentTransactions(o.RecentTransactions),
		Goals:              presentGoals(o.Goals),
	}
}

type walletJSON struct {
	Accounts   []accountJSON `json:"accounts"`
	RentPower  float64       `json:"rentPower"`
	CashOnHand float64       `json:"cashOnHand"`
	TargetRent float64       `json:"targetRent"`
	Coverage   float64       `json:"coverage"`
}

func presentWallet(w *services.WalletSummary) walletJSON {
	accs := make([]accountJSON, 0, len(w.Accounts))
	for _, a := range w.Accounts {
		accs = append(accs, presentAccountView(a))
	}
	return walletJSON{
		Accounts:   accs,
		RentPower:  money.ToFloat(w.RentPower),
		CashOnHand: money.ToFloat(w.CashOnHand),
		TargetRent: money.ToFloat(w.TargetRent),
		Coverage:   money.ToFloat(w.Coverage),
	}
}

type cashflowJSON struct {
	NetIncome   float64 `json:"netIncome"`
	HousingCost float64 `json:"housingCost"`
	Disposable  float64 `json:"disposable"`
}

func presentCashflow(cf services.Cashflow) cashflowJSON {
	return cashflowJSON{
		NetIncome:   money.ToFloat(cf.NetIncome),
		HousingCost: money.ToFloat(cf.HousingCost),
		Disposable:  money.ToFloat(cf.Disposable),
	}
}

type propertyJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description,omitempty"`
}

type leaseJSON struct {
	ID          string        `json:"id"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	MonthlyRent float64       `json:"monthlyRent"`
	IsActive    bool          `json:"isActive"`
	Property    *propertyJSON `json:"property,omitempty"`
}

func presentLease(l *models.Lease) *leaseJSON {
	if l == nil {
		return nil
	}
	out := &leaseJSON{
		ID:          l.ID,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		MonthlyRent: money.ToFloat(l.MonthlyRent),
		IsActive:    l.IsActive,
	}
	if p := l.Property; p != nil {
		out.Property = &propertyJSON{ID: p.ID, Name: p.Name, Address: p.Address, Description: p.Description}
	}
	return out
}

type leaseViewJSON struct {
	TenantProfile *tenantProfileJSON `json:"tenantProfile"`
	Lease         *leaseJSON         `json:"lease"`
}

type verificationJSON struct {
	Status    string    `json:"status"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func presentVerification(v *models.Verification) *verificationJSON {
	if v == nil {
		return nil
	}
	return &verificationJSON{Status: string(v.Status), Reference: v.Reference, CreatedAt: v.CreatedAt}
}

type wizardStatusJSON struct {
	Step     string            `json:"step"`
	Identity *verificationJSON `json:"identity"`
	Income   *verificationJSON `json:"income"`
}

type documentJSON struct {
	ID                string    `json:"id"`
	FileName          string    `json:"fileName"`
	TotalIncome       float64   `json:"totalIncome"`
	SalaryEstimate    float64   `json:"salaryEstimate"`
	IsCreditworthy    bool      `json:"isCreditworthy"`
	SummaryValidation string    `json:"summaryValidation"`
	CreatedAt         time.Time `json:"createdAt"`
}

func presentDocument(d *models.Document) documentJSON {
	return documentJSON{
		ID:                d.ID,
		FileName:          d.FileName,
		TotalIncome:       money.ToFloat(d.TotalIncome),
		SalaryEstimate:    money.ToFloat(d.SalaryEstimate),
		IsCreditworthy:    d.IsCreditworthy,
		SummaryValidation: d.SummaryValidation,
		CreatedAt:         d.CreatedAt,
	}
}

type incomeResultJSON struct {
	Status           string       `json:"status"`
	Document         documentJSON `json:"document"`
	TransactionCount int          `json:"transactionCount"`
	SummaryMatched   bool         `json:"summaryMatched"`
}
