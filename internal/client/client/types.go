package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	AgreeToTerms bool   `json:"agreeToTerms"`
}

// Session is the token pair handed out by login and refresh.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Role         string `json:"role"`
}

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type TenantProfile struct {
	CurrentRent decimal.Decimal `json:"currentRent"`
	RentStatus  string          `json:"rentStatus"`
}

// Account.Balance is nil when the server hides it.
type Account struct {
	ID              string           `json:"id"`
	Bank            string           `json:"bank"`
	ShortName       string           `json:"shortName"`
	AccountNumber   string           `json:"accountNumber"`
	Balance         *decimal.Decimal `json:"balance"`
	IsCreditLine    bool             `json:"isCreditLine"`
	IsSalaryAccount bool             `json:"isSalaryAccount"`
}

type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"accountId"`
	Date      time.Time       `json:"date"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
}

type Goal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Type          string          `json:"type"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	Completed     bool            `json:"completed"`
	Progress      decimal.Decimal `json:"progress"`
}

type Overview struct {
	User          User           `json:"user"`
	FullName      string         `json:"fullName"`
	TenantProfile *TenantProfile `json:"tenantProfile"`
	Accounts      []Account      `json:"accounts"`
	Transactions  []Transaction  `json:"transactions"`
	Goals         []Goal         `json:"goals"`
}

type Wallet struct {
	Accounts   []Account       `json:"accounts"`
	RentPower  decimal.Decimal `json:"rentPower"`
	CashOnHand decimal.Decimal `json:"cashOnHand"`
	TargetRent decimal.Decimal `json:"targetRent"`
	Coverage   decimal.Decimal `json:"coverage"`
}

// HistoryQuery mirrors the transaction filters. Empty fields are not sent.
type HistoryQuery struct {
	DateRange string
	AccountID string
	Type      string
	Category  string
	Search    string
	AllScopes bool
}

type IdentityResult struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details"`
}

type Document struct {
	ID                string          `json:"id"`
	FileName          string          `json:"fileName"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	SalaryEstimate    decimal.Decimal `json:"salaryEstimate"`
	IsCreditworthy    bool            `json:"isCreditworthy"`
	SummaryValidation string          `json:"summaryValidation"`
}

type IncomeResult struct {
	Status           string   `json:"status"`
	Document         Document `json:"document"`
	TransactionCount int      `json:"transactionCount"`
	SummaryMatched   bool     `json:"summaryMatched"`
}

type Verification struct {
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}

type WizardStatus struct {
	Step     string        `json:"step"`
	Identity *Verification `json:"identity"`
	Income   *Verification `json:"income"`
}
