package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// Date ranges understood by Filter.
const (
	RangeAll        = "All"
	RangeThisMonth  = "This Month"
	RangeLastMonth  = "Last Month"
	RangeLast90Days = "Last 90 Days"
	RangeThisYear   = "This Year"
)

// FilterAll disables a selector.
const FilterAll = "All"

// Filters narrows a transaction list. Empty or "All" selectors match
// everything.
type Filters struct {
	DateRange   string
	AccountID   string
	Type        string
	Category    string
	SearchQuery string
	// HousingOnly keeps rent, service charge and utility rows only.
	HousingOnly bool
}

// Validate rejects unknown date ranges, types and categories.
func (f Filters) Validate() error {
	switch f.DateRange {
	case "", RangeAll, RangeThisMonth, RangeLastMonth, RangeLast90Days, RangeThisYear:
	default:
		return common.ErrorValidation
	}
	if !selectorOff(f.Type) && !models.TransactionType(f.Type).Valid() {
		return common.ErrorValidation
	}
	if !selectorOff(f.Category) && !models.TransactionCategory(f.Category).Valid() {
		return common.ErrorValidation
	}
	return nil
}

func selectorOff(v string) bool {
	return v == "" || v == FilterAll
}

// Filter returns the transactions of txs matching f, keeping their order.
// Date ranges are evaluated in now's location.
func Filter(txs []*models.Transaction, f Filters, now time.Time) []*models.Transaction {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))

	out := make([]*models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.HousingOnly && !tx.Category.IsHousing() {
			continue
		}
		if !selectorOff(f.AccountID) && tx.AccountID != f.AccountID {
			continue
		}
		if !inRange(tx.Date.In(now.Location()), f.DateRange, now) {
			continue
		}
		if !selectorOff(f.Type) && string(tx.Type) != f.Type {
			continue
		}
		if !selectorOff(f.Category) && string(tx.Category) != f.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(tx.Name), query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func inRange(d time.Time, dateRange string, now time.Time) bool {
	switch dateRange {
	case RangeThisMonth:
		return d.Year() == now.Year() && d.Month() == now.Month()
	case RangeLastMonth:
		// step back from the first of the month so 31 March gives February
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		prev := first.AddDate(0, -1, 0)
		return d.Year() == prev.Year() && d.Month() == prev.Month()
	case RangeLast90Days:
		return !d.Before(now.AddDate(0, 0, -90))
	case RangeThisYear:
		return d.Year() == now.Year()
	default:
		return true
	}
}

type Cashflow struct {
	NetIncome   decimal.Decimal
	HousingCost decimal.Decimal
	Disposable  decimal.Decimal
}

// ComputeCashflow sums income and housing expenses of txs.
func ComputeCashflow(txs []*models.Transaction) Cashflow {
	cf := Cashflow{NetIncome: decimal.Zero, HousingCost: decimal.Zero}
	for _, tx := range txs {
		switch {
		case tx.Type == models.TransactionIncome:
			cf.NetIncome = cf.NetIncome.Add(tx.Amount)
		case tx.Type == models.TransactionExpense && tx.Category.IsHousing():
			cf.HousingCost = cf.HousingCost.Add(tx.Amount.Abs())
		}
	}
	cf.Disposable = cf.NetIncome.Sub(cf.HousingCost)
	return cf
}

type NewTransaction struct {
	AccountID   string          `json:"accountId" validate:"required"`
	Date        time.Time       `json:"date"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" validate:"oneof=INCOME EXPENSE"`
	Category    string          `json:"category" validate:"required"`
}

type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m, now: time.Now}
}

// History loads the user's transactions and applies f.
func (s *TransactionService) History(ctx context.Context, userID string, f Filters) ([]*models.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	txs, err := s.repomanager.Transactions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Filter(txs, f, s.now()), nil
}

// Cashflow computes income and housing cost over the transactions matching f.
func (s *TransactionService) Cashflow(ctx context.Context, userID string, f Filters) (Cashflow, error) {
	f.HousingOnly = false
	txs, err := s.History(ctx, userID, f)
	if err != nil {
		return Cashflow{}, err
	}
	return ComputeCashflow(txs), nil
}

func (s *TransactionService) UpdateCategory(ctx context.Context, userID, txID, category string) error {
	c := models.TransactionCategory(category)
	if !c.Valid() {
		return common.ErrorValidation
	}
	return s.repomanager.Transactions(s.db).UpdateCategory(ctx, userID, txID, c)
}

// Create records a transaction on one of the user's accounts and moves the
// account balance by the same amount. The sign of the amount follows the
// type: expenses are stored negative, income positive.
func (s *TransactionService) Create(ctx context.Context, userID string, in NewTransaction) (*models.Transaction, error) {
	if err := validate.Struct(in); err != nil {
		return nil, common.ErrorValidation
	}
	category := models.TransactionCategory(in.Category)
	if !category.Valid() || in.Amount.IsZero() {
		return nil, common.ErrorValidation
	}

	typ := models.TransactionType(in.Type)
	amount := in.Amount.Abs()
	if typ == models.TransactionExpense {
		amount = amount.Neg()
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Date:        date,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Amount:      amount,
		Type:        typ,
		Category:    category,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, db dbx.DBTX) error {
		accountsRepo := s.repomanager.Accounts(db)
		if _, err := accountsRepo.GetForUser(ctx, userID, in.AccountID); err != nil {
			return err
		}
		if err := s.repomanager.Transactions(db).Create(ctx, tx); err != nil {
			return err
		}
		return accountsRepo.AdjustBalance(ctx, in.AccountID, amount)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
