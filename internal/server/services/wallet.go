package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/money"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// AccountView is an account as shown to its owner. Balance is nil when the
// balance must not be displayed.
type AccountView struct {
	ID              string
	Bank            string
	ShortName       string
	MaskedNumber    string
	Balance         *decimal.Decimal
	IsCreditLine    bool
	IsSalaryAccount bool
	ColorScheme     string
}

type WalletSummary struct {
	Accounts   []AccountView
	RentPower  decimal.Decimal
	CashOnHand decimal.Decimal
	TargetRent decimal.Decimal
	// Coverage is the share of the annual rent covered by RentPower, in
	// percent, capped at 100.
	Coverage decimal.Decimal
}

type WalletService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWalletService(db *sql.DB, m repomanager.RepositoryManager) *WalletService {
	return &WalletService{db: db, repomanager: m}
}

func (s *WalletService) Summary(ctx context.Context, userID string) (*WalletSummary, error) {
	accs, err := s.repomanager.Accounts(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repomanager.Tenancy(s.db).TenantProfile(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return Summarize(accs, profile), nil
}

// Summarize computes the wallet figures. profile may be nil.
func Summarize(accs []*models.Account, profile *models.TenantProfile) *WalletSummary {
	sum := &WalletSummary{
		Accounts:   make([]AccountView, 0, len(accs)),
		RentPower:  decimal.Zero,
		CashOnHand: decimal.Zero,
		TargetRent: decimal.NewFromInt(1),
	}

	creditLineSeen := false
	for _, a := range accs {
		view := AccountView{
			ID:              a.ID,
			Bank:            a.Bank,
			ShortName:       a.ShortName,
			MaskedNumber:    MaskAccountNumber(a.AccountNumber),
			IsCreditLine:    a.IsCreditLine,
			IsSalaryAccount: a.IsSalaryAccount,
			ColorScheme:     a.ColorScheme,
		}
		if a.BalanceVisible() {
			b := a.Balance
			view.Balance = &b
		}
		sum.Accounts = append(sum.Accounts, view)

		switch {
		case a.IsCreditLine:
			if !creditLineSeen {
				sum.RentPower = a.Balance
				creditLineSeen = true
			}
		case a.IsInternalWallet():
			sum.CashOnHand = sum.CashOnHand.Add(a.Balance)
		}
	}

	if profile != nil && profile.CurrentRent.IsPositive() {
		sum.TargetRent = profile.CurrentRent
	}
	sum.Coverage = money.CappedPercent(sum.RentPower, sum.TargetRent)

	return sum
}

// MaskAccountNumber keeps the last four characters: "•••• 6070".
func MaskAccountNumber(n string) string {
	r := []rune(n)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return "•••• " + string(r)
}
