package models

import "github.com/shopspring/decimal"

// Bank names of accounts held inside FlexRent itself. Their balances are
// shown to the user; balances of linked external banks are not.
const (
	BankFlexRentWallet      = "FLEXRENT_WALLET"
	BankFlexRentWalletLabel = "FlexRent Wallet"
)

type Account struct {
	ID              string
	UserID          string
	Bank            string
	ShortName       string
	AccountNumber   string
	Balance         decimal.Decimal
	IsCreditLine    bool
	IsSalaryAccount bool
	ColorScheme     string
}

// IsInternalWallet reports whether the account is the user's FlexRent wallet.
func (a *Account) IsInternalWallet() bool {
	return a.Bank == BankFlexRentWallet || a.Bank == BankFlexRentWalletLabel
}

// BalanceVisible reports whether the balance may be displayed.
func (a *Account) BalanceVisible() bool {
	return a.IsCreditLine || a.Bank == BankFlexRentWallet
}
