package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

type TransactionCategory string

const (
	CategoryRentPayment   TransactionCategory = "RENT_PAYMENT"
	CategoryServiceCharge TransactionCategory = "SERVICE_CHARGE"
	CategoryUtilities     TransactionCategory = "UTILITIES"
	CategorySalary        TransactionCategory = "SALARY"
	CategoryTransfer      TransactionCategory = "TRANSFER"
	CategoryOther         TransactionCategory = "OTHER"
)

// HousingCategories are the categories shown on the history page and
// counted as housing cost.
var HousingCategories = []TransactionCategory{
	CategoryRentPayment,
	CategoryServiceCharge,
	CategoryUtilities,
}

var allCategories = []TransactionCategory{
	CategoryRentPayment,
	CategoryServiceCharge,
	CategoryUtilities,
	CategorySalary,
	CategoryTransfer,
	CategoryOther,
}

func (c TransactionCategory) Valid() bool {
	for _, v := range allCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (c TransactionCategory) IsHousing() bool {
	for _, v := range HousingCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction amounts are signed: expenses are negative.
type Transaction struct {
	ID          string
	UserID      string
	AccountID   string
	Date        time.Time
	Name        string
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    TransactionCategory
}
