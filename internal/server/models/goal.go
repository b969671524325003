package models

import "github.com/shopspring/decimal"

type GoalType string

const (
	GoalSaving       GoalType = "SAVING"
	GoalContribution GoalType = "CONTRIBUTION"
)

func (t GoalType) Valid() bool {
	return t == GoalSaving || t == GoalContribution
}

type Goal struct {
	ID                 string
	UserID             string
	Title              string
	Icon               string
	Type               GoalType
	CurrentAmount      decimal.Decimal
	TargetAmount       decimal.Decimal
	ContributionAmount decimal.NullDecimal
	Completed          bool
}
