package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/money"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// GoalView is a goal with its completion percentage.
type GoalView struct {
	*models.Goal
	Progress decimal.Decimal
}

type NewGoal struct {
	Title              string           `json:"title" validate:"required,max=120"`
	Icon               string           `json:"icon" validate:"max=32"`
	Type               string           `json:"type" validate:"oneof=SAVING CONTRIBUTION"`
	TargetAmount       decimal.Decimal  `json:"targetAmount"`
	ContributionAmount *decimal.Decimal `json:"contributionAmount,omitempty"`
}

type GoalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewGoalService(db *sql.DB, m repomanager.RepositoryManager) *GoalService {
	return &GoalService{db: db, repomanager: m}
}

// Progress returns current/target as a percentage, 0 when the target is 0.
func Progress(g *models.Goal) decimal.Decimal {
	return money.Percent(g.CurrentAmount, g.TargetAmount)
}

func (s *GoalService) List(ctx context.Context, userID string) ([]GoalView, error) {
	gs, err := s.repomanager.Goals(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]GoalView, 0, len(gs))
	for _, g := range gs {
		out = append(out, GoalView{Goal: g, Progress: Progress(g)})
	}
	return out, nil
}

func (s *GoalService) Create(ctx context.Context, userID string, in NewGoal) (*models.Goal, error) {
	if err := validate.Struct(in); err != nil {
		return nil, common.ErrorValidation
	}

	g := &models.Goal{
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Icon:          in.Icon,
		Type:          models.GoalType(in.Type),
		CurrentAmount: decimal.Zero,
		TargetAmount:  in.TargetAmount,
	}

	switch g.Type {
	case models.GoalSaving:
		if !in.TargetAmount.IsPositive() {
			return nil, common.ErrorValidation
		}
	case models.GoalContribution:
		if in.ContributionAmount == nil || !in.ContributionAmount.IsPositive() || in.TargetAmount.IsNegative() {
			return nil, common.ErrorValidation
		}
		g.ContributionAmount = decimal.NewNullDecimal(*in.ContributionAmount)
	}

	if err := s.repomanager.Goals(s.db).Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Contribute adds amount to the goal. The goal is marked completed once the
// current amount reaches the target; completed goals take no more money.
func (s *GoalService) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*GoalView, error) {
	if !amount.IsPositive() {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Goals(s.db)
	g, err := repo.AddContribution(ctx, userID, goalID, amount)
	if errors.Is(err, common.ErrorNotFound) {
		// nothing updated: tell a completed goal apart from a missing one
		existing, gerr := repo.GetForUser(ctx, userID, goalID)
		if gerr != nil {
			return nil, gerr
		}
		if existing.Completed {
			return nil, common.ErrGoalCompleted
		}
	}
	if err != nil {
		return nil, err
	}
	return &GoalView{Goal: g, Progress: Progress(g)}, nil
}
