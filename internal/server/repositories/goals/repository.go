package goals

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Goal, error)
	Create(ctx context.Context, goal *models.Goal) error
	GetForUser(ctx context.Context, userID, id string) (*models.Goal, error)
	// AddContribution atomically adds amount to an open goal and marks it
	// completed once the target is reached. A missing or already completed
	// goal yields common.ErrorNotFound.
	AddContribution(ctx context.Context, userID, id string, amount decimal.Decimal) (*models.Goal, error)
	DeleteByUser(ctx context.Context, userID string) error
}
