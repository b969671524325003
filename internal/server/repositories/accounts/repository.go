package accounts

import (
	"context"

	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	ListByUser(ctx context.Context, userID string) ([]*models.Account, error)
	// GetForUser returns common.ErrorNotFound when the account does not
	// exist or belongs to someone else.
	GetForUser(ctx context.Context, userID, id string) (*models.Account, error)
	// AdjustBalance adds delta (which may be negative) to the balance.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
}
