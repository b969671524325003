package transactions

import (
	"context"

	"github.com/flexrent/flexrent/internal/server/models"
)

type Repository interface {
	// ListByUser returns every transaction of the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	Recent(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	UpdateCategory(ctx context.Context, userID, id string, category models.TransactionCategory) error
	// DeleteByUser removes every transaction of the user.
	DeleteByUser(ctx context.Context, userID string) error
}
