package documents

import (
	"context"

	"github.com/flexrent/flexrent/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.Document) error
	ListByUser(ctx context.Context, userID string) ([]*models.Document, error)
	// GetForUser returns the document when it belongs to userID.
	GetForUser(ctx context.Context, userID, id string) (*models.Document, error)
}
