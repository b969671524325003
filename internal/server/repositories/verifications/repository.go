package verifications

import (
	"context"

	"github.com/flexrent/flexrent/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.Verification) error
	// Latest returns the most recent attempt of the given kind, or
	// common.ErrorNotFound when the user never attempted it.
	Latest(ctx context.Context, userID string, kind models.VerificationKind) (*models.Verification, error)
}
