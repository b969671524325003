package users

import (
	"context"

	"github.com/flexrent/flexrent/internal/server/models"
)

type Repository interface {
	// Create inserts the user; a taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
