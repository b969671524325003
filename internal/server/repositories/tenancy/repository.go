package tenancy

import (
	"context"

	"github.com/flexrent/flexrent/internal/server/models"
)

type Repository interface {
	// TenantProfile returns common.ErrorNotFound for users who do not rent.
	TenantProfile(ctx context.Context, userID string) (*models.TenantProfile, error)
	UpsertTenantProfile(ctx context.Context, p *models.TenantProfile) error
	UpsertLandlordProfile(ctx context.Context, p *models.LandlordProfile) error
	UpsertProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id string) (*models.Property, error)

	// CreateLease inserts an active lease and deactivates any other active
	// lease of the same tenant.
	CreateLease(ctx context.Context, l *models.Lease) error
	// ActiveLease returns the tenant's active lease with its property.
	ActiveLease(ctx context.Context, tenantID string) (*models.Lease, error)
}
