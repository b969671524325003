// Package tenancy persists tenant and landlord profiles, properties and
// the leases linking them.
package tenancy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) TenantProfile(ctx context.Context, userID string) (*models.TenantProfile, error) {
	query := `
		SELECT id, user_id, current_rent, rent_status, pension_provider, pension_status
		FROM tenant_profiles
		WHERE user_id = $1
	`
	p := &models.TenantProfile{}
	var status string
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.CurrentRent, &status, &p.PensionProvider, &p.PensionStatus)
	if err != nil {
		return nil, notFound(err)
	}
	p.RentStatus = models.RentStatus(status)
	return p, nil
}

func (r *PostgresRepository) UpsertTenantProfile(ctx context.Context, p *models.TenantProfile) error {
	query := `
		INSERT INTO tenant_profiles (user_id, current_rent, rent_status, pension_provider, pension_status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			current_rent = EXCLUDED.current_rent,
			rent_status = EXCLUDED.rent_status,
			pension_provider = EXCLUDED.pension_provider,
			pension_status = EXCLUDED.pension_status
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.CurrentRent, string(p.RentStatus),
		p.PensionProvider, p.PensionStatus).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertLandlordProfile(ctx context.Context, p *models.LandlordProfile) error {
	query := `
		INSERT INTO landlord_profiles (user_id, verification_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET verification_id = EXCLUDED.verification_id
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, p.UserID, p.VerificationID).Scan(&p.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertProperty(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (landlord_id, name, address, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (landlord_id, name)
		DO UPDATE SET address = EXCLUDED.address, description = EXCLUDED.description
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, p.LandlordID, p.Name, p.Address, p.Description).Scan(&p.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	p := &models.Property{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, landlord_id, name, address, description FROM properties WHERE id = $1`, id).
		Scan(&p.ID, &p.LandlordID, &p.Name, &p.Address, &p.Description)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// CreateLease should run inside a transaction (see dbx.WithTx) so the
// deactivation and the insert commit together.
func (r *PostgresRepository) CreateLease(ctx context.Context, l *models.Lease) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE leases SET is_active = FALSE WHERE tenant_id = $1 AND is_active`, l.TenantID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query := `
		INSERT INTO leases (tenant_id, property_id, start_date, end_date, monthly_rent, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, l.TenantID, l.PropertyID, l.StartDate, l.EndDate, l.MonthlyRent).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	l.IsActive = true
	return nil
}

func (r *PostgresRepository) ActiveLease(ctx context.Context, tenantID string) (*models.Lease, error) {
	query := `
		SELECT l.id, l.tenant_id, l.property_id, l.start_date, l.end_date, l.monthly_rent, l.is_active,
		       p.landlord_id, p.name, p.address, p.description
		FROM leases l
		JOIN properties p ON p.id = l.property_id
		WHERE l.tenant_id = $1 AND l.is_active
		ORDER BY l.start_date DESC
		LIMIT 1
	`
	l := &models.Lease{Property: &models.Property{}}
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&l.ID, &l.TenantID, &l.PropertyID, &l.StartDate, &l.EndDate, &l.MonthlyRent, &l.IsActive,
		&l.Property.LandlordID, &l.Property.Name, &l.Property.Address, &l.Property.Description)
	if err != nil {
		return nil, notFound(err)
	}
	l.Property.ID = l.PropertyID
	return l, nil
}
