package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// LeaseView is the tenant's profile and, when one exists, the active lease.
type LeaseView struct {
	Profile *models.TenantProfile
	Lease   *models.Lease
}

type NewLease struct {
	TenantUserID string          `json:"tenantUserId" validate:"required"`
	PropertyID   string          `json:"propertyId" validate:"required"`
	StartDate    time.Time       `json:"startDate" validate:"required"`
	EndDate      time.Time       `json:"endDate" validate:"required"`
	MonthlyRent  decimal.Decimal `json:"monthlyRent"`
}

type TenancyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTenancyService(db *sql.DB, m repomanager.RepositoryManager) *TenancyService {
	return &TenancyService{db: db, repomanager: m}
}

// Lease returns common.ErrorNotFound when the user has no tenant profile.
func (s *TenancyService) Lease(ctx context.Context, userID string) (*LeaseView, error) {
	repo := s.repomanager.Tenancy(s.db)

	profile, err := repo.TenantProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	lease, err := repo.ActiveLease(ctx, profile.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return &LeaseView{Profile: profile, Lease: lease}, nil
}

// CreateLease starts a lease for a tenant on a property. Any earlier active
// lease of the tenant is ended.
func (s *TenancyService) CreateLease(ctx context.Context, in NewLease) (*models.Lease, error) {
	if err := validate.Struct(in); err != nil {
		return nil, common.ErrorValidation
	}
	if !in.EndDate.After(in.StartDate) || !in.MonthlyRent.IsPositive() {
		return nil, common.ErrorValidation
	}

	return dbx.WithTxResult(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Lease, error) {
		repo := s.repomanager.Tenancy(tx)

		profile, err := repo.TenantProfile(ctx, in.TenantUserID)
		if err != nil {
			return nil, err
		}
		property, err := repo.GetProperty(ctx, in.PropertyID)
		if err != nil {
			return nil, err
		}

		l := &models.Lease{
			TenantID:    profile.ID,
			PropertyID:  property.ID,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			MonthlyRent: in.MonthlyRent,
			IsActive:    true,
		}
		if err := repo.CreateLease(ctx, l); err != nil {
			return nil, err
		}
		l.Property = property
		return l, nil
	})
}
