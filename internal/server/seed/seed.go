// Package seed loads the demo tenant, landlord and financial records.
// Running it again resets the tenant's transactions and goals and leaves
// everything else as it is.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// Demo identities.
const (
	TenantEmail   = "bryansomto@gmail.com"
	LandlordEmail = "chief.obi@realestate.ng"

	// bcrypt hash of the demo tenant's password.
	tenantPasswordHash = "$2b$10$rpTKG/KnJdmyjjzGxQv6UuojO8hxIDydzA8GvPSQKO9NUDsOfDHxa"
)

type transaction struct {
	models.Transaction
	accountNumber string
}

// Dataset is everything the seed writes for one tenant.
type Dataset struct {
	Tenant          models.User
	TenantProfile   models.TenantProfile
	Landlord        models.User
	LandlordProfile models.LandlordProfile
	Property        models.Property
	Lease           models.Lease
	Accounts        []models.Account
	Transactions    []transaction
	Goals           []models.Goal
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func n(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Demo returns the demo dataset.
func Demo() Dataset {
	return Dataset{
		Tenant: models.User{
			FirstName:    "Somtochukwu",
			MiddleName:   "Bryan",
			LastName:     "Ike-Adinnu",
			Email:        TenantEmail,
			PasswordHash: tenantPasswordHash,
			Role:         models.RoleUser,
		},
		TenantProfile: models.TenantProfile{
			CurrentRent:     n(1500000),
			RentStatus:      models.RentStatusActive,
			PensionProvider: "Leadway Pensure",
			PensionStatus:   "Active - 26 Remittances Found",
		},
		Landlord: models.User{
			FirstName: "Chief",
			LastName:  "Obi",
			Email:     LandlordEmail,
			Role:      models.RoleUser,
		},
		LandlordProfile: models.LandlordProfile{VerificationID: "NIN-123456789"},
		Property: models.Property{
			Name:        "Lekki Gardens Phase 2",
			Address:     "Unit 4, Block C, Lekki Gardens, Lagos",
			Description: "3 Bedroom Apartment",
		},
		Lease: models.Lease{
			StartDate:   mustTime("2024-01-01T00:00:00Z"),
			EndDate:     mustTime("2025-01-01T00:00:00Z"),
			MonthlyRent: n(125000),
			IsActive:    true,
		},
		Accounts: []models.Account{
			{Bank: "FlexRent Pre-Approved", ShortName: "Credit Limit", AccountNumber: "FLEX-ID-001", Balance: n(4000000), IsCreditLine: true, ColorScheme: "blue"},
			{Bank: "Guaranty Trust Bank", ShortName: "GTBank", AccountNumber: "2074606070", Balance: n(850400), IsSalaryAccount: true, ColorScheme: "orange"},
			{Bank: "Cowrywise (Savings)", ShortName: "Cowrywise", AccountNumber: "5677567019", Balance: n(450000), ColorScheme: "green"},
		},
		Transactions: []transaction{
			{
				Transaction: models.Transaction{
					Date:        mustTime("2025-11-25T09:00:00Z"),
					Name:        "FlexRent Monthly Debit",
					Description: "Rent for November (Month 3/12)",
					Amount:      n(-210000),
					Type:        models.TransactionExpense,
					Category:    models.CategoryRentPayment,
				},
				accountNumber: "2074606070",
			},
			{
				Transaction: models.Transaction{
					Date:        mustTime("2025-11-10T08:15:00Z"),
					Name:        "Estate Service Charge",
					Description: "Waste & Security Levy",
					Amount:      n(-45000),
					Type:        models.TransactionExpense,
					Category:    models.CategoryServiceCharge,
				},
				accountNumber: "5677567019",
			},
		},
		Goals: []models.Goal{
			{Title: "2026 Rent Renewal", Icon: "RentRenewal", Type: models.GoalSaving, CurrentAmount: n(450000), TargetAmount: n(3000000)},
			{Title: "Furniture Upgrade", Icon: "Furniture", Type: models.GoalSaving, CurrentAmount: n(600000), TargetAmount: n(600000), Completed: true},
		},
	}
}

type Seeder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewSeeder(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *Seeder {
	return &Seeder{db: db, repomanager: m, log: log.With("module", "seed")}
}

// Run writes ds in one transaction.
func (s *Seeder) Run(ctx context.Context, ds Dataset) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.seed(ctx, tx, ds)
	})
}

func (s *Seeder) ensureUser(ctx context.Context, tx dbx.DBTX, u models.User) (*models.User, error) {
	repo := s.repomanager.Users(tx)

	existing, err := repo.GetByEmail(ctx, u.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &u)
}

func (s *Seeder) seed(ctx context.Context, tx dbx.DBTX, ds Dataset) error {
	tenancyRepo := s.repomanager.Tenancy(tx)

	user, err := s.ensureUser(ctx, tx, ds.Tenant)
	if err != nil {
		return fmt.Errorf("tenant user: %w", err)
	}
	s.log.Info(ctx, "checked user", "name", user.FullName())

	profile, err := tenancyRepo.TenantProfile(ctx, user.ID)
	if errors.Is(err, common.ErrorNotFound) {
		p := ds.TenantProfile
		p.UserID = user.ID
		err = tenancyRepo.UpsertTenantProfile(ctx, &p)
		profile = &p
	}
	if err != nil {
		return fmt.Errorf("tenant profile: %w", err)
	}

	landlordUser, err := s.ensureUser(ctx, tx, ds.Landlord)
	if err != nil {
		return fmt.Errorf("landlord user: %w", err)
	}
	landlord := ds.LandlordProfile
	landlord.UserID = landlordUser.ID
	if err := tenancyRepo.UpsertLandlordProfile(ctx, &landlord); err != nil {
		return fmt.Errorf("landlord profile: %w", err)
	}
	s.log.Info(ctx, "created landlord", "name", landlordUser.FirstName)

	property := ds.Property
	property.LandlordID = landlord.ID
	if err := tenancyRepo.UpsertProperty(ctx, &property); err != nil {
		return fmt.Errorf("property: %w", err)
	}

	active, err := tenancyRepo.ActiveLease(ctx, profile.ID)
	switch {
	case err == nil && active.PropertyID == property.ID:
	case err == nil || errors.Is(err, common.ErrorNotFound):
		lease := ds.Lease
		lease.TenantID = profile.ID
		lease.PropertyID = property.ID
		if err := tenancyRepo.CreateLease(ctx, &lease); err != nil {
			return fmt.Errorf("lease: %w", err)
		}
		s.log.Info(ctx, "created lease", "property", property.Name)
	default:
		return fmt.Errorf("lease lookup: %w", err)
	}

	if err := s.repomanager.Transactions(tx).DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("clean transactions: %w", err)
	}
	if err := s.repomanager.Goals(tx).DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("clean goals: %w", err)
	}

	accountIDs := make(map[string]string, len(ds.Accounts))
	for _, a := range ds.Accounts {
		a := a // per-iteration copy (go 1.21 loop semantics)
		a.UserID = user.ID
		if err := s.repomanager.Accounts(tx).Create(ctx, &a); err != nil {
			return fmt.Errorf("account %s: %w", a.AccountNumber, err)
		}
		accountIDs[a.AccountNumber] = a.ID
	}

	created := 0
	for _, t := range ds.Transactions {
		id, ok := accountIDs[t.accountNumber]
		if !ok {
			continue
		}
		item := t.Transaction
		item.UserID = user.ID
		item.AccountID = id
		if err := s.repomanager.Transactions(tx).Create(ctx, &item); err != nil {
			return fmt.Errorf("transaction %q: %w", item.Name, err)
		}
		created++
	}
	s.log.Info(ctx, "created transactions", "count", created)

	for _, g := range ds.Goals {
		g := g // per-iteration copy (go 1.21 loop semantics)
		g.UserID = user.ID
		if err := s.repomanager.Goals(tx).Create(ctx, &g); err != nil {
			return fmt.Errorf("goal %q: %w", g.Title, err)
		}
	}
	s.log.Info(ctx, "created goals", "count", len(ds.Goals))

	return nil
}
