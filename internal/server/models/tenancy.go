package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentStatus string

const (
	RentStatusActive   RentStatus = "ACTIVE"
	RentStatusOverdue  RentStatus = "OVERDUE"
	RentStatusPending  RentStatus = "PENDING"
	RentStatusInactive RentStatus = "INACTIVE"
)

// TenantProfile extends a User who rents. CurrentRent is the annual rent.
type TenantProfile struct {
	ID              string
	UserID          string
	CurrentRent     decimal.Decimal
	RentStatus      RentStatus
	PensionProvider string
	PensionStatus   string
}

type LandlordProfile struct {
	ID             string
	UserID         string
	VerificationID string
}

type Property struct {
	ID          string
	LandlordID  string
	Name        string
	Address     string
	Description string
}

// Lease links exactly one tenant profile to one property.
type Lease struct {
	ID          string
	TenantID    string
	PropertyID  string
	StartDate   time.Time
	EndDate     time.Time
	MonthlyRent decimal.Decimal
	IsActive    bool

	// Property is populated by queries that join it.
	Property *Property
}
