package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VerificationKind string

const (
	VerificationIdentity VerificationKind = "IDENTITY"
	VerificationIncome   VerificationKind = "INCOME"
)

type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
	VerificationFailed   VerificationStatus = "FAILED"
)

// Verification records one attempt of a verification step. Reference is
// the masked BVN for identity checks and the document id for income checks.
type Verification struct {
	ID        string
	UserID    string
	Kind      VerificationKind
	Status    VerificationStatus
	Reference string
	Details   []byte
	CreatedAt time.Time
}

// Document is an analysed bank statement kept in object storage.
type Document struct {
	ID                string
	UserID            string
	FileName          string
	StorageKey        string
	TotalIncome       decimal.Decimal
	SalaryEstimate    decimal.Decimal
	IsCreditworthy    bool
	SummaryValidation string
	CreatedAt         time.Time
}
