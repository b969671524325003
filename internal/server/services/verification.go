package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/flexrent/flexrent/internal/analyzer"
	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/kyc"
	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
	"github.com/flexrent/flexrent/internal/server/storage"
)

// Wizard steps reported by Status.
const (
	StepIdentity = "identity"
	StepIncome   = "income"
	StepReview   = "review"
)

const bvnLength = 11

var (
	ErrInvalidBVN        = fmt.Errorf("%w: BVN must be 11 digits", common.ErrorValidation)
	ErrStatementNotPDF   = fmt.Errorf("%w: statement must be a PDF file", common.ErrorValidation)
	ErrStatementTooLarge = fmt.Errorf("%w: statement exceeds 2 MB", common.ErrorValidation)
	ErrStatementEmpty    = fmt.Errorf("%w: statement is empty", common.ErrorValidation)
)

var pdfMagic = []byte("%PDF-")

type IdentityVerifier interface {
	VerifyBVN(ctx context.Context, bvn string) (*kyc.Details, error)
}

type StatementAnalyzer interface {
	Analyze(ctx context.Context, fileName string, pdf []byte, password string) (*analyzer.Verdict, error)
}

type StatementStore interface {
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

type IdentityResult struct {
	Status  models.VerificationStatus
	Details *kyc.Details
}

// Statement is an uploaded bank statement.
type Statement struct {
	FileName string
	Data     []byte
	Password string
}

type IncomeResult struct {
	Status   models.VerificationStatus
	Document *models.Document
	Verdict  *analyzer.Verdict
}

type WizardStatus struct {
	Step     string
	Identity *models.Verification
	Income   *models.Verification
}

type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    IdentityVerifier
	analyzer    StatementAnalyzer
	store       StatementStore
	log         logging.Logger
	now         func() time.Time
}

func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, identity IdentityVerifier,
	a StatementAnalyzer, store StatementStore, log logging.Logger) *VerificationService {
	return &VerificationService{
		db:          db,
		repomanager: m,
		identity:    identity,
		analyzer:    a,
		store:       store,
		log:         log.With("module", "verification"),
		now:         time.Now,
	}
}

func validBVN(bvn string) bool {
	if len(bvn) != bvnLength {
		return false
	}
	for _, r := range bvn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func nameTokens(u *models.User) []string {
	var out []string
	for _, part := range []string{u.FirstName, u.MiddleName, u.LastName} {
		for _, tok := range strings.FieldsFunc(part, func(r rune) bool { return r == ' ' || r == '-' }) {
			out = append(out, strings.ToLower(tok))
		}
	}
	return out
}

func matchesToken(name string, tokens []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, tok := range tokens {
		if strings.HasPrefix(tok, name) {
			return true
		}
	}
	return false
}

// NamesMatch reports whether the first and last name on the identity
// record each equal, or are a prefix of, one of the user's name parts.
func NamesMatch(u *models.User, d *kyc.Details) bool {
	tokens := nameTokens(u)
	return matchesToken(d.FirstName, tokens) && matchesToken(d.LastName, tokens)
}

// VerifyIdentity looks the BVN up with the identity provider and compares
// the returned names with the user's. Every attempt that reaches the
// provider is recorded.
func (s *VerificationService) VerifyIdentity(ctx context.Context, userID, bvn string) (*IdentityResult, error) {
	bvn = strings.TrimSpace(bvn)
	if !validBVN(bvn) {
		return nil, ErrInvalidBVN
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details, err := s.identity.VerifyBVN(ctx, bvn)
	if errors.Is(err, kyc.ErrBVNNotFound) {
		if recErr := s.record(ctx, userID, models.VerificationIdentity, models.VerificationFailed, kyc.MaskBVN(bvn), nil); recErr != nil {
			return nil, recErr
		}
		return nil, err
	}
	if err != nil {
		s.log.Error(ctx, "identity provider call failed", "error", err)
		return nil, err
	}

	status := models.VerificationRejected
	if NamesMatch(u, details) {
		status = models.VerificationVerified
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, userID, models.VerificationIdentity, status, kyc.MaskBVN(bvn), raw); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "identity checked", "user", userID, "status", status)
	return &IdentityResult{Status: status, Details: details}, nil
}

func (s *VerificationService) record(ctx context.Context, userID string, kind models.VerificationKind,
	status models.VerificationStatus, reference string, details []byte) error {
	return s.repomanager.Verifications(s.db).Create(ctx, &models.Verification{
		UserID:    userID,
		Kind:      kind,
		Status:    status,
		Reference: reference,
		Details:   details,
	})
}

func checkStatement(st Statement) error {
	switch {
	case len(st.Data) == 0:
		return ErrStatementEmpty
	case len(st.Data) > common.StatementMaxSize:
		return ErrStatementTooLarge
	case !strings.EqualFold(filepath.Ext(st.FileName), ".pdf") || !bytes.HasPrefix(st.Data, pdfMagic):
		return ErrStatementNotPDF
	}
	return nil
}

type incomeDetails struct {
	TotalIncome       string `json:"totalIncome"`
	SalaryEstimate    string `json:"salaryEstimate"`
	TransactionCount  int    `json:"transactionCount"`
	SummaryValidation string `json:"summaryValidation"`
}

// AnalyzeStatement sends the statement to the analyzer. A successful
// analysis stores the file, a Document and an INCOME verification that is
// VERIFIED when the analyzer found the user creditworthy.
func (s *VerificationService) AnalyzeStatement(ctx context.Context, userID string, st Statement) (*IncomeResult, error) {
	if err := checkStatement(st); err != nil {
		return nil, err
	}

	idv, err := s.repomanager.Verifications(s.db).Latest(ctx, userID, models.VerificationIdentity)
	if errors.Is(err, common.ErrorNotFound) || (err == nil && idv.Status != models.VerificationVerified) {
		return nil, common.ErrIdentityNotVerified
	}
	if err != nil {
		return nil, err
	}

	verdict, err := s.analyzer.Analyze(ctx, st.FileName, st.Data, st.Password)
	if err != nil {
		if !errors.Is(err, analyzer.ErrPasswordRequired) {
			s.log.Warn(ctx, "statement analysis failed", "user", userID, "error", err)
		}
		return nil, err
	}

	key := storage.StatementKey(userID, s.now())
	if err := s.store.Put(ctx, key, st.Data); err != nil {
		s.log.Error(ctx, "store statement", "key", key, "error", err)
		return nil, err
	}

	status := models.VerificationRejected
	if verdict.IsCreditworthy {
		status = models.VerificationVerified
	}

	raw, err := json.Marshal(incomeDetails{
		TotalIncome:       verdict.TotalIncome.String(),
		SalaryEstimate:    verdict.SalaryEstimate.String(),
		TransactionCount:  verdict.TransactionCount,
		SummaryValidation: verdict.SummaryValidation,
	})
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		UserID:            userID,
		FileName:          filepath.Base(st.FileName),
		StorageKey:        key,
		TotalIncome:       verdict.TotalIncome,
		SalaryEstimate:    verdict.SalaryEstimate,
		IsCreditworthy:    verdict.IsCreditworthy,
		SummaryValidation: verdict.SummaryValidation,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Documents(tx).Create(ctx, doc); err != nil {
			return err
		}
		return s.repomanager.Verifications(tx).Create(ctx, &models.Verification{
			UserID:    userID,
			Kind:      models.VerificationIncome,
			Status:    status,
			Reference: doc.ID,
			Details:   raw,
		})
	})
	if err != nil {
		// the object has no Document pointing at it any more
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Error(ctx, "remove orphaned statement", "key", key, "error", derr)
		}
		return nil, err
	}

	s.log.Info(ctx, "statement analysed", "user", userID, "document", doc.ID, "status", status)
	return &IncomeResult{Status: status, Document: doc, Verdict: verdict}, nil
}

// Status derives the wizard step from the latest attempts: identity until a
// VERIFIED identity exists, then income until an analysis has been recorded,
// then review.
func (s *VerificationService) Status(ctx context.Context, userID string) (*WizardStatus, error) {
	repo := s.repomanager.Verifications(s.db)

	out := &WizardStatus{Step: StepIdentity}

	idv, err := repo.Latest(ctx, userID, models.VerificationIdentity)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return out, nil
	case err != nil:
		return nil, err
	}
	out.Identity = idv
	if idv.Status != models.VerificationVerified {
		return out, nil
	}

	out.Step = StepIncome
	inc, err := repo.Latest(ctx, userID, models.VerificationIncome)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return out, nil
	case err != nil:
		return nil, err
	}
	out.Income = inc
	if inc.Status != models.VerificationFailed {
		out.Step = StepReview
	}
	return out, nil
}
