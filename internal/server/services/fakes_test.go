package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/accounts"
	"github.com/flexrent/flexrent/internal/server/repositories/documents"
	"github.com/flexrent/flexrent/internal/server/repositories/goals"
	"github.com/flexrent/flexrent/internal/server/repositories/refreshtokens"
	"github.com/flexrent/flexrent/internal/server/repositories/tenancy"
	"github.com/flexrent/flexrent/internal/server/repositories/transactions"
	"github.com/flexrent/flexrent/internal/server/repositories/users"
	"github.com/flexrent/flexrent/internal/server/repositories/verifications"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var idSeq int

func nextID(prefix string) string {
	idSeq++
	return fmt.Sprintf("%s%d", prefix, idSeq)
}

// --- users ---

type fakeUsersRepo struct {
	byID      map[string]*models.User
	createErr error
	getErr    error
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range us {
		r.byID[u.ID] = u
	}
	return r
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = nextID("u")
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	tokens     map[string]*models.RefreshToken
	consumeErr error
	delErr     error
	createErr  error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.tokens, token)
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteForUser(ctx context.Context, userID string) error {
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

// --- accounts ---

type fakeAccountsRepo struct {
	items   []*models.Account
	listErr error
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) error {
	a.ID = nextID("a")
	f.items = append(f.items, a)
	return nil
}

func (f *fakeAccountsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Account
	for _, a := range f.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountsRepo) GetForUser(ctx context.Context, userID, id string) (*models.Account, error) {
	for _, a := range f.items {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	for _, a := range f.items {
		if a.ID == id {
			a.Balance = a.Balance.Add(delta)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- transactions ---

type fakeTransactionsRepo struct {
	items     []*models.Transaction
	listErr   error
	createErr error
}

func (f *fakeTransactionsRepo) sorted(userID string) []*models.Transaction {
	var out []*models.Transaction
	for _, t := range f.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeTransactionsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(userID), nil
}

func (f *fakeTransactionsRepo) Recent(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.sorted(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, t *models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = nextID("t")
	f.items = append(f.items, t)
	return nil
}

func (f *fakeTransactionsRepo) UpdateCategory(ctx context.Context, userID, id string, c models.TransactionCategory) error {
	for _, t := range f.items {
		if t.ID == id && t.UserID == userID {
			t.Category = c
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeTransactionsRepo) DeleteByUser(ctx context.Context, userID string) error {
	kept := f.items[:0]
	for _, t := range f.items {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	f.items = kept
	return nil
}

// --- goals ---

type fakeGoalsRepo struct {
	items []*models.Goal
}

func (f *fakeGoalsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Goal, error) {
	var out []*models.Goal
	for _, g := range f.items {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalsRepo) Create(ctx context.Context, g *models.Goal) error {
	g.ID = nextID("g")
	f.items = append(f.items, g)
	return nil
}

func (f *fakeGoalsRepo) GetForUser(ctx context.Context, userID, id string) (*models.Goal, error) {
	for _, g := range f.items {
		if g.ID == id && g.UserID == userID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeGoalsRepo) AddContribution(ctx context.Context, userID, id string, amount decimal.Decimal) (*models.Goal, error) {
	for _, g := range f.items {
		if g.ID == id && g.UserID == userID && !g.Completed {
			g.CurrentAmount = g.CurrentAmount.Add(amount)
			g.Completed = g.TargetAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
			cp := *g
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeGoalsRepo) DeleteByUser(ctx context.Context, userID string) error {
	kept := f.items[:0]
	for _, g := range f.items {
		if g.UserID != userID {
			kept = append(kept, g)
		}
	}
	f.items = kept
	return nil
}

// --- tenancy ---

type fakeTenancyRepo struct {
	profiles   map[string]*models.TenantProfile // by user id
	landlords  map[string]*models.LandlordProfile
	properties map[string]*models.Property
	leases     []*models.Lease
}

func newFakeTenancyRepo() *fakeTenancyRepo {
	return &fakeTenancyRepo{
		profiles:   map[string]*models.TenantProfile{},
		landlords:  map[string]*models.LandlordProfile{},
		properties: map[string]*models.Property{},
	}
}

func (f *fakeTenancyRepo) TenantProfile(ctx context.Context, userID string) (*models.TenantProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTenancyRepo) UpsertTenantProfile(ctx context.Context, p *models.TenantProfile) error {
	if existing, ok := f.profiles[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = nextID("tp")
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeTenancyRepo) UpsertLandlordProfile(ctx context.Context, p *models.LandlordProfile) error {
	if existing, ok := f.landlords[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = nextID("lp")
	}
	f.landlords[p.UserID] = p
	return nil
}

func (f *fakeTenancyRepo) UpsertProperty(ctx context.Context, p *models.Property) error {
	for _, existing := range f.properties {
		if existing.LandlordID == p.LandlordID && existing.Name == p.Name {
			p.ID = existing.ID
		}
	}
	if p.ID == "" {
		p.ID = nextID("p")
	}
	f.properties[p.ID] = p
	return nil
}

func (f *fakeTenancyRepo) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	if p, ok := f.properties[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTenancyRepo) CreateLease(ctx context.Context, l *models.Lease) error {
	for _, existing := range f.leases {
		if existing.TenantID == l.TenantID {
			existing.IsActive = false
		}
	}
	l.ID = nextID("l")
	l.IsActive = true
	f.leases = append(f.leases, l)
	return nil
}

func (f *fakeTenancyRepo) ActiveLease(ctx context.Context, tenantID string) (*models.Lease, error) {
	for _, l := range f.leases {
		if l.TenantID == tenantID && l.IsActive {
			cp := *l
			cp.Property = f.properties[l.PropertyID]
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- verifications ---

type fakeVerificationsRepo struct {
	items     []*models.Verification
	createErr error
}

func (f *fakeVerificationsRepo) Create(ctx context.Context, v *models.Verification) error {
	if f.createErr != nil {
		return f.createErr
	}
	v.ID = nextID("v")
	v.CreatedAt = time.Now().Add(time.Duration(len(f.items)) * time.Millisecond)
	f.items = append(f.items, v)
	return nil
}

func (f *fakeVerificationsRepo) Latest(ctx context.Context, userID string, kind models.VerificationKind) (*models.Verification, error) {
	for i := len(f.items) - 1; i >= 0; i-- {
		v := f.items[i]
		if v.UserID == userID && v.Kind == kind {
			return v, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- documents ---

type fakeDocumentsRepo struct {
	items []*models.Document
}

func (f *fakeDocumentsRepo) Create(ctx context.Context, d *models.Document) error {
	d.ID = nextID("d")
	d.CreatedAt = time.Now()
	f.items = append(f.items, d)
	return nil
}

func (f *fakeDocumentsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.items {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentsRepo) GetForUser(ctx context.Context, userID, id string) (*models.Document, error) {
	for _, d := range f.items {
		if d.ID == id && d.UserID == userID {
			return d, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	a  *fakeAccountsRepo
	t  *fakeTransactionsRepo
	g  *fakeGoalsRepo
	tn *fakeTenancyRepo
	v  *fakeVerificationsRepo
	d  *fakeDocumentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  newFakeUsersRepo(),
		r:  newFakeRefreshRepo(),
		a:  &fakeAccountsRepo{},
		t:  &fakeTransactionsRepo{},
		g:  &fakeGoalsRepo{},
		tn: newFakeTenancyRepo(),
		v:  &fakeVerificationsRepo{},
		d:  &fakeDocumentsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) RollbackMigration(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) MigrationStatus(context.Context, *sql.DB) error   { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository           { return m.a }
func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactions.Repository   { return m.t }
func (m *fakeRepoManager) Goals(db dbx.DBTX) goals.Repository                 { return m.g }
func (m *fakeRepoManager) Tenancy(db dbx.DBTX) tenancy.Repository             { return m.tn }
func (m *fakeRepoManager) Verifications(db dbx.DBTX) verifications.Repository { return m.v }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documents.Repository         { return m.d }
