package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexrent/flexrent/internal/analyzer"
	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/kyc"
	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/auth"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/services"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func amt(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newTestServer(svc Services) *HTTPServer {
	return NewHTTPServer("127.0.0.1:0", logging.Nop(), svc, testSecret)
}

func bearer(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return common.BearerPrefix + tok
}

func do(t *testing.T, s *HTTPServer, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set(common.AuthorizationHeaderName, authz)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(Services{}), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name   string
		result services.ActionResult
		want   int
	}{
		{"created", services.ActionResult{Success: true, Message: services.MsgAccountCreated}, http.StatusCreated},
		{"email in use", services.ActionResult{Message: services.MsgEmailInUse}, http.StatusConflict},
		{"invalid", services.ActionResult{Message: services.MsgInvalidFields}, http.StatusBadRequest},
		{"db failure", services.ActionResult{Message: services.MsgCreateFailed}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got services.RegisterRequest
			s := newTestServer(Services{Users: &mockUsers{RegisterFunc: func(ctx context.Context, req services.RegisterRequest) services.ActionResult {
				got = req
				return tt.result
			}}})

			w := do(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
				"firstName": "Bryan", "lastName": "Somto", "email": "b@flexrent.ng", "password": "Password1", "agreeToTerms": true,
			})

			assert.Equal(t, tt.want, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.result.Success, body["success"])
			assert.Equal(t, tt.result.Message, body["message"])
			assert.Equal(t, "b@flexrent.ng", got.Email)
			assert.True(t, got.AgreeToTerms)
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	s := newTestServer(Services{Users: &mockUsers{}})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid fields"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	users := &mockUsers{LoginFunc: func(ctx context.Context, req services.LoginRequest) (*services.Session, error) {
		if req.Password != "Password1" {
			return nil, common.ErrorUnauthorized
		}
		return &services.Session{
			TokenPair: services.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
			UserID:    "u1",
			Role:      models.RoleAdmin,
		}, nil
	}}
	s := newTestServer(Services{Users: users})

	w := do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.ng", "password": "Password1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logged in","accessToken":"acc","refreshToken":"ref","userId":"u1","role":"ADMIN"}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.ng", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, w.Body.String())

	users.LoginFunc = func(ctx context.Context, req services.LoginRequest) (*services.Session, error) {
		return nil, io.ErrUnexpectedEOF
	}
	w = do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.ng", "password": "Password1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	users := &mockUsers{RefreshFunc: func(ctx context.Context, token string) (*services.Session, error) {
		switch token {
		case "good":
			return &services.Session{TokenPair: services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, UserID: "u1", Role: models.RoleUser}, nil
		case "old":
			return nil, common.ErrRefreshTokenExpired
		default:
			return nil, common.ErrorUnauthorized
		}
	}}
	s := newTestServer(Services{Users: users})

	w := do(t, s, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": "good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r2", decode(t, w)["refreshToken"])

	for _, tok := range []string{"old", "unknown"} {
		w = do(t, s, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": tok})
		assert.Equal(t, http.StatusUnauthorized, w.Code, tok)
	}

	w = do(t, s, http.MethodPost, "/api/auth/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var revoked string
	users.LogoutFunc = func(ctx context.Context, token string) error { revoked = token; return nil }
	w = do(t, s, http.MethodPost, "/api/auth/logout", "", map[string]string{"refreshToken": "r2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r2", revoked)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(Services{Wallet: &mockWallet{SummaryFunc: func(ctx context.Context, userID string) (*services.WalletSummary, error) {
		return &services.WalletSummary{}, nil
	}}})

	w := do(t, s, http.MethodGet, "/api/dashboard/wallet", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"missing token"}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/dashboard/wallet", "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())

	expired, err := auth.GenerateToken("u1", models.RoleUser, []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	w = do(t, s, http.MethodGet, "/api/dashboard/wallet", common.BearerPrefix+expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"token expired"}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/dashboard/wallet", bearer(t, "u1", models.RoleUser), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnly(t *testing.T) {
	s := newTestServer(Services{Users: &mockUsers{ListFunc: func(ctx context.Context) ([]*models.User, error) {
		return []*models.User{{ID: "u1", FirstName: "Ada", LastName: "Obi", Email: "ada@flexrent.ng", Role: models.RoleAdmin}}, nil
	}}})

	w := do(t, s, http.MethodGet, "/api/admin/users", bearer(t, "u2", models.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodGet, "/api/admin/users", bearer(t, "u1", models.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "ada@flexrent.ng", users[0].(map[string]any)["email"])
}

func TestOverviewAndWallet(t *testing.T) {
	bal := amt("4000000")
	s := newTestServer(Services{
		Users: &mockUsers{OverviewFunc: func(ctx context.Context, userID string) (*services.Overview, error) {
			require.Equal(t, "u1", userID)
			return &services.Overview{
				User:          &models.User{ID: "u1", FirstName: "Bryan", LastName: "Somto"},
				FullName:      "Bryan Somto",
				TenantProfile: &models.TenantProfile{ID: "tp1", CurrentRent: amt("1500000"), RentStatus: models.RentStatusActive},
				Accounts: []*models.Account{
					{ID: "a1", Bank: "Credit Limit", AccountNumber: "FLEX-ID-001", Balance: bal, IsCreditLine: true},
					{ID: "a2", Bank: "GTBank", AccountNumber: "2074606070", Balance: amt("850400")},
				},
				RecentTransactions: []*models.Transaction{{ID: "t1", Amount: amt("-1500000.00"), Type: models.TransactionExpense, Category: models.CategoryRentPayment}},
				Goals:              []*models.Goal{{ID: "g1", Title: "Rent", CurrentAmount: amt("50"), TargetAmount: amt("200"), Type: models.GoalSaving}},
			}, nil
		}},
		Wallet: &mockWallet{SummaryFunc: func(ctx context.Context, userID string) (*services.WalletSummary, error) {
			return &services.WalletSummary{
				Accounts:   []services.AccountView{{ID: "a1", MaskedNumber: "•••• -001", Balance: &bal, IsCreditLine: true}},
				RentPower:  bal,
				CashOnHand: decimal.Zero,
				TargetRent: amt("1500000"),
				Coverage:   amt("100"),
			}, nil
		}},
	})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodGet, "/api/dashboard/overview", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Bryan Somto", body["fullName"])
	assert.Equal(t, 1500000.0, body["tenantProfile"].(map[string]any)["currentRent"])
	accs := body["accounts"].([]any)
	assert.Equal(t, 4000000.0, accs[0].(map[string]any)["balance"])
	assert.Nil(t, accs[1].(map[string]any)["balance"])
	assert.Equal(t, "•••• 6070", accs[1].(map[string]any)["accountNumber"])
	assert.Equal(t, -1500000.0, body["transactions"].([]any)[0].(map[string]any)["amount"])
	assert.Equal(t, 25.0, body["goals"].([]any)[0].(map[string]any)["progress"])

	w = do(t, s, http.MethodGet, "/api/dashboard/wallet", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, 4000000.0, body["rentPower"])
	assert.Equal(t, 100.0, body["coverage"])
}

func TestTransactions(t *testing.T) {
	var gotFilters services.Filters
	txs := &mockTransactions{
		HistoryFunc: func(ctx context.Context, userID string, f services.Filters) ([]*models.Transaction, error) {
			gotFilters = f
			if f.DateRange == "Forever" {
				return nil, common.ErrorValidation
			}
			return []*models.Transaction{{ID: "t1", Amount: amt("-25000"), Category: models.CategoryRentPayment, Type: models.TransactionExpense}}, nil
		},
		CashflowFunc: func(ctx context.Context, userID string, f services.Filters) (services.Cashflow, error) {
			return services.Cashflow{NetIncome: amt("850000"), HousingCost: amt("1575000"), Disposable: amt("-725000")}, nil
		},
	}
	s := newTestServer(Services{Transactions: txs})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodGet, "/api/dashboard/transactions?category=RENT_PAYMENT&dateRange=This+Month&q=rent", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.Filters{DateRange: "This Month", Category: "RENT_PAYMENT", SearchQuery: "rent", HousingOnly: true}, gotFilters)
	assert.Len(t, decode(t, w)["transactions"], 1)

	w = do(t, s, http.MethodGet, "/api/dashboard/transactions?scope=all", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gotFilters.HousingOnly)

	w = do(t, s, http.MethodGet, "/api/dashboard/transactions?dateRange=Forever", authz, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/dashboard/transactions/cashflow", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"netIncome":850000,"housingCost":1575000,"disposable":-725000}`, w.Body.String())
}

func TestUpdateCategoryAndCreateTransaction(t *testing.T) {
	var created services.NewTransaction
	txs := &mockTransactions{
		UpdateFunc: func(ctx context.Context, userID, txID, category string) error {
			if txID == "missing" {
				return common.ErrorNotFound
			}
			return nil
		},
		CreateFunc: func(ctx context.Context, userID string, in services.NewTransaction) (*models.Transaction, error) {
			created = in
			return &models.Transaction{ID: "t9", AccountID: in.AccountID, Name: in.Name, Amount: in.Amount.Neg(), Type: models.TransactionExpense, Category: models.CategoryUtilities}, nil
		},
	}
	s := newTestServer(Services{Transactions: txs})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodPatch, "/api/dashboard/transactions/t1/category", authz, map[string]string{"category": "UTILITIES"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"t1","category":"UTILITIES"}`, w.Body.String())

	w = do(t, s, http.MethodPatch, "/api/dashboard/transactions/missing/category", authz, map[string]string{"category": "UTILITIES"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/api/dashboard/transactions", authz, map[string]any{
		"accountId": "a1", "name": "Water", "amount": 15000.5, "type": "EXPENSE", "category": "UTILITIES",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, created.Amount.Equal(amt("15000.5")))
	assert.True(t, created.Date.IsZero())
	assert.Equal(t, -15000.5, decode(t, w)["amount"])

	w = do(t, s, http.MethodPost, "/api/dashboard/transactions", authz, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoals(t *testing.T) {
	goal := &models.Goal{ID: "g1", Title: "Laptop", Type: models.GoalSaving, CurrentAmount: amt("100"), TargetAmount: amt("100"), Completed: true}
	var gotAmount decimal.Decimal
	goals := &mockGoals{
		ListFunc: func(ctx context.Context, userID string) ([]services.GoalView, error) {
			return []services.GoalView{{Goal: goal, Progress: amt("100")}}, nil
		},
		CreateFunc: func(ctx context.Context, userID string, in services.NewGoal) (*models.Goal, error) {
			require.NotNil(t, in.ContributionAmount)
			assert.True(t, in.ContributionAmount.Equal(amt("2500")))
			return &models.Goal{ID: "g2", Title: in.Title, Type: models.GoalType(in.Type), ContributionAmount: decimal.NewNullDecimal(*in.ContributionAmount)}, nil
		},
		ContributeFunc: func(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*services.GoalView, error) {
			gotAmount = amount
			if goalID == "g1" {
				return nil, common.ErrGoalCompleted
			}
			return &services.GoalView{Goal: &models.Goal{ID: goalID, CurrentAmount: amount, TargetAmount: amt("1000")}}, nil
		},
	}
	s := newTestServer(Services{Goals: goals})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodGet, "/api/dashboard/goals", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	g := decode(t, w)["goals"].([]any)[0].(map[string]any)
	assert.Equal(t, true, g["completed"])
	assert.Equal(t, 100.0, g["progress"])

	w = do(t, s, http.MethodPost, "/api/dashboard/goals", authz, map[string]any{"title": "Pension", "type": "CONTRIBUTION", "contributionAmount": 2500})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2500.0, decode(t, w)["contributionAmount"])

	w = do(t, s, http.MethodPost, "/api/dashboard/goals/g2/contributions", authz, map[string]any{"amount": 250})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotAmount.Equal(amt("250")))
	assert.Equal(t, 25.0, decode(t, w)["progress"])

	w = do(t, s, http.MethodPost, "/api/dashboard/goals/g1/contributions", authz, map[string]any{"amount": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodPost, "/api/dashboard/goals/g2/contributions", authz, map[string]any{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaseEndpoints(t *testing.T) {
	var gotLease services.NewLease
	tenancy := &mockTenancy{
		LeaseFunc: func(ctx context.Context, userID string) (*services.LeaseView, error) {
			if userID != "u1" {
				return nil, common.ErrorNotFound
			}
			property := &models.Property{ID: "p1", Name: "Lekki Gardens", Address: "Lekki"}
			return &services.LeaseView{
				Profile: &models.TenantProfile{ID: "tp1", CurrentRent: amt("1500000"), RentStatus: models.RentStatusActive},
				Lease:   &models.Lease{ID: "l1", MonthlyRent: amt("125000"), IsActive: true, Property: property},
			}, nil
		},
		CreateLeaseFunc: func(ctx context.Context, in services.NewLease) (*models.Lease, error) {
			gotLease = in
			return &models.Lease{ID: "l2", MonthlyRent: in.MonthlyRent, IsActive: true}, nil
		},
	}
	s := newTestServer(Services{Tenancy: tenancy})

	w := do(t, s, http.MethodGet, "/api/dashboard/lease", bearer(t, "u1", models.RoleUser), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	lease := body["lease"].(map[string]any)
	assert.Equal(t, 125000.0, lease["monthlyRent"])
	assert.Equal(t, "Lekki Gardens", lease["property"].(map[string]any)["name"])

	w = do(t, s, http.MethodGet, "/api/dashboard/lease", bearer(t, "u9", models.RoleUser), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := map[string]any{
		"tenantUserId": "u1", "propertyId": "p1",
		"startDate": "2025-01-01T00:00:00Z", "endDate": "2025-12-31T00:00:00Z", "monthlyRent": 125000,
	}
	w = do(t, s, http.MethodPost, "/api/admin/leases", bearer(t, "u1", models.RoleUser), req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, "/api/admin/leases", bearer(t, "admin", models.RoleAdmin), req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u1", gotLease.TenantUserID)
	assert.True(t, gotLease.MonthlyRent.Equal(amt("125000")))
}

func TestVerifyIdentity(t *testing.T) {
	ver := &mockVerification{IdentityFunc: func(ctx context.Context, userID, bvn string) (*services.IdentityResult, error) {
		switch bvn {
		case kyc.BVNMatching:
			return &services.IdentityResult{Status: models.VerificationVerified, Details: &kyc.Details{FirstName: "BRYAN", LastName: "SOMTO"}}, nil
		case "123":
			return nil, services.ErrInvalidBVN
		case "22222222222":
			return nil, kyc.ErrUnavailable
		default:
			return nil, &kyc.NotFoundError{Message: "BVN not found"}
		}
	}}
	s := newTestServer(Services{Verification: ver})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodPost, "/api/dashboard/verify/identity", authz, map[string]string{"bvn": kyc.BVNMatching})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "VERIFIED", body["status"])
	assert.Equal(t, "BRYAN", body["details"].(map[string]any)["firstName"])

	w = do(t, s, http.MethodPost, "/api/dashboard/verify/identity", authz, map[string]string{"bvn": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"BVN must be 11 digits"}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/api/dashboard/verify/identity", authz, map[string]string{"bvn": "11111111111"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"BVN not found"}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/api/dashboard/verify/identity", authz, map[string]string{"bvn": "22222222222"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, MsgIdentityUnavailable, decode(t, w)["error"])
}

func multipartStatement(t *testing.T, name string, data []byte, password string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	if password != "" {
		require.NoError(t, mw.WriteField("password", password))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postStatement(t *testing.T, s *HTTPServer, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/verify/income", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(common.AuthorizationHeaderName, bearer(t, "u1", models.RoleUser))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestVerifyIncome(t *testing.T) {
	var got services.Statement
	ver := &mockVerification{AnalyzeFunc: func(ctx context.Context, userID string, st services.Statement) (*services.IncomeResult, error) {
		got = st
		switch st.Password {
		case "locked":
			return nil, analyzer.ErrPasswordRequired
		case "broken":
			return nil, &analyzer.AnalysisError{Message: "no text layer"}
		case "down":
			return nil, analyzer.ErrUnavailable
		case "early":
			return nil, common.ErrIdentityNotVerified
		}
		return &services.IncomeResult{
			Status:   models.VerificationVerified,
			Document: &models.Document{ID: "d1", FileName: st.FileName, TotalIncome: amt("2550000"), IsCreditworthy: true, SummaryValidation: "Match"},
			Verdict:  &analyzer.Verdict{TransactionCount: 42, SummaryValidation: "Match"},
		}, nil
	}}
	s := newTestServer(Services{Verification: ver})
	pdf := []byte("%PDF-1.7 statement")

	body, ct := multipartStatement(t, "march.pdf", pdf, "")
	w := postStatement(t, s, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pdf, got.Data)
	assert.Equal(t, "march.pdf", got.FileName)
	res := decode(t, w)
	assert.Equal(t, "VERIFIED", res["status"])
	assert.Equal(t, true, res["summaryMatched"])
	assert.Equal(t, 2550000.0, res["document"].(map[string]any)["totalIncome"])

	body, ct = multipartStatement(t, "march.pdf", pdf, "locked")
	w = postStatement(t, s, body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, true, decode(t, w)["passwordRequired"])

	body, ct = multipartStatement(t, "march.pdf", pdf, "broken")
	w = postStatement(t, s, body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, MsgAnalysisFailed, decode(t, w)["error"])

	body, ct = multipartStatement(t, "march.pdf", pdf, "down")
	w = postStatement(t, s, body, ct)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	body, ct = multipartStatement(t, "march.pdf", pdf, "early")
	w = postStatement(t, s, body, ct)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVerifyIncome_RejectsBeforeService(t *testing.T) {
	called := false
	ver := &mockVerification{AnalyzeFunc: func(ctx context.Context, userID string, st services.Statement) (*services.IncomeResult, error) {
		called = true
		return nil, nil
	}}
	s := newTestServer(Services{Verification: ver})

	body, ct := multipartStatement(t, "big.pdf", make([]byte, common.StatementMaxSize+1), "")
	w := postStatement(t, s, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"statement exceeds 2 MB"}`, w.Body.String())

	w = postStatement(t, s, bytes.NewBufferString("not multipart"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestVerifyStatusAndDocuments(t *testing.T) {
	s := newTestServer(Services{
		Verification: &mockVerification{StatusFunc: func(ctx context.Context, userID string) (*services.WizardStatus, error) {
			return &services.WizardStatus{Step: services.StepIncome, Identity: &models.Verification{Status: models.VerificationVerified, Reference: "*******8901"}}, nil
		}},
		Documents: &mockDocuments{
			ListFunc: func(ctx context.Context, userID string) ([]*models.Document, error) {
				return []*models.Document{{ID: "d1", FileName: "march.pdf", SalaryEstimate: amt("850000")}}, nil
			},
			URLFunc: func(ctx context.Context, userID, documentID string) (string, error) {
				if documentID != "d1" {
					return "", common.ErrorNotFound
				}
				return "https://s3.local/x?sig", nil
			},
		},
	})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodGet, "/api/dashboard/verify/status", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "income", body["step"])
	assert.Nil(t, body["income"])
	assert.Equal(t, "VERIFIED", body["identity"].(map[string]any)["status"])

	w = do(t, s, http.MethodGet, "/api/dashboard/documents", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode(t, w)["documents"].([]any)[0].(map[string]any)
	assert.Equal(t, 850000.0, doc["salaryEstimate"])

	w = do(t, s, http.MethodGet, "/api/dashboard/documents/d1/url", authz, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://s3.local/x?sig"}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/dashboard/documents/d2/url", authz, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteError_UnknownIsInternal(t *testing.T) {
	s := newTestServer(Services{Wallet: &mockWallet{SummaryFunc: func(ctx context.Context, userID string) (*services.WalletSummary, error) {
		return nil, io.ErrClosedPipe
	}}})

	w := do(t, s, http.MethodGet, "/api/dashboard/wallet", bearer(t, "u1", models.RoleUser), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestWriteError_MalformedIDIsNotFound(t *testing.T) {
	malformed := fmt.Errorf("db error: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})
	txs := &mockTransactions{
		UpdateFunc: func(ctx context.Context, userID, txID, category string) error {
			return malformed
		},
		CreateFunc: func(ctx context.Context, userID string, in services.NewTransaction) (*models.Transaction, error) {
			return nil, malformed
		},
	}
	s := newTestServer(Services{Transactions: txs})
	authz := bearer(t, "u1", models.RoleUser)

	w := do(t, s, http.MethodPatch, "/api/dashboard/transactions/abc/category", authz, map[string]string{"category": "RENT_PAYMENT"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/api/dashboard/transactions", authz, map[string]any{
		"accountId": "abc", "name": "Water", "amount": 100, "type": "EXPENSE", "category": "UTILITIES",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := newTestServer(Services{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
