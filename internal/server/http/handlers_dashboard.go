package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/money"
	"github.com/flexrent/flexrent/internal/server/services"
)

func (s *HTTPServer) handleOverview(c *gin.Context) {
	o, err := s.svc.Users.Overview(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentOverview(o))
}

func (s *HTTPServer) handleWallet(c *gin.Context) {
	w, err := s.svc.Wallet.Summary(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentWallet(w))
}

// filtersFromQuery reads the history filters. The history page lists
// housing transactions unless scope=all.
func filtersFromQuery(c *gin.Context) services.Filters {
	return services.Filters{
		DateRange:   c.Query("dateRange"),
		AccountID:   c.Query("accountId"),
		Type:        c.Query("type"),
		Category:    c.Query("category"),
		SearchQuery: c.Query("q"),
		HousingOnly: c.Query("scope") != "all",
	}
}

func (s *HTTPServer) handleTransactions(c *gin.Context) {
	txs, err := s.svc.Transactions.History(c.Request.Context(), userID(c), filtersFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": presentTransactions(txs)})
}

func (s *HTTPServer) handleCashflow(c *gin.Context) {
	cf, err := s.svc.Transactions.Cashflow(c.Request.Context(), userID(c), filtersFromQuery(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentCashflow(cf))
}

type updateCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

func (s *HTTPServer) handleUpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "category is required")
		return
	}

	if err := s.svc.Transactions.UpdateCategory(c.Request.Context(), userID(c), c.Param("id"), req.Category); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "category": req.Category})
}

type createTransactionRequest struct {
	AccountID   string     `json:"accountId" binding:"required"`
	Date        *time.Time `json:"date"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	Category    string     `json:"category" binding:"required"`
}

func (s *HTTPServer) handleCreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid transaction")
		return
	}

	in := services.NewTransaction{
		AccountID:   req.AccountID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      money.FromFloat(req.Amount),
		Type:        req.Type,
		Category:    req.Category,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	tx, err := s.svc.Transactions.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presentTransaction(tx))
}

func (s *HTTPServer) handleGoals(c *gin.Context) {
	gs, err := s.svc.Goals.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]goalJSON, 0, len(gs))
	for _, g := range gs {
		out = append(out, presentGoal(g.Goal))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

type createGoalRequest struct {
	Title              string   `json:"title" binding:"required"`
	Icon               string   `json:"icon"`
	Type               string   `json:"type" binding:"required"`
	TargetAmount       float64  `json:"targetAmount"`
	ContributionAmount *float64 `json:"contributionAmount"`
}

func (s *HTTPServer) handleCreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid goal")
		return
	}

	in := services.NewGoal{
		Title:        req.Title,
		Icon:         req.Icon,
		Type:         req.Type,
		TargetAmount: money.FromFloat(req.TargetAmount),
	}
	if req.ContributionAmount != nil {
		v := money.FromFloat(*req.ContributionAmount)
		in.ContributionAmount = &v
	}

	g, err := s.svc.Goals.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presentGoal(g))
}

type contributeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (s *HTTPServer) handleContribute(c *gin.Context) {
	var req contributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount must be positive")
		return
	}

	g, err := s.svc.Goals.Contribute(c.Request.Context(), userID(c), c.Param("id"), money.FromFloat(req.Amount))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentGoal(g.Goal))
}

func (s *HTTPServer) handleLease(c *gin.Context) {
	v, err := s.svc.Tenancy.Lease(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaseViewJSON{
		TenantProfile: presentTenantProfile(v.Profile),
		Lease:         presentLease(v.Lease),
	})
}

func (s *HTTPServer) handleVerifyStatus(c *gin.Context) {
	st, err := s.svc.Verification.Status(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizardStatusJSON{
		Step:     st.Step,
		Identity: presentVerification(st.Identity),
		Income:   presentVerification(st.Income),
	})
}

type verifyIdentityRequest struct {
	BVN string `json:"bvn" binding:"required"`
}

func (s *HTTPServer) handleVerifyIdentity(c *gin.Context) {
	var req verifyIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bvn is required")
		return
	}

	res, err := s.svc.Verification.VerifyIdentity(c.Request.Context(), userID(c), req.BVN)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(res.Status), "details": res.Details})
}

func (s *HTTPServer) handleVerifyIncome(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fh.Size > common.StatementMaxSize {
		s.writeError(c, services.ErrStatementTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, common.StatementMaxSize+1))
	if err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.svc.Verification.AnalyzeStatement(c.Request.Context(), userID(c), services.Statement{
		FileName: fh.Filename,
		Data:     data,
		Password: c.PostForm("password"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, incomeResultJSON{
		Status:           string(res.Status),
		Document:         presentDocument(res.Document),
		TransactionCount: res.Verdict.TransactionCount,
		SummaryMatched:   res.Verdict.SummaryMatched(),
	})
}

func (s *HTTPServer) handleDocuments(c *gin.Context) {
	docs, err := s.svc.Documents.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]documentJSON, 0, len(docs))
	for _, d := range docs {
		out = append(out, presentDocument(d))
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

func (s *HTTPServer) handleDocumentURL(c *gin.Context) {
	url, err := s.svc.Documents.URL(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
