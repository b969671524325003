package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flexrent/flexrent/internal/money"
	"github.com/flexrent/flexrent/internal/server/services"
)

func (s *HTTPServer) handleListUsers(c *gin.Context) {
	us, err := s.svc.Users.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]userJSON, 0, len(us))
	for _, u := range us {
		out = append(out, presentUser(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

type createLeaseRequest struct {
	TenantUserID string    `json:"tenantUserId" binding:"required"`
	PropertyID   string    `json:"propertyId" binding:"required"`
	StartDate    time.Time `json:"startDate" binding:"required"`
	EndDate      time.Time `json:"endDate" binding:"required"`
	MonthlyRent  float64   `json:"monthlyRent" binding:"required"`
}

func (s *HTTPServer) handleCreateLease(c *gin.Context) {
	var req createLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid lease")
		return
	}

	l, err := s.svc.Tenancy.CreateLease(c.Request.Context(), services.NewLease{
		TenantUserID: req.TenantUserID,
		PropertyID:   req.PropertyID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MonthlyRent:  money.FromFloat(req.MonthlyRent),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presentLease(l))
}
