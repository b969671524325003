package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/server/auth"
	"github.com/flexrent/flexrent/internal/server/models"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

func (s *HTTPServer) requestLogger(c *gin.Context) {
	start := s.now()
	c.Next()

	s.logger.Info(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", s.now().Sub(start).String(),
	)
}

// authRequired checks the bearer access token and stores the caller's id
// and role in the gin context.
func (s *HTTPServer) authRequired(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "missing token"})
		return
	}

	claims, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerPrefix), s.jwtSecret)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, common.ErrTokenExpired) {
			msg = "token expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: msg})
		return
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	c.Next()
}

func (s *HTTPServer) adminOnly(c *gin.Context) {
	if role, _ := c.Get(ctxRole); role != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "forbidden"})
		return
	}
	c.Next()
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
