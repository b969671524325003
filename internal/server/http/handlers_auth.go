package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/server/services"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoggedIn           = "Logged in"
	MsgLoggedOut          = "Logged out"
	MsgSessionExpired     = "Session expired, please log in again"
)

type authResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	UserID       string `json:"userId,omitempty"`
	Role         string `json:"role,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func sessionResponse(sess *services.Session, msg string) authResponse {
	return authResponse{
		Success:      true,
		Message:      msg,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		UserID:       sess.UserID,
		Role:         string(sess.Role),
	}
}

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, services.ActionResult{Success: false, Message: services.MsgInvalidFields})
		return
	}

	res := s.svc.Users.Register(c.Request.Context(), req)

	status := http.StatusCreated
	switch {
	case res.Success:
	case res.Message == services.MsgInvalidFields:
		status = http.StatusBadRequest
	case res.Message == services.MsgEmailInUse:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, authResponse{Message: MsgInvalidCredentials})
		return
	}

	sess, err := s.svc.Users.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, authResponse{Message: MsgInvalidCredentials})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, authResponse{Message: common.ErrorInternal.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(sess, MsgLoggedIn))
}

func (s *HTTPServer) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Message: "refreshToken is required"})
		return
	}

	sess, err := s.svc.Users.RefreshToken(c.Request.Context(), req.RefreshToken)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, sessionResponse(sess, MsgLoggedIn))
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, authResponse{Message: MsgSessionExpired})
	default:
		s.logger.Error(c.Request.Context(), "refresh failed", "error", err)
		c.JSON(http.StatusInternalServerError, authResponse{Message: common.ErrorInternal.Error()})
	}
}

func (s *HTTPServer) handleLogout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Message: "refreshToken is required"})
		return
	}

	if err := s.svc.Users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		s.logger.Error(c.Request.Context(), "logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, authResponse{Message: common.ErrorInternal.Error()})
		return
	}
	c.JSON(http.StatusOK, authResponse{Success: true, Message: MsgLoggedOut})
}
