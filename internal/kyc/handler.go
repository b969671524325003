package kyc

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexrent/flexrent/internal/logging"
)

type verifyRequest struct {
	BVN string `json:"bvn"`
}

// VerifyResponse is the success body of POST /kyc/verify-bvn.
type VerifyResponse struct {
	Message string   `json:"message"`
	Details *Details `json:"details"`
}

// ErrorResponse is the failure body of POST /kyc/verify-bvn.
type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Server exposes a Provider over HTTP.
type Server struct {
	provider      Provider
	log           logging.Logger
	allowedOrigin string
	router        *gin.Engine
}

func NewServer(provider Provider, log logging.Logger, allowedOrigin string) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		provider:      provider,
		log:           log.With("module", "kyc-http"),
		allowedOrigin: allowedOrigin,
		router:        router,
	}

	router.Use(s.cors)
	router.POST("/kyc/verify-bvn", s.handleVerifyBVN)

	return s
}

// Handler returns the http.Handler serving the provider.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) cors(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin != "" && origin == s.allowedOrigin {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
	}
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func (s *Server) handleVerifyBVN(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: "invalid request body"})
		return
	}

	details, err := s.provider.VerifyBVN(c.Request.Context(), req.BVN)
	if err != nil {
		if errors.Is(err, ErrBVNNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Status: false, Message: MessageBVNNotFound})
			return
		}
		s.log.Error(c.Request.Context(), "bvn lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Status: false, Message: "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{Message: "KYC Check Complete", Details: details})
}
