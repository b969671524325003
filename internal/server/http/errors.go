package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flexrent/flexrent/internal/analyzer"
	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/kyc"
)

// User-facing messages for failures of the external collaborators.
const (
	MsgIdentityUnavailable = "Identity verification is currently unavailable. Please try again later."
	MsgAnalysisFailed      = "We could not analyse this statement. Please upload a valid bank statement."
	MsgAnalyzerUnavailable = "Statement analysis is currently unavailable. Please try again later."
	MsgPasswordRequired    = "This statement is password protected. Please provide the password."
)

type errorBody struct {
	Error            string `json:"error"`
	PasswordRequired bool   `json:"passwordRequired,omitempty"`
}

// writeError maps service errors to a status code and a JSON body.
// Unknown errors are logged and reported as 500 without detail.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	var analysisErr *analyzer.AnalysisError

	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, errorBody{Error: validationMessage(err)})
	case errors.Is(err, common.ErrorNotFound), dbx.IsInvalidTextRepresentation(err):
		c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrGoalCompleted),
		errors.Is(err, common.ErrIdentityNotVerified):
		c.JSON(http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, kyc.ErrBVNNotFound):
		c.JSON(http.StatusBadRequest, errorBody{Error: kyc.MessageBVNNotFound})
	case errors.Is(err, kyc.ErrUnavailable):
		s.logger.Warn(c.Request.Context(), "identity provider unavailable", "error", err)
		c.JSON(http.StatusBadGateway, errorBody{Error: MsgIdentityUnavailable})
	case errors.Is(err, analyzer.ErrPasswordRequired):
		c.JSON(http.StatusUnprocessableEntity, errorBody{Error: MsgPasswordRequired, PasswordRequired: true})
	case errors.As(err, &analysisErr):
		c.JSON(http.StatusUnprocessableEntity, errorBody{Error: MsgAnalysisFailed})
	case errors.Is(err, analyzer.ErrUnavailable):
		s.logger.Warn(c.Request.Context(), "analyzer unavailable", "error", err)
		c.JSON(http.StatusBadGateway, errorBody{Error: MsgAnalyzerUnavailable})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: common.ErrorInternal.Error()})
	}
}

// validationMessage drops the sentinel prefix from wrapped validation errors.
func validationMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, common.ErrorValidation.Error()+": "); ok {
		return rest
	}
	return msg
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
