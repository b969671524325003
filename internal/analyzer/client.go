// Package analyzer is a client for the external bank-statement analyzer,
// which extracts income figures from a PDF statement.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const successMessage = "Analysis successful"

var (
	// ErrPasswordRequired is returned for encrypted statements submitted
	// without (or with a wrong) password.
	ErrPasswordRequired = errors.New("statement is password protected")
	ErrUnavailable      = errors.New("statement analyzer unavailable")
)

// AnalysisError is a failure reported by the analyzer itself.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string { return "analysis failed: " + e.Message }

// Verdict is the analyzer's result for one statement.
type Verdict struct {
	FileName          string
	TotalIncome       decimal.Decimal
	SalaryEstimate    decimal.Decimal
	IsCreditworthy    bool
	TransactionCount  int
	SummaryValidation string
}

// SummaryMatched reports whether the statement's own totals agreed with the
// parsed rows.
func (v *Verdict) SummaryMatched() bool {
	return strings.Contains(v.SummaryValidation, "Match")
}

type response struct {
	Status            string          `json:"status"`
	Message           string          `json:"message"`
	Error             string          `json:"error"`
	FileName          string          `json:"filename"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	SalaryEstimate    decimal.Decimal `json:"salary_estimate"`
	IsCreditworthy    bool            `json:"is_creditworthy"`
	TransactionCount  int             `json:"transaction_count"`
	SummaryValidation string          `json:"summary_validation"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analyze uploads the PDF as multipart form field "file", adding
// "password" when non-empty.
func (c *Client) Analyze(ctx context.Context, fileName string, pdf []byte, password string) (*Verdict, error) {
	body, contentType, err := encodeForm(fileName, pdf, password)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	switch {
	case out.Status == "password_required":
		return nil, ErrPasswordRequired
	case out.Status == "error":
		return nil, &AnalysisError{Message: out.Error}
	case resp.StatusCode != http.StatusOK:
		// framework-level rejections, e.g. {"detail": "File must be a PDF"}
		return nil, &AnalysisError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
	case out.Message != successMessage:
		return nil, &AnalysisError{Message: "unexpected response"}
	}

	return &Verdict{
		FileName:          out.FileName,
		TotalIncome:       out.TotalIncome,
		SalaryEstimate:    out.SalaryEstimate,
		IsCreditworthy:    out.IsCreditworthy,
		TransactionCount:  out.TransactionCount,
		SummaryValidation: out.SummaryValidation,
	}, nil
}

func encodeForm(fileName string, pdf []byte, password string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, "", err
	}

	if password != "" {
		if err := w.WriteField("password", password); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
