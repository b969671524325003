package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient implements Client against the REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// errorBody covers both error shapes the API emits.
type errorBody struct {
	Error            string `json:"error"`
	Message          string `json:"message"`
	PasswordRequired bool   `json:"passwordRequired"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, token, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case eb.PasswordRequired:
		return ErrPasswordRequired
	default:
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, contentType, body, out)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", "", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	in := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var s Session
	in := map[string]string{"refreshToken": refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", "", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	in := map[string]string{"refreshToken": refreshToken}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", "", in, nil)
}

func (c *HTTPClient) Overview(ctx context.Context, token string) (*Overview, error) {
	var o Overview
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/overview", token, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *HTTPClient) Wallet(ctx context.Context, token string) (*Wallet, error) {
	var w Wallet
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/wallet", token, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (q HistoryQuery) encode() string {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("dateRange", q.DateRange)
	set("accountId", q.AccountID)
	set("type", q.Type)
	set("category", q.Category)
	set("q", q.Search)
	if q.AllScopes {
		v.Set("scope", "all")
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *HTTPClient) History(ctx context.Context, token string, q HistoryQuery) ([]Transaction, error) {
	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/transactions"+q.encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (c *HTTPClient) Goals(ctx context.Context, token string) ([]Goal, error) {
	var out struct {
		Goals []Goal `json:"goals"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/goals", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

func (c *HTTPClient) VerificationStatus(ctx context.Context, token string) (*WizardStatus, error) {
	var s WizardStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/verify/status", token, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) VerifyIdentity(ctx context.Context, token, bvn string) (*IdentityResult, error) {
	var r IdentityResult
	in := map[string]string{"bvn": bvn}
	if err := c.doJSON(ctx, http.MethodPost, "/api/dashboard/verify/identity", token, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) AnalyzeStatement(ctx context.Context, token, fileName string, pdf []byte, password string) (*IncomeResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(pdf); err != nil {
		return nil, err
	}
	if password != "" {
		if err := mw.WriteField("password", password); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var r IncomeResult
	err = c.do(ctx, http.MethodPost, "/api/dashboard/verify/income", token, mw.FormDataContentType(), &buf, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// IsUnavailable reports whether err means the API could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
