package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acemate/acemate-cli/internal/client/models"
	"github.com/acemate/acemate-cli/internal/common"
	"github.com/acemate/acemate-cli/internal/logging"
)

// RESTClient talks HTTP/JSON to the AceMate backend.
type RESTClient struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	log            logging.Logger
	onUnauthorized func()
}

// NewRESTClient creates a backend client with connection pooling. The token
// source is consulted on every request so a token persisted by one part of
// the program is immediately visible to all others.
func NewRESTClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		tokens: tokens,
		log:    log,
	}
}

// SetOnUnauthorized registers the hook invoked whenever the backend answers
// 401. The transport never performs session teardown or navigation itself;
// the session store subscribes here.
func (c *RESTClient) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// errorBody is the FastAPI-style error envelope. Detail is usually a string
// but validation errors ship structured payloads; anything non-string is
// rendered as-is.
type errorBody struct {
	Detail any `json:"detail"`
}

func (c *RESTClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "token source failed, sending request unauthenticated", "error", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(ctx, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *RESTClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, "application/json", r, out)
}

// mapError converts a non-2xx response into an *Error wrapping the matching
// sentinel. A 401 additionally fires the unauthorized hook: this is the single
// place authentication expiry is handled for the whole program.
func (c *RESTClient) mapError(ctx context.Context, resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var detail string
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Detail != nil {
		if s, ok := eb.Detail.(string); ok {
			detail = s
		} else {
			detail = fmt.Sprintf("%v", eb.Detail)
		}
	}

	apiErr := &Error{Status: resp.StatusCode, Detail: detail}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.err = common.ErrUnauthorized
		if c.onUnauthorized != nil {
			c.log.Debug(ctx, "unauthorized response, notifying session", "path", resp.Request.URL.Path)
			c.onUnauthorized()
		}
	case resp.StatusCode == http.StatusForbidden:
		apiErr.err = common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		apiErr.err = common.ErrNotFound
	case resp.StatusCode >= 500:
		apiErr.err = common.ErrInternal
	}
	return apiErr
}

// Login exchanges credentials for a bearer token. The backend expects an
// OAuth2 password form, not JSON.
func (c *RESTClient) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), &tok)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &tok, nil
}

func (c *RESTClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", reg, &user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &user, nil
}

func (c *RESTClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &user, nil
}

func (c *RESTClient) CreatePayment(ctx context.Context, amount float64) (*models.Payment, error) {
	var p models.Payment
	body := map[string]float64{"amount": amount}
	if err := c.doJSON(ctx, http.MethodPost, "/payments/create", body, &p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return &p, nil
}

func (c *RESTClient) PaymentHistory(ctx context.Context) ([]models.Payment, error) {
	var list []models.Payment
	if err := c.doJSON(ctx, http.MethodGet, "/payments/history", nil, &list); err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	return list, nil
}

func (c *RESTClient) CreditBalance(ctx context.Context) (*models.CreditBalance, error) {
	var b models.CreditBalance
	if err := c.doJSON(ctx, http.MethodGet, "/credits/balance", nil, &b); err != nil {
		return nil, fmt.Errorf("credit balance: %w", err)
	}
	return &b, nil
}

func (c *RESTClient) AddCredits(ctx context.Context, amount int64) (*models.CreditEntry, error) {
	var e models.CreditEntry
	body := map[string]int64{"amount": amount}
	if err := c.doJSON(ctx, http.MethodPost, "/credits/add", body, &e); err != nil {
		return nil, fmt.Errorf("add credits: %w", err)
	}
	return &e, nil
}

func (c *RESTClient) DeductCredits(ctx context.Context, amount int64) (*models.CreditEntry, error) {
	var e models.CreditEntry
	body := map[string]int64{"amount": amount}
	if err := c.doJSON(ctx, http.MethodPost, "/credits/deduct", body, &e); err != nil {
		return nil, fmt.Errorf("deduct credits: %w", err)
	}
	return &e, nil
}

func (c *RESTClient) LogTranscription(ctx context.Context, text string) error {
	body := map[string]string{"transcript_text": text}
	if err := c.doJSON(ctx, http.MethodPost, "/transcriptions/", body, nil); err != nil {
		return fmt.Errorf("log transcription: %w", err)
	}
	return nil
}

func (c *RESTClient) LogAIResponse(ctx context.Context, query, response string, tokensUsed int64) error {
	body := map[string]any{
		"query":       query,
		"ai_response": response,
		"tokens_used": tokensUsed,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/responses/", body, nil); err != nil {
		return fmt.Errorf("log ai response: %w", err)
	}
	return nil
}

func (c *RESTClient) AdminDashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/admin/dashboard", nil, &stats); err != nil {
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}
	return &stats, nil
}

func (c *RESTClient) AdminUsers(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &list); err != nil {
		return nil, fmt.Errorf("admin users: %w", err)
	}
	return list, nil
}

func (c *RESTClient) AdminDeleteUser(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("/admin/users/%d", userID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (c *RESTClient) AdminGrantCredits(ctx context.Context, userID, amount int64) (*models.CreditAdjustment, error) {
	var adj models.CreditAdjustment
	path := fmt.Sprintf("/admin/users/%d/grant_credits?amount=%d", userID, amount)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &adj); err != nil {
		return nil, fmt.Errorf("grant credits: %w", err)
	}
	return &adj, nil
}

func (c *RESTClient) AdminDeductCredits(ctx context.Context, userID, amount int64) (*models.CreditAdjustment, error) {
	var adj models.CreditAdjustment
	path := fmt.Sprintf("/admin/users/%d/deduct_credits?amount=%d", userID, amount)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &adj); err != nil {
		return nil, fmt.Errorf("deduct credits: %w", err)
	}
	return &adj, nil
}

func (c *RESTClient) AdminPayments(ctx context.Context) ([]models.Payment, error) {
	var list []models.Payment
	if err := c.doJSON(ctx, http.MethodGet, "/admin/payments", nil, &list); err != nil {
		return nil, fmt.Errorf("admin payments: %w", err)
	}
	return list, nil
}

func (c *RESTClient) AdminUserPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	var list []models.Payment
	path := fmt.Sprintf("/admin/payments/%d", userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("user payments: %w", err)
	}
	return list, nil
}
