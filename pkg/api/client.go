package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"portfolio-gateway/internal/domain"
)

// TokenSource supplies the current bearer token, or "" when logged out.
// Requests proceed without an Authorization header in that case and the
// backend rejects them on its own.
type TokenSource func() string

// Client is the single seam through which the gateway talks to the portfolio
// backend. The base address is resolved once at construction and every
// authenticated request gets its bearer header here.
//
// Failures are never retried; each one surfaces as a *domain.RequestError
// for the calling handler to render as a notification.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   TokenSource
}

func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Token:   token,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Token string `json:"token"`
}

type generationResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Profile map[string]interface{} `json:"profile"`
}

type subdomainResponse struct {
	Subdomain string `json:"subdomain"`
	Message   string `json:"message,omitempty"`
}

// Register creates an account; the backend mails an OTP on success.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var out messageResponse
	err := c.postJSON(ctx, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	return out.Message, err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out authResponse
	err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	return out.Token, err
}

// VerifyEmail confirms the OTP sent at registration.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	var out messageResponse
	err := c.postJSON(ctx, "/api/auth/verify", map[string]string{
		"email": email, "code": code,
	}, &out)
	return out.Message, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageResponse
	err := c.postJSON(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, &out)
	return out.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	var out messageResponse
	err := c.postJSON(ctx, "/api/auth/reset-password", map[string]string{
		"token": resetToken, "password": password,
	}, &out)
	return out.Message, err
}

// GeneratePortfolio uploads the resume and chosen template id as multipart
// form data and returns the extracted structured profile.
func (c *Client) GeneratePortfolio(ctx context.Context, fileName string, file io.Reader, templateID string) (map[string]interface{}, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("resume", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if templateID != "" {
		if err := mw.WriteField("templateId", templateID); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/portfolios/generate", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out generationResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "Portfolio generation failed."
		}
		return nil, &domain.RequestError{StatusCode: http.StatusUnprocessableEntity, Message: msg}
	}
	return out.Profile, nil
}

func (c *Client) GetSubdomain(ctx context.Context) (string, error) {
	var out subdomainResponse
	err := c.getJSON(ctx, "/api/user/subdomain", &out)
	return out.Subdomain, err
}

func (c *Client) UpdateSubdomain(ctx context.Context, slug string) (string, error) {
	var out subdomainResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/user/subdomain", map[string]string{"subdomain": slug}, &out)
	return out.Subdomain, err
}

// PublicPortfolio fetches the published portfolio for a tenant slug. No
// authentication is required or attached beyond the usual bearer rule.
func (c *Client) PublicPortfolio(ctx context.Context, slug string) (*domain.PublicPortfolio, error) {
	var out domain.PublicPortfolio
	if err := c.getJSON(ctx, "/api/public/portfolio/"+slug, &out); err != nil {
		return nil, err
	}
	if out.Slug == "" {
		out.Slug = slug
	}
	return &out, nil
}

// TrackAnalytics forwards a page event. Callers treat failures as
// best-effort and only log them.
func (c *Client) TrackAnalytics(ctx context.Context, ev domain.AnalyticsEvent) error {
	return c.postJSON(ctx, "/api/analytics/track", ev, nil)
}

// RegenerateSection asks the AI service to rewrite one profile section.
func (c *Client) RegenerateSection(ctx context.Context, section string, profile map[string]interface{}, instructions string) (map[string]interface{}, error) {
	var out generationResponse
	err := c.postJSON(ctx, "/api/ai/regenerate", map[string]interface{}{
		"section":      section,
		"profile":      profile,
		"instructions": instructions,
	}, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "Regeneration failed."
		}
		return nil, &domain.RequestError{StatusCode: http.StatusUnprocessableEntity, Message: msg}
	}
	return out.Profile, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends the request with the bearer header attached when a token is
// present, and maps any failure to a *domain.RequestError.
func (c *Client) do(req *http.Request, out interface{}) error {
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.RequestError{Message: fmt.Sprintf("could not reach the server: %v", err)}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: "could not read server response"}
	}

	if resp.StatusCode >= 400 {
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: serverMessage(respBytes)}
	}

	if out == nil || len(respBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: "server returned an unexpected response"}
	}
	return nil
}

// serverMessage extracts the backend's {"message": ...} body when present,
// falling back to a generic string.
func serverMessage(body []byte) string {
	var m messageResponse
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) <= 200 && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "<") {
		return s
	}
	return "Something went wrong. Please try again."
}
