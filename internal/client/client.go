// Package client is a small HTTP client for the CrisisGrid API, used by
// the smoke tool and suitable for service-to-service calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crisisgrid.org/internal/auth"
	"crisisgrid.org/internal/hazard"
	"crisisgrid.org/internal/warning"
)

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crisisgrid api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to a running CrisisGrid API instance.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login or refresh.
func (c *Client) SetToken(token string) { c.token = token }

// Session is the authentication response: the account plus its tokens.
type Session struct {
	User   *auth.User     `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

// RegisterInput mirrors the register request body.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Register creates an account and adopts its access token.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", in, &out); err != nil {
		return nil, err
	}
	c.token = out.Tokens.AccessToken
	return &out, nil
}

// Login authenticates and adopts the returned access token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", in, &out); err != nil {
		return nil, err
	}
	c.token = out.Tokens.AccessToken
	return &out, nil
}

// Refresh exchanges a refresh token for a fresh access token and adopts it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	in := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", in, &out); err != nil {
		return "", err
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}

// Me fetches the calling account's profile.
func (c *Client) Me(ctx context.Context) (*auth.User, error) {
	var out auth.User
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ZoneInput mirrors the hazard zone create request body.
type ZoneInput struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	GeometryData string `json:"geometryData"`
	RiskLevel    string `json:"riskLevel,omitempty"`
	AdminNotes   string `json:"adminNotes,omitempty"`
}

// CreateZone registers a hazard zone.
func (c *Client) CreateZone(ctx context.Context, in ZoneInput) (*hazard.Zone, error) {
	var out hazard.Zone
	if err := c.do(ctx, http.MethodPost, "/v1/hazard-zones", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetZone fetches a hazard zone by id.
func (c *Client) GetZone(ctx context.Context, id string) (*hazard.Zone, error) {
	var out hazard.Zone
	if err := c.do(ctx, http.MethodGet, "/v1/hazard-zones/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteZone removes a hazard zone.
func (c *Client) DeleteZone(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/hazard-zones/"+id, nil, nil)
}

// WarningInput mirrors the warning create request body.
type WarningInput struct {
	HazardZoneID string `json:"hazardZoneId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Level        string `json:"level,omitempty"`
	IssuedBy     string `json:"issuedBy"`
	ValidUntil   string `json:"validUntil,omitempty"`
}

// CreateWarning issues a warning for a hazard zone.
func (c *Client) CreateWarning(ctx context.Context, in WarningInput) (*warning.Warning, error) {
	var out warning.Warning
	if err := c.do(ctx, http.MethodPost, "/v1/warnings", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWarning fetches a warning by id.
func (c *Client) GetWarning(ctx context.Context, id string) (*warning.Warning, error) {
	var out warning.Warning
	if err := c.do(ctx, http.MethodGet, "/v1/warnings/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWarning removes a warning.
func (c *Client) DeleteWarning(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/warnings/"+id, nil, nil)
}

// Healthz reports whether the API answers its health probe.
func (c *Client) Healthz(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error     string `json:"error"`
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Code != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Error
		apiErr.RequestID = envelope.RequestID
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
