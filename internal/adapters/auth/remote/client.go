// Package remote verifica tokens contra un servicio de identidad externo por HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"creature-registry/internal/platform/httpclient"
	"creature-registry/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("auth service client not configured")
	ErrUpstream      = errors.New("auth service upstream error")
)

// Config del cliente. BaseURL y APIKey vienen de AUTH_URL y AUTH_API_KEY.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http *httpclient.Client
}

// NewClient exige BaseURL y APIKey; la api key viaja en cada request.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{h: strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil
}

const verifyPath = "/v1/tokens/verify"

type verifyResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// VerifyToken pide al servicio de identidad los claims del token.
// 401/403 => auth.ErrInvalidToken.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var out verifyResponse
	err := c.http.DoJSON(ctx, http.MethodPost, verifyPath, map[string]string{
		"Authorization": "Bearer " + token,
	}, map[string]string{"token": token}, &out)
	if err != nil {
		if httpclient.HasStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return auth.Claims{}, auth.ErrInvalidToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.AccountID = strings.TrimSpace(out.AccountID)
	if out.AccountID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing account_id", ErrUpstream)
	}

	return auth.Claims{
		AccountID: out.AccountID,
		Email:     strings.TrimSpace(out.Email),
	}, nil
}
