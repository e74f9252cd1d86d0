// Package zoho implements the CRM-side collaborators: the OAuth token
// provider and the REST record fetcher.
package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/finance1/summary-agent/backend/internal/apperr"
	"github.com/finance1/summary-agent/backend/internal/config"
)

// TokenProvider exchanges the long-lived refresh token for a short-lived
// access token on every call. Zoho access tokens expire quickly and the
// service is stateless, so no token cache is kept.
type TokenProvider struct {
	cfg        config.ZohoConfig
	tokenURL   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewTokenProvider builds a token provider from the Zoho credentials.
func NewTokenProvider(cfg config.ZohoConfig, log *zap.Logger) *TokenProvider {
	return &TokenProvider{
		cfg:      cfg,
		tokenURL: fmt.Sprintf("https://%s/oauth/v2/token", cfg.AuthDomain),
		httpClient: &http.Client{
			Timeout: cfg.TokenTimeout,
		},
		log: log,
	}
}

// AccessToken refreshes and returns a bearer token for the CRM API.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	if !p.cfg.Enabled() {
		return "", apperr.Config("missing Zoho OAuth credentials (ZOHO_REFRESH_TOKEN, ZOHO_CLIENT_ID, ZOHO_CLIENT_SECRET)")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", p.cfg.RefreshToken)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", apperr.FromTransport("Zoho token refresh failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	// Log the status only; the body may carry credentials.
	p.log.Debug("zoho token refresh", zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Upstream("Zoho token refresh failed", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", apperr.Upstream("Zoho token refresh returned no access token", resp.StatusCode, "")
	}

	return payload.AccessToken, nil
}
