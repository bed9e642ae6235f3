package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// TokenCache holds the bearer credential for the authenticated Reddit API and
// refreshes it when absent or expired. The expiry is recorded with a safety
// margin subtracted from the reported lifetime, so a token is refreshed before
// Reddit actually rejects it. Safe for concurrent use; the check-then-refresh
// sequence runs as a single critical section so concurrent callers never
// double-refresh.
type TokenCache struct {
	authURL    string
	creds      credentials
	margin     time.Duration
	httpClient *http.Client
	userAgent  string

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

func NewTokenCache(authURL string, creds credentials, margin time.Duration, httpClient *http.Client, userAgent string) *TokenCache {
	return &TokenCache{
		authURL:    authURL,
		creds:      creds,
		margin:     margin,
		httpClient: httpClient,
		userAgent:  userAgent,
		now:        time.Now,
	}
}

// Token returns a valid bearer token, refreshing it via the password grant
// when the cached one is absent or expired. Within the validity window repeat
// calls never hit the network.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := tc.now()
	if tc.token != "" && now.Before(tc.expiresAt) {
		return tc.token, nil
	}

	token, expiresIn, err := tc.exchange(ctx)
	if err != nil {
		// Cache stays untouched, no partial credential is ever stored
		return "", &AuthError{Err: err}
	}

	tc.token = token
	tc.expiresAt = now.Add(expiresIn - tc.margin)

	slog.Debug("Reddit access token refreshed", "expires_at", tc.expiresAt)

	return tc.token, nil
}

func (tc *TokenCache) exchange(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", tc.creds.Username)
	form.Set("password", tc.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(tc.creds.ClientID, tc.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", tc.userAgent)

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("token response contains no access token")
	}

	return payload.AccessToken, time.Duration(payload.ExpiresIn) * time.Second, nil
}
