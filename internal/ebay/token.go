package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"cardhound/internal/config"
	"cardhound/internal/services"
)

// tokenExpiryLeeway is subtracted from the advertised token lifetime so a
// token is refreshed before it can expire mid-request.
const tokenExpiryLeeway = 5 * time.Minute

// HTTPDoer is the subset of http.Client the token manager needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenManager obtains and caches an application access token via the
// client-credentials grant. Refresh is serialized: concurrent callers block
// on the mutex and the first one through performs the exchange.
type TokenManager struct {
	clientID     string
	clientSecret string
	authURL      string
	scope        string
	httpClient   HTTPDoer

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

// TokenManagerOption customises TokenManager construction.
type TokenManagerOption func(*TokenManager)

// WithTokenHTTPClient overrides the HTTP client used for the token exchange.
func WithTokenHTTPClient(client HTTPDoer) TokenManagerOption {
	return func(m *TokenManager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithTokenClock overrides the clock (used in tests).
func WithTokenClock(now func() time.Time) TokenManagerOption {
	return func(m *TokenManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewTokenManager builds a TokenManager from the eBay config section.
func NewTokenManager(cfg config.Ebay, opts ...TokenManagerOption) *TokenManager {
	mgr := &TokenManager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		authURL:      cfg.AuthURL,
		scope:        cfg.OAuthScope,
		httpClient:   &http.Client{Timeout: cfg.Timeout()},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	return mgr
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid access token, refreshing it when the cached one is
// within the expiry leeway.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiresAt) {
		return m.token, nil
	}
	return m.refreshLocked(ctx)
}

// Invalidate drops the cached token so the next call performs a fresh exchange.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiresAt = time.Time{}
}

func (m *TokenManager) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", m.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrAuth, "ebay", "token", "build request", err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(m.clientID + ":" + m.clientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrAuth, "ebay", "token", "exchange request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", services.Wrap(services.ErrAuth, "ebay", "token", "token endpoint returned 429", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", services.Wrap(services.ErrAuth, "ebay", "token",
			"token endpoint returned "+resp.Status+": "+strings.TrimSpace(string(body)), nil)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrAuth, "ebay", "token", "decode response", err)
	}
	if payload.AccessToken == "" {
		return "", services.Wrap(services.ErrAuth, "ebay", "token", "no access token in response", nil)
	}

	lifetime := time.Duration(payload.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = 2 * time.Hour
	}
	if lifetime > tokenExpiryLeeway {
		lifetime -= tokenExpiryLeeway
	}

	m.token = payload.AccessToken
	m.expiresAt = m.now().Add(lifetime)
	return m.token, nil
}
