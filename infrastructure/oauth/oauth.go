// Package oauth implements the GitHub authorization-code flow used by the
// dashboard: authorization URL generation, code-for-token exchange and
// authenticated user lookup.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/domain"
)

const (
	defaultAuthBaseURL = "https://github.com"

	// oauthScope covers repository reads and the user profile.
	oauthScope = "repo,read:user,user:email"

	exchangeTimeout = 10 * time.Second
)

// Token is the response of a successful code exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// Flow drives the OAuth handshake. Exchanged tokens are cached by code and
// user lookups by token, so browser redirect retries do not repeat upstream
// calls. A Flow is safe for concurrent use.
type Flow struct {
	clientID     string
	clientSecret string
	redirectURI  string

	authBaseURL string
	apiBaseURL  string
	httpClient  *http.Client

	mu     sync.Mutex
	tokens map[string]*Token
	users  map[string]*domain.User
}

// Option configures a Flow.
type Option func(*Flow)

// WithAuthBaseURL overrides the github.com endpoint (tests).
func WithAuthBaseURL(baseURL string) Option {
	return func(f *Flow) { f.authBaseURL = baseURL }
}

// WithAPIBaseURL overrides the API endpoint used for user lookups (tests).
func WithAPIBaseURL(baseURL string) Option {
	return func(f *Flow) { f.apiBaseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client used for the token exchange.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *Flow) { f.httpClient = httpClient }
}

// NewFlow creates a Flow for the given OAuth app credentials. An empty
// redirectURI lets GitHub use the app's registered callback.
func NewFlow(clientID, clientSecret, redirectURI string, opts ...Option) *Flow {
	flow := &Flow{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authBaseURL:  defaultAuthBaseURL,
		httpClient:   &http.Client{Timeout: exchangeTimeout},
		tokens:       make(map[string]*Token),
		users:        make(map[string]*domain.User),
	}
	for _, opt := range opts {
		opt(flow)
	}
	return flow
}

// AuthorizationURL builds the URL the browser is sent to. The state value is
// passed through for CSRF protection when non-empty.
func (f *Flow) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", f.clientID)
	params.Set("scope", oauthScope)
	if f.redirectURI != "" {
		params.Set("redirect_uri", f.redirectURI)
	}
	if state != "" {
		params.Set("state", state)
	}

	return f.authBaseURL + "/login/oauth/authorize?" + params.Encode()
}

// ExchangeCode trades an authorization code for an access token. Repeated
// exchanges of the same code are served from the cache.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, errors.New("no authorization code provided")
	}

	f.mu.Lock()
	if token, ok := f.tokens[code]; ok {
		f.mu.Unlock()
		logger.Debugf("Using cached token for code")
		return token, nil
	}
	f.mu.Unlock()

	form := url.Values{}
	form.Set("client_id", f.clientID)
	form.Set("client_secret", f.clientSecret)
	form.Set("code", code)
	if f.redirectURI != "" {
		form.Set("redirect_uri", f.redirectURI)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.authBaseURL+"/login/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		// GitHub reports OAuth errors with status 200 and an error body.
		var oauthErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &oauthErr)
		if oauthErr.Error != "" {
			return nil, fmt.Errorf("token exchange rejected: %s", oauthErr.Error)
		}
		return nil, errors.New("token exchange returned no access token")
	}

	f.mu.Lock()
	f.tokens[code] = &token
	f.mu.Unlock()

	logger.Infof("Exchanged authorization code for %s token", token.TokenType)
	return &token, nil
}

// UserInfo fetches the authenticated user's profile. Lookups are cached per
// token.
func (f *Flow) UserInfo(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, errors.New("no access token provided")
	}

	f.mu.Lock()
	if user, ok := f.users[accessToken]; ok {
		f.mu.Unlock()
		return user, nil
	}
	f.mu.Unlock()

	client := github.NewClient(f.httpClient).WithAuthToken(accessToken)
	if f.apiBaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(f.apiBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL: %w", err)
		}
		client.BaseURL = baseURL
	}

	ghUser, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	user := &domain.User{
		Login:     ghUser.GetLogin(),
		Name:      ghUser.GetName(),
		AvatarURL: ghUser.GetAvatarURL(),
		HTMLURL:   ghUser.GetHTMLURL(),
	}

	f.mu.Lock()
	f.users[accessToken] = user
	f.mu.Unlock()

	logger.Infof("Authenticated dashboard user %s", user.Login)
	return user, nil
}

// ClearCache drops cached tokens and user profiles, forcing the next calls
// to hit GitHub again.
func (f *Flow) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = make(map[string]*Token)
	f.users = make(map[string]*domain.User)
}
