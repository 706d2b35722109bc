// Package githubapi implements the GitHub REST API client used by the
// analyzer: repository metadata, commit history, tree traversal and file
// content retrieval, with rate-limit handling at the request boundary.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/domain"
)

const (
	defaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github.v3+json"

	connectTimeout = 10 * time.Second
	requestTimeout = 30 * time.Second

	// maxRateLimitWait caps how long a single rate-limit reset is waited
	// for. A reset further away than this fails immediately instead of
	// blocking the caller for an unbounded time.
	maxRateLimitWait = 300 * time.Second

	// maxRateLimitRetries bounds the retry loop after the initial
	// rate-limit wait. Retries are iterative, never recursive.
	maxRateLimitRetries = 3

	retryBackoffBase = 5 * time.Second
	maxRetryBackoff  = 60 * time.Second
)

// Client reads a single GitHub repository through the REST API v3.
//
// A Client owns two caches: a single RepositoryInfo slot and a file-content
// map keyed by owner/repo/path. Neither cache is synchronized; a Client is
// meant to be owned by one analysis run at a time.
type Client struct {
	owner   string
	repo    string
	baseURL string
	token   string

	httpClient *http.Client

	// sleep and now are injection points for the rate-limit tests.
	sleep func(time.Duration)
	now   func() time.Time

	infoCache    *domain.RepositoryInfo
	contentCache map[string]string
}

var _ domain.RepositoryReader = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithToken sets the OAuth/PAT token sent as "Authorization: token ...".
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithBaseURL overrides the API base URL (tests point it at a local server).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a reader for owner/repo. Without a token requests are
// unauthenticated and subject to GitHub's lower rate limit.
func NewClient(owner, repo string, opts ...Option) *Client {
	client := &Client{
		owner:   owner,
		repo:    repo,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		sleep:        time.Sleep,
		now:          time.Now,
		contentCache: make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Owner returns the repository owner this client reads.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name this client reads.
func (c *Client) Repo() string { return c.repo }

// request performs one GET against the GitHub API and returns the raw JSON
// body. Rate limiting is waited out and retried transparently (bounded);
// every other failure is translated into a typed *APIError.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	logger.Debugf("GitHub API request: GET %s", endpoint)

	body, resp, err := c.do(ctx, endpoint, params)
	if err != nil {
		return nil, c.translateTransportError(endpoint, err)
	}

	logger.Debugf("GitHub API response status: %d for %s", resp.StatusCode, endpoint)

	if resp.StatusCode < http.StatusBadRequest {
		return body, nil
	}

	if isRateLimited(resp) {
		return c.retryAfterRateLimit(ctx, endpoint, params, resp)
	}

	return nil, c.translateStatusError(endpoint, resp.StatusCode, resp.Header, body)
}

// do executes a single HTTP GET and reads the full response body.
func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, *http.Response, error) {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	return body, resp, nil
}

// isRateLimited reports whether a response is a primary rate-limit rejection:
// 403 with the remaining-quota header present and exhausted.
func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// retryAfterRateLimit waits for the advertised quota reset, then retries the
// identical request up to maxRateLimitRetries times with exponential backoff
// between still-rate-limited attempts.
func (c *Client) retryAfterRateLimit(ctx context.Context, endpoint string, params url.Values, resp *http.Response) (json.RawMessage, error) {
	reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)

	wait := time.Duration(reset-c.now().Unix())*time.Second + time.Second
	if wait < time.Second {
		wait = time.Second
	}

	if wait > maxRateLimitWait {
		logger.Errorf("GitHub API rate limit exceeded with long reset time (%s)", wait)
		return nil, &APIError{
			Kind:       KindRateLimit,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    "GitHub API rate limit exceeded. Please try again later or use a GitHub token.",
		}
	}

	logger.Warnf("GitHub API rate limit exceeded, waiting %s before retrying %s", wait, endpoint)
	c.sleep(wait)

	for attempt := 0; attempt < maxRateLimitRetries; attempt++ {
		logger.Infof("Retry attempt %d/%d for %s", attempt+1, maxRateLimitRetries, endpoint)

		body, retryResp, err := c.do(ctx, endpoint, params)
		if err != nil {
			return nil, c.translateTransportError(endpoint, err)
		}

		if retryResp.StatusCode < http.StatusBadRequest {
			logger.Infof("Retry successful for %s", endpoint)
			return body, nil
		}

		if !isRateLimited(retryResp) {
			// A different failure; let the regular translation handle it.
			return nil, c.translateStatusError(endpoint, retryResp.StatusCode, retryResp.Header, body)
		}

		backoff := min(retryBackoffBase<<attempt, maxRetryBackoff)
		logger.Infof("Rate limit still exceeded, backing off for %s", backoff)
		c.sleep(backoff)
	}

	logger.Errorf("Failed to recover from rate limit after retries for %s", endpoint)
	return nil, &APIError{
		Kind:       KindRateLimit,
		StatusCode: http.StatusForbidden,
		Endpoint:   endpoint,
		Message:    "GitHub API rate limit exceeded. Please try again later or use a GitHub token with higher limits.",
	}
}

// translateStatusError maps a non-rate-limit HTTP failure onto the typed
// error taxonomy, extracting the upstream "message" field when the body is a
// JSON error document.
func (c *Client) translateStatusError(endpoint string, status int, header http.Header, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		logger.Errorf("Authentication error: invalid or expired token for %s", endpoint)
		return &APIError{
			Kind:       KindAuthentication,
			StatusCode: status,
			Endpoint:   endpoint,
			Message:    "GitHub API authentication failed. Please check your access token.",
		}

	case status == http.StatusForbidden && header.Get("X-RateLimit-Remaining") == "":
		logger.Errorf("Permission denied: insufficient permissions for %s", endpoint)
		return &APIError{
			Kind:       KindPermission,
			StatusCode: status,
			Endpoint:   endpoint,
			Message:    "Permission denied. Your token may not have the required permissions.",
		}

	case status == http.StatusNotFound:
		logger.Errorf("Resource not found: %s", endpoint)
		return &APIError{
			Kind:       KindNotFound,
			StatusCode: status,
			Endpoint:   endpoint,
			Message:    fmt.Sprintf("GitHub resource not found: %s. Please check that the repository exists and is accessible.", endpoint),
		}
	}

	message := fmt.Sprintf("request failed with status %d", status)
	if upstream := extractErrorMessage(body); upstream != "" {
		message = "GitHub API Error: " + upstream
	}

	logger.Errorf("GitHub API request failed for %s: %s", endpoint, message)
	return &APIError{
		Kind:       KindAPI,
		StatusCode: status,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// translateTransportError maps network-level failures onto distinct kinds so
// callers can tell a timeout from a refused connection.
func (c *Client) translateTransportError(endpoint string, err error) error {
	var urlErr *url.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &urlErr) && urlErr.Timeout())

	if timedOut {
		logger.Errorf("GitHub API request timed out for %s: %v", endpoint, err)
		return &APIError{
			Kind:     KindTimeout,
			Endpoint: endpoint,
			Message:  fmt.Sprintf("GitHub API request timed out. Please try again later. (%v)", err),
		}
	}

	logger.Errorf("GitHub API connection failed for %s: %v", endpoint, err)
	return &APIError{
		Kind:     KindConnection,
		Endpoint: endpoint,
		Message:  fmt.Sprintf("GitHub API connection failed. Please check your network connection. (%v)", err),
	}
}

// extractErrorMessage pulls the "message" field out of a GitHub JSON error
// body, returning an empty string when the body is not such a document.
func extractErrorMessage(body []byte) string {
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil {
		return ""
	}
	return errBody.Message
}
