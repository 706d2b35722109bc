package githubapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an API failure so callers can react without parsing
// message text.
type ErrorKind string

const (
	KindAuthentication  ErrorKind = "authentication"   // 401
	KindPermission      ErrorKind = "permission"       // 403 without rate-limit headers
	KindNotFound        ErrorKind = "not_found"        // 404
	KindRateLimit       ErrorKind = "rate_limit"       // exhausted retries or excessive reset wait
	KindTimeout         ErrorKind = "timeout"          // connect or read deadline exceeded
	KindConnection      ErrorKind = "connection"       // network-level failure
	KindEmptyRepository ErrorKind = "empty_repository" // repository has no commits
	KindAPI             ErrorKind = "api"              // any other 4xx/5xx
)

// APIError is the typed failure surfaced by the Gateway. Message is always
// display-ready; StatusCode is zero for network-level failures.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("GitHub API error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GitHub API error (%s): %s", e.Kind, e.Message)
}

func kindIs(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuthentication reports whether err is a 401 authentication failure.
func IsAuthentication(err error) bool { return kindIs(err, KindAuthentication) }

// IsPermission reports whether err is a permission failure.
func IsPermission(err error) bool { return kindIs(err, KindPermission) }

// IsNotFound reports whether err is a 404 failure.
func IsNotFound(err error) bool { return kindIs(err, KindNotFound) }

// IsRateLimit reports whether err is an unrecoverable rate-limit failure.
func IsRateLimit(err error) bool { return kindIs(err, KindRateLimit) }

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool { return kindIs(err, KindTimeout) }

// IsConnection reports whether err is a network connection failure.
func IsConnection(err error) bool { return kindIs(err, KindConnection) }

// IsEmptyRepository reports whether err signals a repository with no commits.
func IsEmptyRepository(err error) bool { return kindIs(err, KindEmptyRepository) }
