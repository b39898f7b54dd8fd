package transport

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	externalAPICode = "EXTERNAL_API_ERROR"
	transportCode   = "TRANSPORT_ERROR"
	rateLimitedCode = "RATE_LIMITED"
	maxBodyInError  = 2048
)

// ErrRateLimited is returned when a 429 response persists past the
// configured retry cap.
var ErrRateLimited = errors.New("transport: rate limited")

// APIError describes a non-success HTTP response.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, body)
}

// AsAPIError extracts the APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}

func externalError(apiErr *APIError) error {
	return goerrors.Wrap(apiErr, goerrors.CategoryExternal, "external api request failed").
		WithTextCode(externalAPICode)
}

func requestError(method, path string, err error) error {
	return goerrors.Wrap(fmt.Errorf("%s %s: %w", method, path, err), goerrors.CategoryExternal, "external api request could not be sent").
		WithTextCode(transportCode)
}

func rateLimitError(method, path string, attempts int) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s %s after %d attempts", ErrRateLimited, method, path, attempts), goerrors.CategoryRateLimit, "external api rate limit exceeded").
		WithTextCode(rateLimitedCode)
}
