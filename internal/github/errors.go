package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req/v3"
)

var (
	ErrNotFound      = errors.New("github: not found")
	ErrRateLimited   = errors.New("github: rate limited")
	ErrMalformedTree = errors.New("github: response has no tree")
	ErrTruncatedTree = errors.New("github: tree listing truncated")
)

// APIError is a non-2xx answer from GitHub
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// handleAPIError maps transport failures and error states to typed errors
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}

	if !resp.IsErrorState() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	body := resp.Bytes()
	if err := jsonUnmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w: %w", operation, ErrNotFound, apiErr)
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return fmt.Errorf("%s: %w: %w", operation, ErrRateLimited, apiErr)
	default:
		return fmt.Errorf("%s: %w", operation, apiErr)
	}
}
