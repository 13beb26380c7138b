package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the completion endpoint. It is the
// single upstream error type; callers classify it by status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: upstream status %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err is an upstream 429. This is the only
// error class the retrying client absorbs.
func IsRateLimited(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusTooManyRequests
}

// IsUnauthorized reports whether err is an upstream 401/403.
func IsUnauthorized(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.StatusCode == http.StatusUnauthorized || ae.StatusCode == http.StatusForbidden
}

// IsServiceUnavailable reports whether err is an upstream 5xx.
func IsServiceUnavailable(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode >= 500
}

// UserMessage maps an upstream error to the friendly text surfaced to the
// client. Unknown errors pass through unchanged.
func UserMessage(err error) string {
	switch {
	case IsRateLimited(err):
		return "API 请求过于频繁，请稍后再试"
	case IsUnauthorized(err):
		return "API Key 无效或已过期"
	case IsServiceUnavailable(err):
		return "AI 服务暂时不可用，请稍后重试"
	default:
		return err.Error()
	}
}
