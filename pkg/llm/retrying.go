package llm

import (
	"context"
	"time"

	"github.com/pitchforge/pitchforge/internal/resilience"
)

// RetryingClient wraps a Client with bounded exponential-backoff retry on
// rate-limit errors. Any other upstream error propagates immediately, and
// when the final attempt is also rate-limited the original 429 error is
// surfaced. Requests do not depend on prior failed attempts, so retrying
// is safe from the caller's perspective.
type RetryingClient struct {
	inner       Client
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetryingClient wraps inner with the given retry budget. maxAttempts
// counts the first try; baseDelay is doubled after each rate-limited
// attempt. Zero values fall back to 3 attempts and a 2s base delay.
func NewRetryingClient(inner Client, maxAttempts int, baseDelay time.Duration) *RetryingClient {
	return &RetryingClient{inner: inner, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

func (c *RetryingClient) retryConfig(operation string) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    c.maxAttempts,
		InitialBackoff: c.baseDelay,
		Multiplier:     2.0,
		ShouldRetry:    IsRateLimited,
		OnRetry:        resilience.RetryLogger(operation),
	}
}

// ChatCompletion issues a buffered completion with rate-limit retry.
func (c *RetryingClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	return resilience.DoVal(ctx, c.retryConfig("chat_completion"), func(ctx context.Context) (*ChatCompletionResponse, error) {
		return c.inner.ChatCompletion(ctx, req)
	})
}

// ChatCompletionStream opens a streamed completion with rate-limit retry
// on the initial request. Failures mid-stream are not retried; the
// consumer observes them through the stream's Err.
func (c *RetryingClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (Stream, error) {
	return resilience.DoVal(ctx, c.retryConfig("chat_completion_stream"), func(ctx context.Context) (Stream, error) {
		return c.inner.ChatCompletionStream(ctx, req)
	})
}
