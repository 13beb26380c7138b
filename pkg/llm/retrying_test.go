package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient scripts ChatCompletion outcomes and records call times.
type stubClient struct {
	errs      []error
	resp      *ChatCompletionResponse
	calls     int
	callTimes []time.Time
}

func (s *stubClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	s.callTimes = append(s.callTimes, time.Now())
	s.calls++
	if s.calls <= len(s.errs) && s.errs[s.calls-1] != nil {
		return nil, s.errs[s.calls-1]
	}
	return s.resp, nil
}

func (s *stubClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (Stream, error) {
	s.calls++
	if s.calls <= len(s.errs) && s.errs[s.calls-1] != nil {
		return nil, s.errs[s.calls-1]
	}
	return nil, errors.New("stub: no stream configured")
}

func rateLimitErr() error {
	return &APIError{StatusCode: http.StatusTooManyRequests, Message: "slow down"}
}

func TestRetryingClient_RetriesRateLimitThenSucceeds(t *testing.T) {
	stub := &stubClient{
		errs: []error{rateLimitErr(), rateLimitErr()},
		resp: &ChatCompletionResponse{Choices: []Choice{{Message: Message{Content: "ok"}}}},
	}
	client := NewRetryingClient(stub, 3, 20*time.Millisecond)

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.NoError(t, err)
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, stub.calls, "expected exactly 3 attempts")

	// The second wait doubles the first.
	require.Len(t, stub.callTimes, 3)
	firstWait := stub.callTimes[1].Sub(stub.callTimes[0])
	secondWait := stub.callTimes[2].Sub(stub.callTimes[1])
	assert.GreaterOrEqual(t, firstWait, 20*time.Millisecond)
	assert.GreaterOrEqual(t, secondWait, 40*time.Millisecond)
	assert.Greater(t, secondWait.Seconds(), firstWait.Seconds()*1.5,
		"second backoff should be roughly double the first")
}

func TestRetryingClient_ExhaustedRetriesSurfaceOriginalRateLimit(t *testing.T) {
	stub := &stubClient{
		errs: []error{rateLimitErr(), rateLimitErr(), rateLimitErr()},
	}
	client := NewRetryingClient(stub, 3, time.Millisecond)

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err), "the original 429 error must surface, not a wrapper")
	assert.Equal(t, 3, stub.calls)
}

func TestRetryingClient_NonRateLimitErrorPropagatesImmediately(t *testing.T) {
	stub := &stubClient{
		errs: []error{&APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}},
	}
	client := NewRetryingClient(stub, 3, time.Millisecond)

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsServiceUnavailable(err))
	assert.Equal(t, 1, stub.calls, "5xx must not be retried")
}

func TestRetryingClient_StreamOpenRetried(t *testing.T) {
	stub := &stubClient{
		errs: []error{rateLimitErr()},
	}
	client := NewRetryingClient(stub, 3, time.Millisecond)

	_, err := client.ChatCompletionStream(context.Background(), ChatCompletionRequest{})
	// The stub never returns a stream, so the second attempt fails with
	// its sentinel; the point is the 429 was retried.
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	assert.Equal(t, 2, stub.calls)
}
