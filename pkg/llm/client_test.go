package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient("test-key", WithBaseURL(srv.URL), WithModel("test-model"))
	return srv, client
}

func TestChatCompletion_Success(t *testing.T) {
	var gotReq ChatCompletionRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := ChatCompletionResponse{
			ID: "cmpl-1",
			Choices: []Choice{
				{Message: Message{Role: "assistant", Content: "hello"}},
			},
			Usage: Usage{PromptTokens: 10, CompletionTokens: 5},
		}
		json.NewEncoder(w).Encode(resp)
	})

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "test-model", gotReq.Model, "default model should be filled in")
	assert.False(t, gotReq.Stream)
}

func TestChatCompletion_RateLimited(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsUnauthorized(err))
}

func TestChatCompletion_Unauthorized(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsRateLimited(err))
}

func TestChatCompletion_ServiceUnavailable(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsServiceUnavailable(err))
}

func TestResponseText_ReasoningContentFallback(t *testing.T) {
	resp := &ChatCompletionResponse{
		Choices: []Choice{
			{Message: Message{Role: "assistant", ReasoningContent: "thought result"}},
		},
	}
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "thought result", text)
}

func TestResponseText_EmptyChoices(t *testing.T) {
	resp := &ChatCompletionResponse{}
	_, err := resp.Text()
	assert.Error(t, err)
}

func TestResponseText_EmptyContent(t *testing.T) {
	resp := &ChatCompletionResponse{
		Choices: []Choice{{Message: Message{Role: "assistant"}}},
	}
	_, err := resp.Text()
	assert.Error(t, err)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", &APIError{StatusCode: 429, Message: "slow down"}, "API 请求过于频繁，请稍后再试"},
		{"unauthorized", &APIError{StatusCode: 401, Message: "bad key"}, "API Key 无效或已过期"},
		{"server error", &APIError{StatusCode: 500, Message: "boom"}, "AI 服务暂时不可用，请稍后重试"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
