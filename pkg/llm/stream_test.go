package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseBody(chunks ...string) string {
	var b strings.Builder
	for _, c := range chunks {
		fmt.Fprintf(&b, "data: {\"choices\":[{\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", c)
	}
	b.WriteString("data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func collectStream(t *testing.T, s Stream) ([]StreamChunk, error) {
	t.Helper()
	defer s.Close()
	var chunks []StreamChunk
	for s.Next() {
		chunks = append(chunks, s.Current())
	}
	return chunks, s.Err()
}

func TestSSEStream_DecodesChunks(t *testing.T) {
	body := io.NopCloser(strings.NewReader(sseBody("你好", "，世界")))
	chunks, err := collectStream(t, newSSEStream(body))
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "你好", chunks[0].Content)
	assert.Equal(t, "，世界", chunks[1].Content)
	assert.Equal(t, "stop", chunks[2].FinishReason)
}

func TestSSEStream_StopsAtDone(t *testing.T) {
	raw := "data: {\"choices\":[{\"delta\":{\"content\":\"a\"},\"finish_reason\":null}]}\n\n" +
		"data: [DONE]\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"after\"},\"finish_reason\":null}]}\n\n"
	body := io.NopCloser(strings.NewReader(raw))
	chunks, err := collectStream(t, newSSEStream(body))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0].Content)
}

func TestSSEStream_IgnoresBlankAndCommentLines(t *testing.T) {
	raw := ": keepalive\n\n" +
		"event: message\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"x\"},\"finish_reason\":null}]}\n\n" +
		"data: [DONE]\n\n"
	body := io.NopCloser(strings.NewReader(raw))
	chunks, err := collectStream(t, newSSEStream(body))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "x", chunks[0].Content)
}

func TestSSEStream_MalformedChunk(t *testing.T) {
	raw := "data: {not json}\n\n"
	body := io.NopCloser(strings.NewReader(raw))
	chunks, err := collectStream(t, newSSEStream(body))
	assert.Empty(t, chunks)
	assert.Error(t, err)
}

func TestChatCompletionStream_EndToEnd(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseBody("plan ", "text"))
	})

	stream, err := client.ChatCompletionStream(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	require.NoError(t, err)

	chunks, err := collectStream(t, stream)
	require.NoError(t, err)

	var full strings.Builder
	for _, c := range chunks {
		full.WriteString(c.Content)
	}
	assert.Equal(t, "plan text", full.String())
}

func TestChatCompletionStream_UpstreamError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.ChatCompletionStream(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}
