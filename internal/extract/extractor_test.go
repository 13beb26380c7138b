package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/pitchforge/pitchforge/pkg/llm"
)

type stubLLM struct {
	content string
	err     error
	lastReq llm.ChatCompletionRequest
}

func (s *stubLLM) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: llm.Message{Role: "assistant", Content: s.content}}},
	}, nil
}

func (s *stubLLM) ChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	panic("not used")
}

func TestExtractor_Extract(t *testing.T) {
	stub := &stubLLM{content: "```json\n" + wellFormed + "\n```"}
	extractor := NewExtractor(stub)

	elements, err := extractor.Extract(context.Background(), "帮助术后老人做康复训练的AI应用")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !elements.Complete() {
		t.Error("elements should be complete")
	}

	req := stub.lastReq
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "帮助术后老人做康复训练") {
		t.Errorf("idea missing from user prompt: %q", req.Messages[1].Content)
	}
	if req.Temperature == nil || *req.Temperature != 0.7 {
		t.Errorf("temperature = %v", req.Temperature)
	}
	if req.MaxTokens == nil || *req.MaxTokens != 2500 {
		t.Errorf("maxTokens = %v", req.MaxTokens)
	}
	if req.TopP == nil || *req.TopP != 0.9 {
		t.Errorf("topP = %v", req.TopP)
	}
}

func TestExtractor_UpstreamErrorPropagates(t *testing.T) {
	apiErr := &llm.APIError{StatusCode: 429, Message: "throttled"}
	extractor := NewExtractor(&stubLLM{err: apiErr})

	_, err := extractor.Extract(context.Background(), "一个想法")
	if err == nil {
		t.Fatal("expected error")
	}
	if !llm.IsRateLimited(err) {
		t.Errorf("rate-limit classification lost through wrapping: %v", err)
	}
}
