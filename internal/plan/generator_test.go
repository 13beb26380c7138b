package plan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

type fakeStream struct {
	chunks []llm.StreamChunk
	err    error
	pos    int
	closed bool
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Current() llm.StreamChunk { return s.chunks[s.pos-1] }
func (s *fakeStream) Err() error               { return s.err }
func (s *fakeStream) Close() error             { s.closed = true; return nil }

type streamClient struct {
	stream  *fakeStream
	openErr error
	lastReq llm.ChatCompletionRequest
}

func (c *streamClient) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	panic("not used")
}

func (c *streamClient) ChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	c.lastReq = req
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.stream, nil
}

func contentChunks(parts ...string) []llm.StreamChunk {
	chunks := make([]llm.StreamChunk, 0, len(parts)+1)
	for _, p := range parts {
		chunks = append(chunks, llm.StreamChunk{Content: p})
	}
	return append(chunks, llm.StreamChunk{FinishReason: "stop"})
}

func planElements() *model.BusinessElements {
	return &model.BusinessElements{
		Problem:          "问题",
		Solution:         "方案",
		TargetUsers:      "用户",
		ValueProposition: "价值",
		BusinessModel:    "模式",
		MarketSize:       "市场",
		Competitors:      []string{"竞品A"},
	}
}

func collectEvents(t *testing.T, ch <-chan model.PlanEvent) []model.PlanEvent {
	t.Helper()
	var events []model.PlanEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestStream_EventOrder(t *testing.T) {
	client := &streamClient{stream: &fakeStream{
		chunks: contentChunks("## 1. 执行摘要\n", "内容……", "\n## 8. 财务预测\n详述"),
	}}
	gen := NewGenerator(client)

	events := collectEvents(t, gen.Stream(context.Background(), planElements(), "康复助手计划"))
	require.GreaterOrEqual(t, len(events), 3)

	assert.Equal(t, model.PlanEventMetadata, events[0].Type)
	meta := events[0].Data.(model.PlanMetadata)
	assert.Equal(t, "康复助手计划", meta.Title)

	var full strings.Builder
	for _, ev := range events[1 : len(events)-1] {
		require.Equal(t, model.PlanEventContent, ev.Type)
		full.WriteString(ev.Data.(string))
	}

	last := events[len(events)-1]
	require.Equal(t, model.PlanEventDone, last.Type)
	done := last.Data.(model.PlanDone)
	assert.Equal(t, full.String(), done.FullContent)
	assert.False(t, done.WasTruncated)
	assert.True(t, client.stream.closed)
}

func TestStream_FiltersThinkTagsAcrossChunks(t *testing.T) {
	client := &streamClient{stream: &fakeStream{
		chunks: contentChunks("A<thi", "nk>sec", "ret</th", "ink>B 财务预测 8."),
	}}
	gen := NewGenerator(client)

	events := collectEvents(t, gen.Stream(context.Background(), planElements(), ""))
	done := events[len(events)-1].Data.(model.PlanDone)
	assert.Equal(t, "AB 财务预测 8.", done.FullContent)
}

func TestStream_DefaultTitle(t *testing.T) {
	client := &streamClient{stream: &fakeStream{chunks: contentChunks("正文 8. 财务预测")}}
	gen := NewGenerator(client)

	events := collectEvents(t, gen.Stream(context.Background(), planElements(), ""))
	meta := events[0].Data.(model.PlanMetadata)
	assert.Equal(t, "商业计划书", meta.Title)
}

func TestStream_TruncationFlag(t *testing.T) {
	client := &streamClient{stream: &fakeStream{
		chunks: contentChunks("## 1. 执行摘要（被截断的内容"),
	}}
	gen := NewGenerator(client)

	events := collectEvents(t, gen.Stream(context.Background(), planElements(), ""))
	done := events[len(events)-1].Data.(model.PlanDone)
	assert.True(t, done.WasTruncated)
}

func TestStream_OpenErrorEmitsErrorEvent(t *testing.T) {
	client := &streamClient{openErr: &llm.APIError{StatusCode: 429, Message: "throttled"}}
	gen := NewGenerator(client)

	events := collectEvents(t, gen.Stream(context.Background(), planElements(), ""))
	require.Len(t, events, 2)
	assert.Equal(t, model.PlanEventMetadata, events[0].Type)
	require.Equal(t, model.PlanEventError, events[1].Type)
	perr := events[1].Data.(model.PlanError)
	assert.Equal(t, "API 请求过于频繁，请稍后再试", perr.Message)
}

func TestStream_EmptyOutputIsError(t *testing.T) {
	client := &streamClient{stream: &fakeStream{
		chunks: []llm.StreamChunk{{Content: "<think>只有推理</think>"}, {FinishReason: "stop"}},
	}}
	gen := NewGenerator(client)

	events := collectEvents(t, gen.Stream(context.Background(), planElements(), ""))
	last := events[len(events)-1]
	require.Equal(t, model.PlanEventError, last.Type)
}

func TestStream_NilElements(t *testing.T) {
	gen := NewGenerator(&streamClient{})
	events := collectEvents(t, gen.Stream(context.Background(), nil, ""))
	require.Len(t, events, 1)
	assert.Equal(t, model.PlanEventError, events[0].Type)
}

func TestStream_ContextCancelStopsProducer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &streamClient{stream: &fakeStream{
		chunks: contentChunks("第一块", "第二块", "第三块"),
	}}
	gen := NewGenerator(client)

	ch := gen.Stream(ctx, planElements(), "")
	<-ch // metadata
	cancel()

	// The channel must close without requiring further reads.
	for range ch {
	}
}

func TestStream_RequestParameters(t *testing.T) {
	client := &streamClient{stream: &fakeStream{chunks: contentChunks("x 8.")}}
	gen := NewGenerator(client)
	collectEvents(t, gen.Stream(context.Background(), planElements(), ""))

	req := client.lastReq
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "执行摘要")
	assert.Contains(t, req.Messages[0].Content, "财务预测")
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.8, *req.Temperature)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, 6000, *req.MaxTokens)
}

func TestGenerateBuffered_StripsThink(t *testing.T) {
	// Buffered generation goes through ChatCompletion, not the stream.
	gen := NewGenerator(&bufferedClient{content: "<think>推理</think>计划正文"})
	text, err := gen.GenerateBuffered(context.Background(), planElements())
	require.NoError(t, err)
	assert.Equal(t, "计划正文", text)
}

type bufferedClient struct {
	content string
}

func (c *bufferedClient) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: llm.Message{Role: "assistant", Content: c.content}}},
	}, nil
}

func (c *bufferedClient) ChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	panic("not used")
}
