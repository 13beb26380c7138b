// Package plan generates the business plan narrative. The streaming path
// relays model output chunk by chunk over an event channel, filtering
// reasoning tags as it goes; the buffered path returns the whole text at
// once for callers that do not stream.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/llmtext"
	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

const planPromptFmt = `基于以下商业要素，生成一份完整的商业计划书大纲：

%s

请生成包含以下章节的商业计划书：
1. 执行摘要
2. 问题与机会
3. 解决方案
4. 市场分析
5. 商业模式
6. 竞争分析
7. 营销策略
8. 财务预测

每个章节请提供2-3段详细描述。`

const defaultTitle = "商业计划书"

// Generator streams business plan narratives.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Stream produces the ordered event sequence for one plan generation:
// one metadata event, zero or more filtered content chunks, then exactly
// one done or error event. The channel is unbuffered and closed when the
// sequence ends; cancelling ctx stops production.
func (g *Generator) Stream(ctx context.Context, elements *model.BusinessElements, title string) <-chan model.PlanEvent {
	ch := make(chan model.PlanEvent)
	go g.produce(ctx, elements, title, ch)
	return ch
}

func (g *Generator) produce(ctx context.Context, elements *model.BusinessElements, title string, ch chan<- model.PlanEvent) {
	defer close(ch)

	emit := func(ev model.PlanEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		zap.L().Error("plan stream failed", zap.Error(err))
		emit(model.PlanEvent{Type: model.PlanEventError, Data: model.PlanError{Message: llm.UserMessage(err)}})
	}

	if elements == nil {
		fail(eris.New("business elements required"))
		return
	}
	if title == "" {
		title = defaultTitle
	}

	if !emit(model.PlanEvent{Type: model.PlanEventMetadata, Data: model.PlanMetadata{
		Title:     title,
		Elements:  *elements,
		CreatedAt: time.Now().UTC(),
	}}) {
		return
	}

	stream, err := g.open(ctx, elements)
	if err != nil {
		fail(err)
		return
	}
	defer stream.Close()

	var (
		filter       ThinkFilter
		full         strings.Builder
		finishReason string
	)
	for stream.Next() {
		chunk := stream.Current()
		if chunk.FinishReason != "" {
			finishReason = chunk.FinishReason
		}
		filtered := filter.Write(chunk.Content)
		if filtered == "" {
			continue
		}
		full.WriteString(filtered)
		if !emit(model.PlanEvent{Type: model.PlanEventContent, Data: filtered}) {
			return
		}
	}
	if err := stream.Err(); err != nil {
		fail(err)
		return
	}

	if tail := filter.Flush(); tail != "" {
		full.WriteString(tail)
		if !emit(model.PlanEvent{Type: model.PlanEventContent, Data: tail}) {
			return
		}
	}

	if full.Len() == 0 {
		fail(eris.New("AI 未返回任何内容，请重试"))
		return
	}
	if finishReason == "length" {
		zap.L().Warn("plan output hit the max token limit")
	}

	content := full.String()
	emit(model.PlanEvent{Type: model.PlanEventDone, Data: model.PlanDone{
		FullContent:  content,
		WasTruncated: Truncated(content),
	}})
}

func (g *Generator) open(ctx context.Context, elements *model.BusinessElements) (llm.Stream, error) {
	elementsJSON, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshal business elements")
	}
	temperature := 0.8
	maxTokens := 6000
	return g.client.ChatCompletionStream(ctx, llm.ChatCompletionRequest{
		Messages:    []llm.Message{{Role: "user", Content: fmt.Sprintf(planPromptFmt, elementsJSON)}},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
}

// GenerateBuffered returns the whole narrative at once for callers that
// do not consume events.
func (g *Generator) GenerateBuffered(ctx context.Context, elements *model.BusinessElements) (string, error) {
	if elements == nil {
		return "", eris.New("business elements required")
	}
	elementsJSON, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "marshal business elements")
	}
	temperature := 0.8
	maxTokens := 2000

	resp, err := g.client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Messages:    []llm.Message{{Role: "user", Content: fmt.Sprintf(planPromptFmt, elementsJSON)}},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "generate plan")
	}
	text, err := resp.Text()
	if err != nil {
		return "", eris.Wrap(err, "generate plan")
	}
	return llmtext.StripThink(text), nil
}

// Truncated reports whether the narrative looks cut off: a complete plan
// reaches its final section, so text carrying neither the financial
// forecast heading nor a section-8 marker is suspect.
func Truncated(content string) bool {
	return !strings.Contains(content, "财务预测") && !strings.Contains(content, "8.")
}
