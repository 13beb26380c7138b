// Package extract turns a free-form startup idea into structured
// business elements by prompting the completion model for a compact JSON
// object and recovering that object from whatever the model actually
// returned.
package extract

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

const systemPrompt = `你是商业顾问。直接输出JSON结果。

要求：
1. 每个字段精简到50-80字
2. 必须输出完整JSON
3. 格式：{"problem":"...","solution":"...","targetUsers":"...","valueProposition":"...","businessModel":"...","marketSize":"...","competitors":["...","...","..."]}`

const userPromptFmt = `分析创业想法：%s

输出完整JSON（每个字段50-80字）：problem、solution、targetUsers、valueProposition、businessModel、marketSize、competitors(3个竞品)。`

// Extractor asks the model for business elements and parses the reply.
type Extractor struct {
	client llm.Client
}

func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract derives the seven business elements from a raw idea string.
func (e *Extractor) Extract(ctx context.Context, idea string) (*model.BusinessElements, error) {
	temperature := 0.7
	maxTokens := 2500
	topP := 0.9

	resp, err := e.client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFmt, idea)},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		TopP:        &topP,
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract business elements")
	}

	text, err := resp.Text()
	if err != nil {
		return nil, eris.Wrap(err, "extract business elements")
	}

	elements, err := ParseElements(text)
	if err != nil {
		zap.L().Warn("unparseable extraction response",
			zap.Int("response_len", len(text)),
			zap.Error(err))
		return nil, err
	}
	zap.L().Debug("extracted business elements",
		zap.Int("competitors", len(elements.Competitors)))
	return elements, nil
}
