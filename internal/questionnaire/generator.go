// Package questionnaire generates market validation surveys from
// extracted business elements. Parsing is strict: a malformed question
// fails the whole batch so a survey is never delivered partially broken.
package questionnaire

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

const systemPrompt = `你是一个专业的市场调研专家。你的任务是基于商业要素生成结构化的市场验证问卷 JSON 数据。

严格规则：
1. 只输出纯 JSON 格式，不要任何其他文字
2. 不要添加注释、解释或思考过程
3. 确保 JSON 格式完全有效
4. 所有字符串必须使用双引号
5. 不要在字符串中使用未转义的引号或换行符`

const userPromptFmt = `基于以下商业要素，生成一份市场验证问卷。

商业要素：
%s

请严格按照以下 JSON 格式输出（不要任何其他内容）：

{
  "questions": [
    {
      "id": 1,
      "category": "问题认知",
      "type": "choice",
      "question": "您是否遇到过相关问题？",
      "options": ["经常遇到", "偶尔遇到", "很少遇到", "从未遇到"],
      "purpose": "了解用户对问题的认知程度"
    }
  ]
}

要求：
1. 生成 10-12 个问题
2. 问题分类：问题认知（2-3题）、解决方案（2-3题）、用户画像（2-3题）、付费意愿（2-3题）
3. 问题类型：choice（单选）、multiple（多选）、scale（量表1-5分）、text（开放）
4. 每个问题都要有明确的调研目的
5. 选项要具体、简短、互斥
6. 问题描述要清晰简洁

立即输出 JSON（不要其他任何文字）：`

// Questionnaire is the survey artifact delivered to the caller.
type Questionnaire struct {
	Title     string                  `json:"title"`
	Elements  *model.BusinessElements `json:"elements"`
	Questions []model.Question        `json:"questions"`
	CreatedAt time.Time               `json:"createdAt"`
}

// Generator produces validation questionnaires.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate asks the model for a question batch and validates it.
func (g *Generator) Generate(ctx context.Context, elements *model.BusinessElements) (*Questionnaire, error) {
	if elements == nil {
		return nil, eris.New("business elements required")
	}

	elementsJSON, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshal business elements")
	}

	temperature := 0.8
	maxTokens := 3000

	resp, err := g.client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFmt, elementsJSON)},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "generate questionnaire")
	}

	text, err := resp.Text()
	if err != nil {
		return nil, eris.Wrap(err, "generate questionnaire")
	}

	questions, err := ParseQuestions(text)
	if err != nil {
		zap.L().Warn("questionnaire rejected",
			zap.Int("response_len", len(text)),
			zap.Error(err))
		return nil, err
	}
	zap.L().Debug("questionnaire generated", zap.Int("questions", len(questions)))

	return &Questionnaire{
		Title:     "市场验证问卷",
		Elements:  elements,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	}, nil
}
