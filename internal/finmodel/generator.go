// Package finmodel generates the financial projection artifact from
// extracted business elements. The completion model is asked for a fixed
// JSON schema and the reply is normalized so every downstream consumer
// sees a complete model.
package finmodel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/pkg/llm"
)

const systemPrompt = `你是财务分析师。
严格规则：
1. 只输出纯JSON，不要任何其他文字
2. 不要解释、思考过程、或者前言后语
3. 不要OK、好的、明白等词汇
4. JSON必须使用双引号
5. 如果无法生成，请返回空JSON对象 {}`

const userPromptFmt = `基于以下商业要素生成财务模型JSON。

商业要素：
%s

请严格按照以下JSON格式输出（不要任何其他内容）：

{
  "revenueStreams": [
    {
      "name": "收入来源名称",
      "description": "描述",
      "model": "subscription",
      "pricing": 199,
      "unit": "用户/月"
    }
  ],
  "costStructure": [
    {
      "category": "fixed",
      "name": "成本项名称",
      "description": "描述",
      "amount": 50000,
      "frequency": "monthly"
    }
  ],
  "projections": [
    {"year": 1, "revenue": 300, "costs": 500, "profit": -200, "users": 10000, "breakeven": false},
    {"year": 2, "revenue": 800, "costs": 600, "profit": 200, "users": 50000, "breakeven": true},
    {"year": 3, "revenue": 2000, "costs": 1000, "profit": 1000, "users": 150000, "breakeven": true}
  ],
  "assumptions": ["关键假设1", "关键假设2", "关键假设3"],
  "fundingNeeds": {
    "amount": 500,
    "usage": ["用途1", "用途2", "用途3"],
    "milestone": ["里程碑1", "里程碑2", "里程碑3"]
  },
  "metrics": {"ltv": 5000, "cac": 200, "ltvCacRatio": 25, "burnRate": 50, "runway": 18}
}

要求：
1. model 只能是: "subscription", "one-time", "usage-based", "freemium", "advertising", "other"
2. category 只能是: "fixed", "variable", "semi-variable"
3. frequency 只能是: "monthly", "quarterly", "yearly", "one-time"
4. 金额单位为万元人民币
5. projections 必须包含 year 1-3
6. 所有数字必须是合理的估算值

立即输出 JSON（不要其他任何文字）：`

// Generator produces financial models for business elements.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate asks the model for a financial projection and normalizes the
// reply. Elements must at least carry a business model description.
func (g *Generator) Generate(ctx context.Context, elements *model.BusinessElements) (*model.FinancialModel, error) {
	if elements == nil || elements.BusinessModel == "" {
		return nil, eris.New("business elements missing business model")
	}

	elementsJSON, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshal business elements")
	}

	temperature := 0.3
	maxTokens := 6000

	resp, err := g.client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFmt, elementsJSON)},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "generate financial model")
	}

	text, err := resp.Text()
	if err != nil {
		return nil, eris.Wrap(err, "generate financial model")
	}

	fm, err := Parse(text)
	if err != nil {
		zap.L().Warn("financial model parse failed",
			zap.Int("response_len", len(text)),
			zap.Error(err))
		return nil, err
	}
	zap.L().Debug("financial model generated",
		zap.Int("revenue_streams", len(fm.RevenueStreams)),
		zap.Int("cost_items", len(fm.CostStructure)),
		zap.Int("projection_years", len(fm.Projections)))
	return fm, nil
}

// DefaultModel is a conservative fallback used when generation fails and
// the caller prefers a canned projection over no artifact at all.
func DefaultModel() *model.FinancialModel {
	return &model.FinancialModel{
		RevenueStreams: []model.RevenueStream{
			{Name: "订阅收入", Description: "核心产品订阅费", Model: model.RevenueSubscription, Pricing: 199, Unit: "用户/月"},
		},
		CostStructure: []model.CostItem{
			{Category: model.CostFixed, Name: "人力成本", Description: "研发与运营团队", Amount: 30, Frequency: model.FrequencyMonthly},
			{Category: model.CostVariable, Name: "获客成本", Description: "市场投放", Amount: 10, Frequency: model.FrequencyMonthly},
		},
		Projections: []model.Projection{
			{Year: 1, Revenue: 300, Costs: 500, Profit: -200, Users: 10000, Breakeven: false},
			{Year: 2, Revenue: 800, Costs: 600, Profit: 200, Users: 50000, Breakeven: true},
			{Year: 3, Revenue: 2000, Costs: 1000, Profit: 1000, Users: 150000, Breakeven: true},
		},
		Assumptions:  []string{"市场保持稳定增长", "用户获取成本逐步降低", "产品定价保持竞争力"},
		FundingNeeds: model.FundingNeeds{Amount: 500, Usage: []string{"产品研发", "市场推广", "团队扩张"}, Milestone: []string{"完成产品开发", "获得首批用户", "实现盈亏平衡"}},
		Metrics:      model.Metrics{LTV: 5000, CAC: 200, LTVCACRatio: 25, BurnRate: 50, Runway: 18},
	}
}
