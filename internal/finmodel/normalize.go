package finmodel

import (
	"encoding/json"
	"math"

	"github.com/rotisserie/eris"

	"github.com/pitchforge/pitchforge/internal/llmtext"
	"github.com/pitchforge/pitchforge/internal/model"
)

// ErrIncompleteModel means the model output parsed as JSON but is missing
// one of the three required top-level arrays. Repair can fill fields, not
// whole sections.
var ErrIncompleteModel = eris.New("financial model data incomplete")

// Parse extracts a JSON object from raw model output and normalizes it
// into a complete FinancialModel.
func Parse(raw string) (*model.FinancialModel, error) {
	content := llmtext.StripThink(raw)

	candidate, ok := llmtext.FencedJSON(content)
	if !ok {
		candidate, ok = llmtext.BraceSpan(content)
	}
	if !ok {
		return nil, eris.New("no JSON object in financial model output")
	}

	var loose map[string]any
	if err := json.Unmarshal([]byte(candidate), &loose); err != nil {
		return nil, eris.Wrap(err, "parse financial model JSON")
	}
	return Normalize(loose)
}

// Normalize repairs a loosely typed financial model into the canonical
// form. The three top-level arrays must be present; every other field is
// defaulted or derived. Profit is recomputed only when absent, users are
// estimated from revenue, and unit-economics metrics fall back to
// industry-typical figures so the caller never sees a partial model.
func Normalize(loose map[string]any) (*model.FinancialModel, error) {
	rawStreams, okStreams := loose["revenueStreams"].([]any)
	rawCosts, okCosts := loose["costStructure"].([]any)
	rawProjections, okProjections := loose["projections"].([]any)
	if !okStreams || !okCosts || !okProjections {
		return nil, ErrIncompleteModel
	}

	fm := &model.FinancialModel{}

	for _, v := range rawStreams {
		m, _ := v.(map[string]any)
		fm.RevenueStreams = append(fm.RevenueStreams, model.RevenueStream{
			Name:        str(m, "name", "收入来源"),
			Description: str(m, "description", "收入描述"),
			Model:       model.RevenueModel(str(m, "model", string(model.RevenueSubscription))),
			Pricing:     num(m, "pricing", 0),
			Unit:        str(m, "unit", "用户/月"),
		})
	}

	for _, v := range rawCosts {
		m, _ := v.(map[string]any)
		fm.CostStructure = append(fm.CostStructure, model.CostItem{
			Category:    model.CostCategory(str(m, "category", string(model.CostFixed))),
			Name:        str(m, "name", "成本项"),
			Description: str(m, "description", "成本描述"),
			Amount:      num(m, "amount", 0),
			Frequency:   model.CostFrequency(str(m, "frequency", string(model.FrequencyMonthly))),
		})
	}

	for _, v := range rawProjections {
		m, _ := v.(map[string]any)
		p := model.Projection{
			Year:    int(num(m, "year", 0)),
			Revenue: num(m, "revenue", 0),
			Costs:   num(m, "costs", 0),
		}
		if profit, ok := m["profit"]; ok {
			p.Profit, _ = asFloat(profit)
		} else {
			p.Profit = p.Revenue - p.Costs
		}
		if users := num(m, "users", 0); users != 0 {
			p.Users = int64(users)
		} else {
			p.Users = int64(math.Floor(p.Revenue / 100))
		}
		if breakeven, ok := m["breakeven"].(bool); ok {
			p.Breakeven = breakeven
		} else {
			p.Breakeven = p.Profit > 0
		}
		fm.Projections = append(fm.Projections, p)
	}

	if funding, ok := loose["fundingNeeds"].(map[string]any); ok {
		fm.FundingNeeds.Amount = num(funding, "amount", 0)
		fm.FundingNeeds.Usage = toStrings(funding["usage"])
		if len(fm.FundingNeeds.Usage) == 0 {
			// Some models name this key useOfFunds.
			fm.FundingNeeds.Usage = toStrings(funding["useOfFunds"])
		}
		fm.FundingNeeds.Milestone = toStrings(funding["milestone"])
		if len(fm.FundingNeeds.Milestone) == 0 {
			fm.FundingNeeds.Milestone = []string{"完成产品开发", "获得首批用户", "实现盈亏平衡"}
		}
	}

	fm.Assumptions = toStrings(loose["assumptions"])
	if len(fm.Assumptions) == 0 {
		fm.Assumptions = []string{"市场保持稳定增长", "用户获取成本逐步降低", "产品定价保持竞争力"}
	}

	metrics, _ := loose["metrics"].(map[string]any)
	fm.Metrics.LTV = num(metrics, "ltv", 5000)
	fm.Metrics.CAC = num(metrics, "cac", 200)
	fm.Metrics.LTVCACRatio = num(metrics, "ltvCacRatio", 0)
	if fm.Metrics.LTVCACRatio == 0 {
		fm.Metrics.LTVCACRatio = fm.Metrics.LTV / fm.Metrics.CAC
	}
	fm.Metrics.BurnRate = num(metrics, "burnRate", 0)
	if fm.Metrics.BurnRate == 0 {
		firstYearCosts := 100.0
		if len(fm.Projections) > 0 && fm.Projections[0].Costs != 0 {
			firstYearCosts = fm.Projections[0].Costs
		}
		fm.Metrics.BurnRate = math.Floor(firstYearCosts / 12)
	}
	fm.Metrics.Runway = num(metrics, "runway", 0)
	if fm.Metrics.Runway == 0 {
		funding := fm.FundingNeeds.Amount
		if funding == 0 {
			funding = 300
		}
		burn := fm.Metrics.BurnRate
		if burn == 0 {
			burn = 50
		}
		fm.Metrics.Runway = math.Floor(funding / burn)
	}

	return fm, nil
}

func str(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// num treats a missing key, a non-number, and zero alike, matching how
// defaults cascade through the rest of normalization.
func num(m map[string]any, key string, fallback float64) float64 {
	if f, ok := asFloat(m[key]); ok && f != 0 {
		return f
	}
	return fallback
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}
