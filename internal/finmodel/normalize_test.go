package finmodel

import (
	"errors"
	"testing"
)

func TestParse_EmptyObjectFails(t *testing.T) {
	_, err := Parse("{}")
	if !errors.Is(err, ErrIncompleteModel) {
		t.Fatalf("err = %v, want ErrIncompleteModel", err)
	}
}

func TestParse_MissingProjectionsFails(t *testing.T) {
	_, err := Parse(`{"revenueStreams":[],"costStructure":[]}`)
	if !errors.Is(err, ErrIncompleteModel) {
		t.Fatalf("err = %v, want ErrIncompleteModel", err)
	}
}

func TestParse_NoJSONFails(t *testing.T) {
	if _, err := Parse("无法生成财务模型"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_MinimalModelIsFullyDefaulted(t *testing.T) {
	raw := "```json\n" + `{
		"revenueStreams": [{"name": "课程订阅"}],
		"costStructure": [{"name": "服务器"}],
		"projections": [
			{"year": 1, "revenue": 300, "costs": 500},
			{"year": 2, "revenue": 800, "costs": 600},
			{"year": 3, "revenue": 2000, "costs": 1000}
		]
	}` + "\n```"

	fm, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	stream := fm.RevenueStreams[0]
	if stream.Model != "subscription" || stream.Unit != "用户/月" || stream.Pricing != 0 {
		t.Errorf("stream defaults wrong: %+v", stream)
	}
	cost := fm.CostStructure[0]
	if cost.Category != "fixed" || cost.Frequency != "monthly" || cost.Amount != 0 {
		t.Errorf("cost defaults wrong: %+v", cost)
	}

	p1 := fm.Projections[0]
	if p1.Profit != -200 {
		t.Errorf("year 1 profit = %v, want revenue-costs", p1.Profit)
	}
	if p1.Users != 3 {
		t.Errorf("year 1 users = %v, want floor(300/100)", p1.Users)
	}
	if p1.Breakeven {
		t.Error("year 1 should not break even")
	}
	if !fm.Projections[1].Breakeven || !fm.Projections[2].Breakeven {
		t.Error("profitable years should break even")
	}

	if len(fm.Assumptions) != 3 {
		t.Errorf("assumptions = %v, want 3 defaults", fm.Assumptions)
	}

	m := fm.Metrics
	if m.LTV != 5000 || m.CAC != 200 {
		t.Errorf("ltv/cac = %v/%v", m.LTV, m.CAC)
	}
	if m.LTVCACRatio != 25 {
		t.Errorf("ltvCacRatio = %v, want ltv/cac", m.LTVCACRatio)
	}
	if m.BurnRate != 41 {
		t.Errorf("burnRate = %v, want floor(500/12)", m.BurnRate)
	}
	if m.Runway != 7 {
		t.Errorf("runway = %v, want floor(300/41)", m.Runway)
	}
}

func TestNormalize_ExplicitValuesKept(t *testing.T) {
	loose := map[string]any{
		"revenueStreams": []any{map[string]any{
			"name": "广告", "description": "信息流广告", "model": "advertising", "pricing": 0.5, "unit": "千次展示",
		}},
		"costStructure": []any{map[string]any{
			"category": "variable", "name": "带宽", "description": "CDN", "amount": 8.5, "frequency": "yearly",
		}},
		"projections": []any{map[string]any{
			"year": 1.0, "revenue": 100.0, "costs": 80.0, "profit": 15.0, "users": 2000.0, "breakeven": false,
		}},
		"assumptions": []any{"单一假设"},
		"fundingNeeds": map[string]any{
			"amount": 600.0, "usage": []any{"研发"}, "milestone": []any{"上线"},
		},
		"metrics": map[string]any{
			"ltv": 900.0, "cac": 300.0, "ltvCacRatio": 3.0, "burnRate": 20.0, "runway": 30.0,
		},
	}

	fm, err := Normalize(loose)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if fm.RevenueStreams[0].Model != "advertising" || fm.RevenueStreams[0].Pricing != 0.5 {
		t.Errorf("stream = %+v", fm.RevenueStreams[0])
	}
	if fm.CostStructure[0].Frequency != "yearly" || fm.CostStructure[0].Amount != 8.5 {
		t.Errorf("cost = %+v", fm.CostStructure[0])
	}
	p := fm.Projections[0]
	if p.Profit != 15 || p.Users != 2000 || p.Breakeven {
		t.Errorf("projection = %+v", p)
	}
	if fm.Metrics.Runway != 30 || fm.Metrics.BurnRate != 20 {
		t.Errorf("metrics = %+v", fm.Metrics)
	}
	if len(fm.Assumptions) != 1 || fm.Assumptions[0] != "单一假设" {
		t.Errorf("assumptions = %v", fm.Assumptions)
	}
}

func TestNormalize_UseOfFundsRemap(t *testing.T) {
	loose := map[string]any{
		"revenueStreams": []any{},
		"costStructure":  []any{},
		"projections":    []any{},
		"fundingNeeds": map[string]any{
			"amount":     200.0,
			"useOfFunds": []any{"招聘", "推广"},
		},
	}
	fm, err := Normalize(loose)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(fm.FundingNeeds.Usage) != 2 || fm.FundingNeeds.Usage[0] != "招聘" {
		t.Errorf("usage = %v", fm.FundingNeeds.Usage)
	}
	if len(fm.FundingNeeds.Milestone) != 3 {
		t.Errorf("milestone = %v, want 3 defaults", fm.FundingNeeds.Milestone)
	}
}

func TestNormalize_ScalarAssumptionWrapped(t *testing.T) {
	loose := map[string]any{
		"revenueStreams": []any{},
		"costStructure":  []any{},
		"projections":    []any{},
		"assumptions":    "市场持续增长",
	}
	fm, err := Normalize(loose)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(fm.Assumptions) != 1 || fm.Assumptions[0] != "市场持续增长" {
		t.Errorf("assumptions = %v", fm.Assumptions)
	}
}

func TestNormalize_BurnRateFallbackWithoutProjectionCosts(t *testing.T) {
	loose := map[string]any{
		"revenueStreams": []any{},
		"costStructure":  []any{},
		"projections":    []any{},
	}
	fm, err := Normalize(loose)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if fm.Metrics.BurnRate != 8 {
		t.Errorf("burnRate = %v, want floor(100/12)", fm.Metrics.BurnRate)
	}
	if fm.Metrics.Runway != 37 {
		t.Errorf("runway = %v, want floor(300/8)", fm.Metrics.Runway)
	}
}
