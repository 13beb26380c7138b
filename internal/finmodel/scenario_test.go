package finmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchforge/pitchforge/internal/extract"
)

// End-to-end: a raw idea goes through extraction, and when the financial
// model call returns unusable output the caller falls back to the canned
// model.
func TestIdeaToFinancialFallback(t *testing.T) {
	extractStub := &stubLLM{content: `{
		"problem": "独居年轻人出差时宠物无人照看",
		"solution": "邻里宠物共享与寄养撮合平台",
		"targetUsers": "一线城市独居养宠年轻人",
		"valueProposition": "可信赖的附近宠物照看",
		"businessModel": "平台撮合抽佣",
		"marketSize": "宠物经济规模近五千亿",
		"competitors": ["小佩宠物", "波奇宠物"]
	}`}

	elements, err := extract.NewExtractor(extractStub).
		Extract(context.Background(), "一个为独居年轻人提供宠物共享的平台")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if elements.Problem == "" || elements.Solution == "" || elements.TargetUsers == "" {
		t.Fatalf("elements incomplete: %+v", elements)
	}
	if len(elements.Competitors) == 0 {
		t.Fatal("expected at least one competitor")
	}

	gen := NewGenerator(&stubLLM{content: `{}`})
	if _, err := gen.Generate(context.Background(), elements); !errors.Is(err, ErrIncompleteModel) {
		t.Fatalf("Generate err = %v, want ErrIncompleteModel", err)
	}

	fm := DefaultModel()
	if len(fm.Projections) != 3 {
		t.Errorf("fallback projections = %d, want 3", len(fm.Projections))
	}
	if fm.Metrics.LTV != 5000 || fm.Metrics.CAC != 200 {
		t.Errorf("fallback metrics = %+v", fm.Metrics)
	}
}
