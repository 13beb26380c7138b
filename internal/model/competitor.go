package model

// Competitor is one entry from the static competitor reference table.
// The table is loaded once at startup and never mutated at runtime.
type Competitor struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Industry    []string `json:"industry" yaml:"industry"`
	Description string   `json:"description" yaml:"description"`
	Strengths   []string `json:"strengths" yaml:"strengths"`
	Weaknesses  []string `json:"weaknesses" yaml:"weaknesses"`
	MarketShare string   `json:"marketShare,omitempty" yaml:"market_share,omitempty"`
	TargetUsers string   `json:"targetUsers,omitempty" yaml:"target_users,omitempty"`
	Pricing     string   `json:"pricing,omitempty" yaml:"pricing,omitempty"`
	Founded     string   `json:"founded,omitempty" yaml:"founded,omitempty"`
}

// CompetitorNarrative is the rule-generated analysis text.
type CompetitorNarrative struct {
	MarketOverview          string   `json:"marketOverview"`
	CompetitiveAdvantages   []string `json:"competitiveAdvantages"`
	DifferentiationStrategy string   `json:"differentiationStrategy"`
	MarketGap               string   `json:"marketGap"`
	Recommendations         []string `json:"recommendations"`
}

// CompetitorAnalysis is the full deterministic analysis result: the top
// matched competitors plus the narrative.
type CompetitorAnalysis struct {
	Competitors []Competitor        `json:"competitors"`
	Analysis    CompetitorNarrative `json:"analysis"`
}

// CompetitorRow is the flattened table projection served alongside the
// analysis for direct rendering.
type CompetitorRow struct {
	Name        string `json:"name"`
	MarketShare string `json:"marketShare"`
	Strengths   string `json:"strengths"`
	Weaknesses  string `json:"weaknesses"`
	Pricing     string `json:"pricing"`
	TargetUsers string `json:"targetUsers"`
}
