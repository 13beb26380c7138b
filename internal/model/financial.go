package model

// RevenueModel enumerates how a revenue stream charges.
type RevenueModel string

const (
	RevenueSubscription RevenueModel = "subscription"
	RevenueOneTime      RevenueModel = "one-time"
	RevenueUsageBased   RevenueModel = "usage-based"
	RevenueFreemium     RevenueModel = "freemium"
	RevenueAdvertising  RevenueModel = "advertising"
	RevenueOther        RevenueModel = "other"
)

// CostCategory enumerates cost behavior classes.
type CostCategory string

const (
	CostFixed        CostCategory = "fixed"
	CostVariable     CostCategory = "variable"
	CostSemiVariable CostCategory = "semi-variable"
)

// CostFrequency enumerates how often a cost recurs.
type CostFrequency string

const (
	FrequencyMonthly   CostFrequency = "monthly"
	FrequencyQuarterly CostFrequency = "quarterly"
	FrequencyYearly    CostFrequency = "yearly"
	FrequencyOneTime   CostFrequency = "one-time"
)

// RevenueStream is a single revenue source. Amounts are in ten-thousand
// CNY (万元), the convention used throughout the financial model.
type RevenueStream struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Model       RevenueModel `json:"model"`
	Pricing     float64      `json:"pricing"`
	Unit        string       `json:"unit"`
}

// CostItem is a single cost-structure entry.
type CostItem struct {
	Category    CostCategory  `json:"category"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Amount      float64       `json:"amount"`
	Frequency   CostFrequency `json:"frequency"`
}

// Projection is one forecast year. Years 1 through 3 are always present
// in a normalized model.
type Projection struct {
	Year      int     `json:"year"`
	Revenue   float64 `json:"revenue"`
	Costs     float64 `json:"costs"`
	Profit    float64 `json:"profit"`
	Users     int64   `json:"users"`
	Breakeven bool    `json:"breakeven"`
}

// FundingNeeds describes the funding ask.
type FundingNeeds struct {
	Amount    float64  `json:"amount"`
	Usage     []string `json:"usage"`
	Milestone []string `json:"milestone"`
}

// Metrics holds the standard unit-economics figures.
type Metrics struct {
	LTV         float64 `json:"ltv"`
	CAC         float64 `json:"cac"`
	LTVCACRatio float64 `json:"ltvCacRatio"`
	BurnRate    float64 `json:"burnRate"`
	Runway      float64 `json:"runway"`
}

// FinancialModel is the derived financial artifact. It is rebuilt from
// scratch on every request and normalized so that all invariants hold
// regardless of how incomplete the model output was.
type FinancialModel struct {
	RevenueStreams []RevenueStream `json:"revenueStreams"`
	CostStructure  []CostItem      `json:"costStructure"`
	Projections    []Projection    `json:"projections"`
	Assumptions    []string        `json:"assumptions"`
	FundingNeeds   FundingNeeds    `json:"fundingNeeds"`
	Metrics        Metrics         `json:"metrics"`
}
