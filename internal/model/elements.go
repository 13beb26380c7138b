package model

// BusinessElements is the structured summary extracted from a free-text
// startup idea. It is created once by the extraction parser and read-only
// afterward; every downstream artifact references it.
type BusinessElements struct {
	Problem          string   `json:"problem"`
	Solution         string   `json:"solution"`
	TargetUsers      string   `json:"targetUsers"`
	ValueProposition string   `json:"valueProposition"`
	BusinessModel    string   `json:"businessModel"`
	MarketSize       string   `json:"marketSize"`
	Competitors      []string `json:"competitors"`
}

// Complete reports whether all six text fields are populated and at least
// one competitor entry is present. The extraction parser guarantees this
// for every value it returns.
func (e *BusinessElements) Complete() bool {
	return e.Problem != "" &&
		e.Solution != "" &&
		e.TargetUsers != "" &&
		e.ValueProposition != "" &&
		e.BusinessModel != "" &&
		e.MarketSize != "" &&
		len(e.Competitors) > 0
}
