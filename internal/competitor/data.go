// Package competitor matches business elements against a static
// competitor reference table and produces a deterministic, rule-based
// analysis. No model call is involved; the same elements always yield
// the same report.
package competitor

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pitchforge/pitchforge/internal/model"
)

//go:embed competitors.yaml
var datasetYAML []byte

var dataset []model.Competitor

func init() {
	if err := yaml.Unmarshal(datasetYAML, &dataset); err != nil {
		panic(fmt.Sprintf("competitor: bad embedded dataset: %v", err))
	}
}

// Dataset returns the full reference table. Callers must not mutate it.
func Dataset() []model.Competitor {
	return dataset
}
