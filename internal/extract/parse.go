package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pitchforge/pitchforge/internal/llmtext"
	"github.com/pitchforge/pitchforge/internal/model"
)

// ErrNoUsableJSON means no parsing strategy could recover a JSON object
// from the model output.
var ErrNoUsableJSON = eris.New("no usable JSON structure in model output")

// Placeholder values substituted when a field is missing from the model
// output. Downstream generators treat them as ordinary text.
const (
	placeholderProblem    = "用户痛点待分析"
	placeholderSolution   = "解决方案待完善"
	placeholderUsers      = "目标用户待定义"
	placeholderValue      = "价值主张待提炼"
	placeholderModel      = "商业模式待设计"
	placeholderMarket     = "市场规模待评估"
	placeholderCompetitor = "竞品待分析"
	truncatedPlaceholder  = "待分析"
	minCandidateLen       = 50
)

var fieldRes = map[string]*regexp.Regexp{
	"problem":          regexp.MustCompile(`["']?problem["']?\s*:\s*["']([^"']*)["']`),
	"solution":         regexp.MustCompile(`["']?solution["']?\s*:\s*["']([^"']*)["']`),
	"targetUsers":      regexp.MustCompile(`["']?targetUsers["']?\s*:\s*["']([^"']*)["']`),
	"valueProposition": regexp.MustCompile(`["']?valueProposition["']?\s*:\s*["']([^"']*)["']`),
	"businessModel":    regexp.MustCompile(`["']?businessModel["']?\s*:\s*["']([^"']*)["']`),
	"marketSize":       regexp.MustCompile(`["']?marketSize["']?\s*:\s*["']([^"']*)["']`),
}

var competitorsRe = regexp.MustCompile(`["']?competitors["']?\s*:\s*\[([^\]]*)\]`)

// ParseElements recovers a BusinessElements value from raw model output.
// Strategies are tried in order of decreasing trust: fenced code block,
// brace span, unclosed-object repair, and finally per-field scraping of a
// truncated response. Every returned value has all text fields non-empty
// and at least one competitor.
func ParseElements(raw string) (*model.BusinessElements, error) {
	content := llmtext.StripThink(raw)

	candidate, ok := llmtext.FencedJSON(content)
	if !ok {
		candidate, _ = llmtext.BraceSpan(content)
	}
	if candidate == "" {
		// An opening brace without a closing one means the output was
		// cut off mid-object.
		if i := strings.Index(content, "{"); i >= 0 {
			candidate = content[i:]
		}
	}

	var loose map[string]any
	if candidate != "" {
		if err := json.Unmarshal([]byte(candidate), &loose); err != nil {
			loose = nil
			if !strings.HasSuffix(strings.TrimSpace(candidate), "}") {
				repaired := repairUnclosed(candidate)
				if err := json.Unmarshal([]byte(repaired), &loose); err != nil {
					loose = nil
				}
			}
		}
	}

	if loose == nil && len(candidate) < minCandidateLen {
		loose = scrapeFields(content)
	}
	if loose == nil {
		return nil, eris.Wrapf(ErrNoUsableJSON, "content length %d", len(content))
	}
	return elementsFromLoose(loose), nil
}

// repairUnclosed closes a truncated JSON object: the trailing comma is
// dropped, a placeholder competitors array is injected when the cut
// happened before that key, and the object is closed.
func repairUnclosed(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	if !strings.Contains(s, `"competitors"`) {
		s += `,"competitors":["` + truncatedPlaceholder + `","` + truncatedPlaceholder + `","` + truncatedPlaceholder + `"]`
	}
	return s + "}"
}

// scrapeFields pulls individual fields out of a severely truncated
// response. It reports nothing usable unless at least problem or
// solution survived the cut.
func scrapeFields(content string) map[string]any {
	loose := make(map[string]any)
	for key, re := range fieldRes {
		if m := re.FindStringSubmatch(content); m != nil {
			loose[key] = m[1]
		}
	}
	if loose["problem"] == nil && loose["solution"] == nil {
		return nil
	}
	if m := competitorsRe.FindStringSubmatch(content); m != nil {
		var competitors []any
		for _, c := range strings.Split(m[1], ",") {
			c = strings.Trim(strings.TrimSpace(c), `'"`)
			if c != "" {
				competitors = append(competitors, c)
			}
		}
		loose["competitors"] = competitors
	}
	return loose
}

func elementsFromLoose(loose map[string]any) *model.BusinessElements {
	elements := &model.BusinessElements{
		Problem:          looseString(loose, "problem", placeholderProblem),
		Solution:         looseString(loose, "solution", placeholderSolution),
		TargetUsers:      looseString(loose, "targetUsers", placeholderUsers),
		ValueProposition: looseString(loose, "valueProposition", placeholderValue),
		BusinessModel:    looseString(loose, "businessModel", placeholderModel),
		MarketSize:       looseString(loose, "marketSize", placeholderMarket),
	}
	if list, ok := loose["competitors"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				elements.Competitors = append(elements.Competitors, strings.TrimSpace(s))
			}
		}
	}
	if len(elements.Competitors) == 0 {
		elements.Competitors = []string{placeholderCompetitor}
	}
	return elements
}

func looseString(loose map[string]any, key, fallback string) string {
	if s, ok := loose[key].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}
