package competitor

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pitchforge/pitchforge/internal/model"
)

const maxMatches = 5
const topCompetitors = 3

// Search returns reference competitors matching any of the keywords,
// ordered by how many keywords hit their industry tags or name, capped
// at five. Ties keep dataset order.
func Search(keywords []string) []model.Competitor {
	if len(keywords) == 0 {
		return nil
	}

	var matched []model.Competitor
	for _, comp := range dataset {
		if matchesAny(comp, keywords) {
			matched = append(matched, comp)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return score(matched[i], keywords) > score(matched[j], keywords)
	})
	if len(matched) > maxMatches {
		matched = matched[:maxMatches]
	}
	return matched
}

func matchesAny(comp model.Competitor, keywords []string) bool {
	for _, kw := range keywords {
		for _, industry := range comp.Industry {
			if strings.Contains(industry, kw) {
				return true
			}
		}
		if strings.Contains(comp.Name, kw) ||
			strings.Contains(comp.Description, kw) ||
			strings.Contains(comp.TargetUsers, kw) {
			return true
		}
	}
	return false
}

func score(comp model.Competitor, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		hit := strings.Contains(comp.Name, kw)
		for _, industry := range comp.Industry {
			if strings.Contains(industry, kw) {
				hit = true
				break
			}
		}
		if hit {
			n++
		}
	}
	return n
}

// Analyze produces the full deterministic competitor report for the
// given elements. The narrative is derived from up to five matched
// competitors; the returned list is the top three.
func Analyze(elements *model.BusinessElements) *model.CompetitorAnalysis {
	keywords := ExtractKeywords(elements)
	matched := Search(keywords)

	analysis := &model.CompetitorAnalysis{
		Analysis: narrative(elements, matched),
	}
	if len(matched) > topCompetitors {
		analysis.Competitors = matched[:topCompetitors]
	} else {
		analysis.Competitors = matched
	}
	return analysis
}

func narrative(elements *model.BusinessElements, matched []model.Competitor) model.CompetitorNarrative {
	common := commonWeaknesses(matched)
	hasAISolution := elements != nil && strings.Contains(elements.Solution, "AI")

	n := model.CompetitorNarrative{
		MarketOverview:  marketOverview(matched),
		MarketGap:       marketGap(matched, common),
		Recommendations: recommendations(matched),
	}

	for _, weakness := range common {
		switch {
		case strings.Contains(weakness, "个性化") && hasAISolution:
			n.CompetitiveAdvantages = appendUnique(n.CompetitiveAdvantages,
				"利用AI技术提供个性化服务，解决现有产品千篇一律的问题")
		case strings.Contains(weakness, "老年人") && elements != nil && strings.Contains(elements.TargetUsers, "老年人"):
			n.CompetitiveAdvantages = appendUnique(n.CompetitiveAdvantages,
				"专注老年人群体，提供更友好的交互体验")
		case strings.Contains(weakness, "价格"), strings.Contains(weakness, "成本"):
			n.CompetitiveAdvantages = appendUnique(n.CompetitiveAdvantages,
				"通过技术创新降低成本，提供更具性价比的解决方案")
		case strings.Contains(weakness, "数据"), strings.Contains(weakness, "隐私"):
			n.CompetitiveAdvantages = appendUnique(n.CompetitiveAdvantages,
				"注重用户隐私保护和数据安全，建立信任优势")
		}
	}
	if len(n.CompetitiveAdvantages) == 0 {
		if hasAISolution {
			n.CompetitiveAdvantages = append(n.CompetitiveAdvantages, "AI技术赋能，提升服务效率和精准度")
		}
		n.CompetitiveAdvantages = append(n.CompetitiveAdvantages,
			"精准定位细分市场，避免与巨头正面竞争",
			"灵活创新，快速响应用户需求")
	}

	var strategy strings.Builder
	if elements != nil && elements.TargetUsers != "" {
		strategy.WriteString("聚焦" + elements.TargetUsers + "这一细分人群，")
	}
	if hasAISolution {
		strategy.WriteString("通过AI技术实现智能化和个性化，")
	}
	strategy.WriteString("打造轻量级、易用性强的产品体验。")
	n.DifferentiationStrategy = strategy.String()

	return n
}

func marketOverview(matched []model.Competitor) string {
	if len(matched) == 0 {
		return "这是一个相对新兴或细分的市场领域，现有竞争者较少，存在先发优势机会。"
	}

	var industries []string
	seen := make(map[string]bool)
	for _, comp := range matched {
		for _, industry := range comp.Industry {
			if !seen[industry] {
				seen[industry] = true
				industries = append(industries, industry)
			}
		}
	}
	if len(industries) > 3 {
		industries = industries[:3]
	}
	var names []string
	for _, comp := range matched {
		names = append(names, comp.Name)
	}

	overview := "当前" + strings.Join(industries, "、") + "领域竞争激烈，主要玩家包括" + strings.Join(names, "、") + "等。"

	totalShare := 0.0
	for _, comp := range matched {
		totalShare += parseShare(comp.MarketShare)
	}
	if totalShare > 60 {
		overview += "头部企业市场份额较高（约" + formatShare(totalShare) + "%），市场集中度较强，新进入者需要明确差异化策略。"
	} else {
		overview += "市场较为分散，仍有较大的创新和进入机会。"
	}
	return overview
}

func marketGap(matched []model.Competitor, common []string) string {
	if len(matched) == 0 {
		return "这是一个新兴市场，有机会成为品类开创者。"
	}

	var gap strings.Builder
	if containsAny(common, "AI", "个性化") {
		gap.WriteString("现有产品AI应用不足，智能化体验有待提升。")
	}
	if containsAny(common, "体验", "复杂") {
		gap.WriteString("用户体验复杂，存在简化和优化空间。")
	}
	if containsAny(common, "老年", "下沉") {
		gap.WriteString("特定人群（如老年人）的需求未被充分满足。")
	}
	if gap.Len() == 0 {
		return "市场中存在服务不够精细化、用户体验不够友好的空白地带。"
	}
	return gap.String()
}

func recommendations(matched []model.Competitor) []string {
	recs := []string{
		"聚焦核心用户群体，深度挖掘痛点需求",
		"快速迭代产品，建立用户口碑和社区",
		"构建技术壁垒（如AI算法、数据积累），提高竞争门槛",
	}
	if len(matched) > 2 {
		return append(recs,
			"避免与头部企业正面竞争，寻找差异化切入点",
			"考虑与现有平台合作，借力生态资源")
	}
	return append(recs, "抓住先发优势，快速占领市场心智")
}

// weaknessKeywords is ordered so the derived narrative is stable.
var weaknessKeywords = []struct {
	substr    string
	canonical string
}{
	{"个性化", "个性化"},
	{"老年", "老年人"},
	{"价格", "价格"},
	{"成本", "成本"},
	{"数据", "数据"},
	{"隐私", "隐私"},
	{"AI", "AI"},
	{"体验", "体验"},
	{"复杂", "复杂"},
	{"下沉", "下沉"},
	{"盈利", "盈利"},
	{"获客", "获客"},
	{"留存", "留存"},
}

// commonWeaknesses returns canonical weakness keywords shared by at
// least two matched competitors. With a single competitor every keyword
// counts.
func commonWeaknesses(matched []model.Competitor) []string {
	if len(matched) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, comp := range matched {
		for _, weakness := range comp.Weaknesses {
			for _, kw := range weaknessKeywords {
				if strings.Contains(weakness, kw.substr) {
					counts[kw.canonical]++
				}
			}
		}
	}

	var common []string
	for _, kw := range weaknessKeywords {
		if counts[kw.canonical] >= 2 || (len(matched) == 1 && counts[kw.canonical] > 0) {
			common = appendUnique(common, kw.canonical)
		}
	}
	return common
}

// FormatTable flattens competitors into rows for direct rendering.
func FormatTable(competitors []model.Competitor) []model.CompetitorRow {
	rows := make([]model.CompetitorRow, 0, len(competitors))
	for _, comp := range competitors {
		row := model.CompetitorRow{
			Name:        comp.Name,
			MarketShare: comp.MarketShare,
			Strengths:   strings.Join(comp.Strengths, "、"),
			Weaknesses:  strings.Join(comp.Weaknesses, "、"),
			Pricing:     comp.Pricing,
			TargetUsers: comp.TargetUsers,
		}
		if row.MarketShare == "" {
			row.MarketShare = "未知"
		}
		if row.Pricing == "" {
			row.Pricing = "未知"
		}
		if row.TargetUsers == "" {
			row.TargetUsers = "通用用户"
		}
		rows = append(rows, row)
	}
	return rows
}

// parseShare reads the leading number out of a market-share string such
// as "70%（短视频）".
func parseShare(share string) float64 {
	var n float64
	for _, r := range share {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + float64(r-'0')
	}
	return n
}

func formatShare(share float64) string {
	return strconv.Itoa(int(math.Round(share)))
}

func containsAny(list []string, substrs ...string) bool {
	for _, s := range list {
		for _, sub := range substrs {
			if strings.Contains(s, sub) {
				return true
			}
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
