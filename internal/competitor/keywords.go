package competitor

import (
	"strings"

	"github.com/pitchforge/pitchforge/internal/model"
)

var industryKeywords = []string{
	"健康", "医疗", "问诊", "体检", "康复", "养生",
	"教育", "学习", "K12", "培训", "课程", "辅导",
	"电商", "购物", "零售", "商城",
	"支付", "金融", "理财", "保险", "贷款",
	"外卖", "餐饮", "美食",
	"出行", "打车", "网约车", "导航", "地图",
	"社交", "聊天", "通讯", "社区",
	"办公", "协作", "企业", "OA", "文档",
	"资讯", "新闻", "内容", "阅读",
	"AI", "智能", "人工智能", "算法",
	"硬件", "物联网", "智能家居", "设备",
}

// segmentIndustries maps a user-segment word found in targetUsers to the
// industries it implies.
var segmentIndustries = map[string][]string{
	"老年人": {"健康", "医疗"},
	"学生":  {"教育", "学习"},
	"K12": {"教育", "学习"},
	"家长":  {"教育", "学习"},
	"儿童":  {"教育", "学习"},
	"青少年": {"教育", "学习"},
	"白领":  nil,
	"企业":  {"办公", "协作"},
	"商家":  {"电商", "零售"},
}

var segmentWords = []string{"老年人", "学生", "K12", "白领", "家长", "企业", "商家", "儿童", "青少年"}

// ExtractKeywords derives matching keywords from business elements: known
// industry words found in the descriptive fields, plus user-segment words
// from targetUsers together with the industries they imply.
func ExtractKeywords(elements *model.BusinessElements) []string {
	if elements == nil {
		return nil
	}

	var keywords []string
	seen := make(map[string]bool)
	add := func(kw string) {
		if !seen[kw] {
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	text := strings.Join([]string{
		elements.Problem,
		elements.Solution,
		elements.ValueProposition,
	}, " ")
	for _, kw := range industryKeywords {
		if strings.Contains(text, kw) {
			add(kw)
		}
	}

	for _, word := range segmentWords {
		if !strings.Contains(elements.TargetUsers, word) {
			continue
		}
		add(word)
		for _, industry := range segmentIndustries[word] {
			add(industry)
		}
	}
	return keywords
}
