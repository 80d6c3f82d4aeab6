package match

import (
	"regexp"

	"github.com/standardbeagle/lsc/internal/config"
	"github.com/standardbeagle/lsc/internal/types"
)

// ContextRule ties one subject label to the phrase templates that imply it
// even when the label itself never appears in the text.
type ContextRule struct {
	Label    string
	Patterns []*regexp.Regexp
}

// ContextMatcher is the last resort of the pipeline: ordered regex rules,
// first match wins, fixed confidence from configuration.
type ContextMatcher struct {
	rules      []ContextRule
	confidence float64
}

// defaultRules returns the built-in domain phrase templates. Rule order is
// significant: earlier rules win when several patterns would match.
func defaultRules() []ContextRule {
	return []ContextRule{
		{Label: "项目", Patterns: compileAll(
			`(?i)(项目|工程|计划|方案).*?(启动|实施|完成|进展|立项|开展)`,
			`(?i)(关于|有关).*?项目`,
		)},
		{Label: "研发", Patterns: compileAll(
			`(?i)(研发|研究|开发|技术).*?(创新|方案|产品|实验|算法)`,
			`(?i)(AI|ML|DL|人工智能|机器学习).*?(研究|开发)`,
		)},
		{Label: "市场", Patterns: compileAll(
			`(?i)(市场|营销|销售).*?(分析|调研|策略|推广|客户)`,
			`(?i)(用户|客户).*?(需求|调研|分析)`,
		)},
		{Label: "财务", Patterns: compileAll(
			`(?i)(财务|资金|预算|成本|收入).*?(管理|分析|规划|控制)`,
			`(?i)(利润|营收|支出).*?(统计|分析)`,
		)},
		{Label: "产品", Patterns: compileAll(
			`(?i)(产品|商品).*?(开发|设计|优化|上线|迭代)`,
			`(?i)(功能|特性).*?(设计|开发)`,
		)},
		{Label: "分析", Patterns: compileAll(
			`(?i)(分析|统计|数据).*?(报告|结果|趋势|洞察|可视化)`,
			`(?i)(数据|指标).*?(分析|统计)`,
		)},
		{Label: "评估", Patterns: compileAll(
			`(?i)(评估|评价|评审|考核).*?(风险|价值|效果|成果)`,
			`(?i)(绩效|表现).*?(评估|评价)`,
		)},
	}
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// NewContextMatcher creates a matcher with the built-in rules and the
// configured context confidence.
func NewContextMatcher(cfg config.Matching) *ContextMatcher {
	return &ContextMatcher{rules: defaultRules(), confidence: cfg.ContextConfidence}
}

// NewContextMatcherWithRules creates a matcher over caller-supplied rules,
// evaluated in the order given.
func NewContextMatcherWithRules(rules []ContextRule, confidence float64) *ContextMatcher {
	return &ContextMatcher{rules: rules, confidence: confidence}
}

// Match returns the subject of the first rule whose pattern matches the raw
// text. Rules are evaluated in declaration order, patterns within a rule in
// listed order.
func (m *ContextMatcher) Match(text string) (types.MatchResult, bool) {
	for _, rule := range m.rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(text) {
				return types.MatchResult{
					Label:      rule.Label,
					Type:       types.MatchContext,
					Confidence: m.confidence,
				}, true
			}
		}
	}
	return types.MatchResult{}, false
}
