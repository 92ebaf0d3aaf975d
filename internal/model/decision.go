package model

// Strategy 回复策略（封闭枚举，响应边界必须穷举处理）
type Strategy string

const (
	StrategyFAQ        Strategy = "faq"        // 命中精选问答库
	StrategyRule       Strategy = "rule"       // 按意图走规则模板
	StrategyGenerative Strategy = "generative" // 外部生成式回复
	StrategyFallback   Strategy = "fallback"   // 兜底话术
)

// Valid 是否为合法策略值
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFAQ, StrategyRule, StrategyGenerative, StrategyFallback:
		return true
	}
	return false
}

// DecisionResult 策略决策结果（每轮新建，创建后不再修改）
type DecisionResult struct {
	Strategy   Strategy  `json:"strategy"`
	Target     string    `json:"target,omitempty"` // FAQ 条目 ID、规则名或生成提示词
	Confidence float64   `json:"confidence"`
	Rationale  string    `json:"rationale"`
	ToneHints  ToneHints `json:"toneHints"`
}

// ToneHints 语气提示（只影响回复措辞，不影响策略选择）
type ToneHints struct {
	Empathy    bool `json:"empathy"`    // 负面情绪：加同理前缀
	Enthusiasm bool `json:"enthusiasm"` // 正面情绪：加热情后缀
	Reassure   bool `json:"reassure"`   // 恐惧/悲伤：加安抚语气
}
