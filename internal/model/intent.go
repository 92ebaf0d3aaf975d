package model

import "time"

// 内置意图标签
const (
	IntentGreeting   = "greeting"
	IntentGoodbye    = "goodbye"
	IntentQuestion   = "question"
	IntentHelp       = "help"
	IntentComplaint  = "complaint"
	IntentCompliment = "compliment"
	IntentGeneral    = "general"
	IntentUnknown    = "unknown"
)

// IntentSource 意图结果来源
type IntentSource string

const (
	SourceModel    IntentSource = "model"    // 统计模型
	SourceRule     IntentSource = "rule"     // 规则匹配
	SourceOverride IntentSource = "override" // 人工覆盖
)

// IntentResult 意图分类结果
type IntentResult struct {
	Label      string       `json:"label"`
	Confidence float64      `json:"confidence"` // [0,1]
	Source     IntentSource `json:"source"`
	RawLabel   string       `json:"rawLabel,omitempty"` // 置信度不足时保留的原始最高分类，供学习回路使用
}

// UnknownIntent 缺省意图结果（分类缺失时的降级值，决策引擎永远不接收空结果）
func UnknownIntent() IntentResult {
	return IntentResult{Label: IntentUnknown, Confidence: 0, Source: SourceModel}
}

// Utterance 用户输入记录（创建后不可变）
type Utterance struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Raw       string    `json:"raw"`
	Cleaned   string    `json:"cleaned"`
	Tokens    []string  `json:"tokens"`
	Timestamp time.Time `json:"timestamp"`
}

// TrainingProvenance 训练样本来源
type TrainingProvenance string

const (
	ProvenanceSeed    TrainingProvenance = "seed"    // 内置种子数据
	ProvenanceLearned TrainingProvenance = "learned" // 学习回路挖掘
)

// TrainingExample 意图分类训练样本
type TrainingExample struct {
	Text       string             `json:"text"`
	Label      string             `json:"label"`
	Provenance TrainingProvenance `json:"provenance"`
}
