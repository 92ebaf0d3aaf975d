package model

// IntentStats 单个意图的聚合指标
type IntentStats struct {
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avgConfidence"`
	UnknownRate   float64 `json:"unknownRate,omitempty"`
}

// StrategyStats 单个策略的聚合指标
type StrategyStats struct {
	Count            int `json:"count"`
	PositiveFeedback int `json:"positiveFeedback"`
	NegativeFeedback int `json:"negativeFeedback"`
}

// AnalyticsSnapshot 只读分析快照（由交互日志计算得出）
type AnalyticsSnapshot struct {
	Days                  int                      `json:"days"`
	TotalTurns            int                      `json:"totalTurns"`
	UniqueSessions        int                      `json:"uniqueSessions"`
	AvgLatencyMS          float64                  `json:"avgLatencyMs"`
	IntentBreakdown       map[string]IntentStats   `json:"intentBreakdown"`
	SentimentDistribution map[string]int           `json:"sentimentDistribution"`
	StrategyBreakdown     map[string]StrategyStats `json:"strategyBreakdown"`
	DailyActivity         map[string]int           `json:"dailyActivity"`
}
