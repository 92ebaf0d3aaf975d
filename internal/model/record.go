package model

import "time"

// InteractionRecord 一轮对话的持久化日志（追加写，不原地修改）
type InteractionRecord struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Utterance Utterance       `json:"utterance"`
	Intent    IntentResult    `json:"intent"`
	Sentiment SentimentResult `json:"sentiment"`
	Entities  []Entity        `json:"entities"`
	Decision  DecisionResult  `json:"decision"`
	Response  string          `json:"response"`
	LatencyMS int64           `json:"latencyMs"`
	Timestamp time.Time       `json:"timestamp"`
}

// FeedbackRecord 用户反馈修正记录（追加，不回写原记录）
type FeedbackRecord struct {
	ID        string    `json:"id"`
	RecordID  string    `json:"recordId"` // 关联的 InteractionRecord
	SessionID string    `json:"sessionId"`
	Rating    int       `json:"rating"` // 1-5，>=3 视为正反馈
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Positive 是否为正反馈
func (f FeedbackRecord) Positive() bool {
	return f.Rating >= 3
}
