package model

import "time"

// ChatRequest 对话请求
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// ChatResponse 对话响应
type ChatResponse struct {
	ResponseText string  `json:"responseText"`
	Intent       string  `json:"intent"`
	Sentiment    string  `json:"sentiment"`
	Strategy     string  `json:"strategy"`
	Confidence   float64 `json:"confidence"`
	LatencyMS    int64   `json:"latencyMs"`
}

// FeedbackRequest 反馈请求
type FeedbackRequest struct {
	SessionID string `json:"sessionId"`
	Rating    int    `json:"rating"` // 1-5
	Comment   string `json:"comment,omitempty"`
}

// ChatMessage WebSocket 聊天消息
type ChatMessage struct {
	MessageID string    `json:"messageId"`
	Type      string    `json:"type"` // CHAT, HEARTBEAT, BOT_RESPONSE
	Content   string    `json:"content"`
	SessionID string    `json:"sessionId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LearningStatus 学习回路状态
type LearningStatus struct {
	Running       bool      `json:"running"`
	LastRun       time.Time `json:"lastRun,omitempty"`
	LastOutcome   string    `json:"lastOutcome,omitempty"` // accepted / rejected / skipped / failed
	ModelVersion  int64     `json:"modelVersion"`
	ExamplesMined int       `json:"examplesMined"`
	Accuracy      float64   `json:"accuracy"`
}
