package model

import "time"

// Turn 会话中的一轮对话
type Turn struct {
	UtteranceID string    `json:"utteranceId"`
	Text        string    `json:"text"`
	Intent      string    `json:"intent"`
	Entities    []Entity  `json:"entities"`
	Response    string    `json:"response"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConversationContext 会话上下文（仅由上下文服务持有与修改）
type ConversationContext struct {
	SessionID    string    `json:"sessionId"`
	Turns        []Turn    `json:"turns"`      // 最近 N 轮，FIFO 淘汰
	LastIntent   string    `json:"lastIntent"` // 最近一轮意图
	PendingSlot  string    `json:"pendingSlot,omitempty"` // 跨轮实体补全时待填充的槽位
	LastRecordID string    `json:"lastRecordId,omitempty"` // 反馈关联用
	LastActive   time.Time `json:"lastActive"`
}

// Clone 返回上下文的深拷贝，调用方拿到的快照与内部状态隔离
func (c *ConversationContext) Clone() *ConversationContext {
	cp := *c
	cp.Turns = make([]Turn, len(c.Turns))
	copy(cp.Turns, c.Turns)
	return &cp
}
