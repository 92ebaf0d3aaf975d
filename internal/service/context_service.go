package service

import (
	"sync"
	"time"

	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

// sessionEntry 单个会话的上下文及其串行化锁
type sessionEntry struct {
	mu  sync.Mutex // 串行化同一会话的读写
	ctx model.ConversationContext
}

// ContextService 会话上下文管理
// 上下文按会话分片：同一会话的更新串行化，不同会话互不影响；
// 后台定时清理不活跃会话，避免无界增长
type ContextService struct {
	sessions map[string]*sessionEntry
	mu       sync.RWMutex // 保护会话表本身
	maxTurns int
	ttl      time.Duration
	stop     chan struct{}
	logger   *zap.Logger
}

// NewContextService 创建会话上下文服务并启动过期清理
func NewContextService(maxTurns int, ttl time.Duration, logger *zap.Logger) *ContextService {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	s := &ContextService{
		sessions: make(map[string]*sessionEntry),
		maxTurns: maxTurns,
		ttl:      ttl,
		stop:     make(chan struct{}),
		logger:   logger,
	}

	go s.expireChecker()

	return s
}

// entry 获取或创建会话条目
func (s *ContextService) entry(sessionID string) *sessionEntry {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[sessionID]; ok {
		return e
	}
	e = &sessionEntry{
		ctx: model.ConversationContext{
			SessionID:  sessionID,
			LastActive: time.Now(),
		},
	}
	s.sessions[sessionID] = e
	s.logger.Debug("会话上下文已创建", zap.String("sessionId", sessionID))
	return e
}

// GetContext 返回会话上下文快照（首次访问创建空上下文）
func (s *ContextService) GetContext(sessionID string) *model.ConversationContext {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone()
}

// Update 追加一轮对话并裁剪到最近 N 轮
// 整轮增量原子生效：被放弃的轮次不会产生半更新的上下文
func (s *ContextService) Update(sessionID string, turn model.Turn, recordID string) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ctx.Turns = append(e.ctx.Turns, turn)
	if len(e.ctx.Turns) > s.maxTurns {
		// FIFO 淘汰最旧轮次
		e.ctx.Turns = e.ctx.Turns[len(e.ctx.Turns)-s.maxTurns:]
	}
	e.ctx.LastIntent = turn.Intent
	e.ctx.LastRecordID = recordID
	e.ctx.LastActive = time.Now()
}

// SetPendingSlot 记录跨轮实体补全的待填槽位
func (s *ContextService) SetPendingSlot(sessionID, slot string) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.PendingSlot = slot
}

// LastRecordID 返回会话最近一条交互记录 ID（反馈关联用）
func (s *ContextService) LastRecordID(sessionID string) (string, bool) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx.LastRecordID == "" {
		return "", false
	}
	return e.ctx.LastRecordID, true
}

// Expire 移除指定会话
func (s *ContextService) Expire(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		s.logger.Info("会话上下文已移除", zap.String("sessionId", sessionID))
	}
}

// ActiveSessions 获取活跃会话数
func (s *ContextService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close 停止过期清理
func (s *ContextService) Close() {
	close(s.stop)
}

// expireChecker 定时清理不活跃会话
func (s *ContextService) expireChecker() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		now := time.Now()
		s.mu.Lock()
		for sessionID, e := range s.sessions {
			e.mu.Lock()
			idle := now.Sub(e.ctx.LastActive)
			e.mu.Unlock()

			if idle > s.ttl {
				delete(s.sessions, sessionID)
				s.logger.Info("清理过期会话",
					zap.String("sessionId", sessionID),
					zap.Duration("idle", idle))
			}
		}
		s.mu.Unlock()
	}
}
