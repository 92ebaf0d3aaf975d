package store

import (
	"context"
	"sync"
	"time"

	"github.com/supportbot/chatbot-go/internal/model"
)

// MemoryStore 内存存储（测试与无 Redis 环境使用）
type MemoryStore struct {
	records   []model.InteractionRecord
	recordIDs map[string]bool
	feedback  []model.FeedbackRecord
	examples  []model.TrainingExample
	seen      map[exampleKey]bool
	mu        sync.RWMutex
}

type exampleKey struct {
	text  string
	label string
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recordIDs: make(map[string]bool),
		seen:      make(map[exampleKey]bool),
	}
}

// Append 追加交互记录，重复 ID 为空操作
func (s *MemoryStore) Append(_ context.Context, record model.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recordIDs[record.ID] {
		return nil
	}
	s.recordIDs[record.ID] = true
	s.records = append(s.records, record)
	return nil
}

// Records 返回指定时间之后的交互记录
func (s *MemoryStore) Records(_ context.Context, since time.Time) ([]model.InteractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.InteractionRecord, 0, len(s.records))
	for _, r := range s.records {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AppendFeedback 追加反馈记录
func (s *MemoryStore) AppendFeedback(_ context.Context, fb model.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, fb)
	return nil
}

// Feedback 返回指定时间之后的反馈记录
func (s *MemoryStore) Feedback(_ context.Context, since time.Time) ([]model.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.FeedbackRecord, 0, len(s.feedback))
	for _, f := range s.feedback {
		if !f.Timestamp.Before(since) {
			out = append(out, f)
		}
	}
	return out, nil
}

// AppendExamples 合并训练样本，(text,label) 去重
func (s *MemoryStore) AppendExamples(_ context.Context, examples []model.TrainingExample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ex := range examples {
		key := exampleKey{text: ex.Text, label: ex.Label}
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.examples = append(s.examples, ex)
	}
	return nil
}

// Examples 返回全部训练样本
func (s *MemoryStore) Examples(_ context.Context) ([]model.TrainingExample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TrainingExample, len(s.examples))
	copy(out, s.examples)
	return out, nil
}

// Ping 存储可达性检查（内存存储总是可达）
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
