package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

// Redis 键
const (
	keyRecords   = "chatbot:records"     // 交互记录列表
	keyRecordIDs = "chatbot:record_ids"  // 已写入记录 ID 集合（去重）
	keyFeedback  = "chatbot:feedback"    // 反馈修正列表
	keyExamples  = "chatbot:examples"    // 训练样本哈希，field = text|label
)

// RedisStore Redis 持久化存储
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// Append 追加交互记录；用 ID 集合保证重复提交是空操作
func (s *RedisStore) Append(ctx context.Context, record model.InteractionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}

	added, err := s.client.SAdd(ctx, keyRecordIDs, record.ID).Result()
	if err != nil {
		return fmt.Errorf("记录去重检查失败: %w", err)
	}
	if added == 0 {
		s.logger.Debug("重复记录已忽略", zap.String("recordId", record.ID))
		return nil
	}

	if err := s.client.RPush(ctx, keyRecords, data).Err(); err != nil {
		// 写入失败时回收去重标记，重试同一记录不会被误判为重复
		if remErr := s.client.SRem(ctx, keyRecordIDs, record.ID).Err(); remErr != nil {
			s.logger.Error("回收记录去重标记失败",
				zap.String("recordId", record.ID),
				zap.Error(remErr))
		}
		return fmt.Errorf("写入记录失败: %w", err)
	}
	return nil
}

// Records 返回指定时间之后的交互记录
func (s *RedisStore) Records(ctx context.Context, since time.Time) ([]model.InteractionRecord, error) {
	raw, err := s.client.LRange(ctx, keyRecords, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("读取记录失败: %w", err)
	}

	records := make([]model.InteractionRecord, 0, len(raw))
	for _, item := range raw {
		var r model.InteractionRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			s.logger.Warn("损坏的记录已跳过", zap.Error(err))
			continue
		}
		if !r.Timestamp.Before(since) {
			records = append(records, r)
		}
	}
	return records, nil
}

// AppendFeedback 追加反馈修正记录
func (s *RedisStore) AppendFeedback(ctx context.Context, fb model.FeedbackRecord) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("序列化反馈失败: %w", err)
	}
	if err := s.client.RPush(ctx, keyFeedback, data).Err(); err != nil {
		return fmt.Errorf("写入反馈失败: %w", err)
	}
	return nil
}

// Feedback 返回指定时间之后的反馈记录
func (s *RedisStore) Feedback(ctx context.Context, since time.Time) ([]model.FeedbackRecord, error) {
	raw, err := s.client.LRange(ctx, keyFeedback, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("读取反馈失败: %w", err)
	}

	feedback := make([]model.FeedbackRecord, 0, len(raw))
	for _, item := range raw {
		var f model.FeedbackRecord
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			s.logger.Warn("损坏的反馈已跳过", zap.Error(err))
			continue
		}
		if !f.Timestamp.Before(since) {
			feedback = append(feedback, f)
		}
	}
	return feedback, nil
}

// AppendExamples 合并训练样本，哈希 field 天然保证 (text,label) 去重
func (s *RedisStore) AppendExamples(ctx context.Context, examples []model.TrainingExample) error {
	if len(examples) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(examples)*2)
	for _, ex := range examples {
		data, err := json.Marshal(ex)
		if err != nil {
			return fmt.Errorf("序列化训练样本失败: %w", err)
		}
		values = append(values, ex.Text+"|"+ex.Label, data)
	}

	if err := s.client.HSet(ctx, keyExamples, values...).Err(); err != nil {
		return fmt.Errorf("写入训练样本失败: %w", err)
	}
	return nil
}

// Examples 返回全部训练样本
func (s *RedisStore) Examples(ctx context.Context) ([]model.TrainingExample, error) {
	raw, err := s.client.HGetAll(ctx, keyExamples).Result()
	if err != nil {
		return nil, fmt.Errorf("读取训练样本失败: %w", err)
	}

	examples := make([]model.TrainingExample, 0, len(raw))
	for _, item := range raw {
		var ex model.TrainingExample
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			s.logger.Warn("损坏的训练样本已跳过", zap.Error(err))
			continue
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// Ping 存储可达性检查
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis 不可达: %w", err)
	}
	return nil
}
