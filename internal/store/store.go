package store

import (
	"context"
	"time"

	"github.com/supportbot/chatbot-go/internal/model"
)

// InteractionStore 交互日志与训练数据存储
// 日志只追加不回写；重复的记录 ID 追加是空操作（存储侧去重）
type InteractionStore interface {
	// Append 追加一条交互记录（按 ID 幂等）
	Append(ctx context.Context, record model.InteractionRecord) error
	// Records 返回指定时间之后的交互记录（按时间升序）
	Records(ctx context.Context, since time.Time) ([]model.InteractionRecord, error)

	// AppendFeedback 追加一条反馈修正记录
	AppendFeedback(ctx context.Context, fb model.FeedbackRecord) error
	// Feedback 返回指定时间之后的反馈记录
	Feedback(ctx context.Context, since time.Time) ([]model.FeedbackRecord, error)

	// AppendExamples 合并训练样本（(text,label) 去重）
	AppendExamples(ctx context.Context, examples []model.TrainingExample) error
	// Examples 返回全部训练样本
	Examples(ctx context.Context) ([]model.TrainingExample, error)

	// Ping 存储可达性检查
	Ping(ctx context.Context) error
}
