package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/store"
	"go.uber.org/zap"
)

func analyticsRecord(id, sessionID, intent string, confidence float64, sentimentLabel string, strategy model.Strategy, latency int64, ts time.Time) model.InteractionRecord {
	return model.InteractionRecord{
		ID:        id,
		SessionID: sessionID,
		Intent:    model.IntentResult{Label: intent, Confidence: confidence, Source: model.SourceModel},
		Sentiment: model.SentimentResult{Label: sentimentLabel},
		Decision:  model.DecisionResult{Strategy: strategy},
		LatencyMS: latency,
		Timestamp: ts,
	}
}

func TestSnapshotAggregates(t *testing.T) {
	memStore := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	records := []model.InteractionRecord{
		analyticsRecord("r1", "s1", model.IntentGreeting, 0.95, model.SentimentNeutral, model.StrategyRule, 10, now),
		analyticsRecord("r2", "s1", model.IntentQuestion, 0.9, model.SentimentNeutral, model.StrategyFAQ, 20, now),
		analyticsRecord("r3", "s2", model.IntentQuestion, 0.8, model.SentimentPositive, model.StrategyGenerative, 30, now),
		analyticsRecord("r4", "s2", model.IntentUnknown, 0.1, model.SentimentNegative, model.StrategyFallback, 40, now),
	}
	for _, r := range records {
		require.NoError(t, memStore.Append(ctx, r))
	}
	require.NoError(t, memStore.AppendFeedback(ctx, model.FeedbackRecord{ID: "f1", RecordID: "r2", Rating: 5, Timestamp: now}))
	require.NoError(t, memStore.AppendFeedback(ctx, model.FeedbackRecord{ID: "f2", RecordID: "r3", Rating: 1, Timestamp: now}))
	// 关联不到记录的反馈被忽略
	require.NoError(t, memStore.AppendFeedback(ctx, model.FeedbackRecord{ID: "f3", RecordID: "no-such", Rating: 5, Timestamp: now}))

	svc := NewAnalyticsService(memStore, zap.NewNop())
	snapshot, err := svc.Snapshot(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, snapshot.Days)
	assert.Equal(t, 4, snapshot.TotalTurns)
	assert.Equal(t, 2, snapshot.UniqueSessions)
	assert.InDelta(t, 25.0, snapshot.AvgLatencyMS, 1e-9)

	// 意图分布与均值置信度
	question := snapshot.IntentBreakdown[model.IntentQuestion]
	assert.Equal(t, 2, question.Count)
	assert.InDelta(t, 0.85, question.AvgConfidence, 1e-9)
	unknown := snapshot.IntentBreakdown[model.IntentUnknown]
	assert.InDelta(t, 0.25, unknown.UnknownRate, 1e-9)

	// 情感分布
	assert.Equal(t, 2, snapshot.SentimentDistribution[model.SentimentNeutral])
	assert.Equal(t, 1, snapshot.SentimentDistribution[model.SentimentPositive])
	assert.Equal(t, 1, snapshot.SentimentDistribution[model.SentimentNegative])

	// 反馈按策略归并
	faqStats := snapshot.StrategyBreakdown[string(model.StrategyFAQ)]
	assert.Equal(t, 1, faqStats.Count)
	assert.Equal(t, 1, faqStats.PositiveFeedback)
	genStats := snapshot.StrategyBreakdown[string(model.StrategyGenerative)]
	assert.Equal(t, 1, genStats.NegativeFeedback)

	// 按天活跃
	assert.Equal(t, 4, snapshot.DailyActivity[now.Format("2006-01-02")])
}

func TestSnapshotWindowFiltersOldRecords(t *testing.T) {
	memStore := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, memStore.Append(ctx, analyticsRecord("old", "s1", model.IntentGreeting, 0.95, model.SentimentNeutral, model.StrategyRule, 10, now.AddDate(0, 0, -10))))
	require.NoError(t, memStore.Append(ctx, analyticsRecord("new", "s1", model.IntentGreeting, 0.95, model.SentimentNeutral, model.StrategyRule, 10, now)))

	svc := NewAnalyticsService(memStore, zap.NewNop())
	snapshot, err := svc.Snapshot(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.TotalTurns)
}

func TestSnapshotEmptyStore(t *testing.T) {
	svc := NewAnalyticsService(store.NewMemoryStore(), zap.NewNop())

	snapshot, err := svc.Snapshot(context.Background(), 0)
	require.NoError(t, err)

	// days<=0 回落到默认窗口
	assert.Equal(t, 30, snapshot.Days)
	assert.Zero(t, snapshot.TotalTurns)
	assert.Zero(t, snapshot.AvgLatencyMS)
	assert.Empty(t, snapshot.IntentBreakdown)
}
