package service

import (
	"context"
	"fmt"
	"time"

	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/store"
	"go.uber.org/zap"
)

// AnalyticsService 分析统计服务（只读，全部指标由交互日志推导）
type AnalyticsService struct {
	store  store.InteractionStore
	logger *zap.Logger
}

// NewAnalyticsService 创建分析服务
func NewAnalyticsService(interactionStore store.InteractionStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: interactionStore, logger: logger}
}

// Snapshot 计算最近 days 天的聚合快照
func (s *AnalyticsService) Snapshot(ctx context.Context, days int) (*model.AnalyticsSnapshot, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	records, err := s.store.Records(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("读取交互记录失败: %w", err)
	}
	feedback, err := s.store.Feedback(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("读取反馈失败: %w", err)
	}

	snapshot := &model.AnalyticsSnapshot{
		Days:                  days,
		TotalTurns:            len(records),
		IntentBreakdown:       make(map[string]model.IntentStats),
		SentimentDistribution: make(map[string]int),
		StrategyBreakdown:     make(map[string]model.StrategyStats),
		DailyActivity:         make(map[string]int),
	}

	sessions := make(map[string]bool)
	confidenceSum := make(map[string]float64)
	var latencySum int64

	strategyByRecord := make(map[string]string, len(records))
	for _, r := range records {
		sessions[r.SessionID] = true
		latencySum += r.LatencyMS

		stats := snapshot.IntentBreakdown[r.Intent.Label]
		stats.Count++
		confidenceSum[r.Intent.Label] += r.Intent.Confidence
		snapshot.IntentBreakdown[r.Intent.Label] = stats

		snapshot.SentimentDistribution[r.Sentiment.Label]++

		st := snapshot.StrategyBreakdown[string(r.Decision.Strategy)]
		st.Count++
		snapshot.StrategyBreakdown[string(r.Decision.Strategy)] = st
		strategyByRecord[r.ID] = string(r.Decision.Strategy)

		snapshot.DailyActivity[r.Timestamp.Format("2006-01-02")]++
	}

	// 反馈按策略归并
	for _, f := range feedback {
		strategy, ok := strategyByRecord[f.RecordID]
		if !ok {
			continue
		}
		st := snapshot.StrategyBreakdown[strategy]
		if f.Positive() {
			st.PositiveFeedback++
		} else {
			st.NegativeFeedback++
		}
		snapshot.StrategyBreakdown[strategy] = st
	}

	snapshot.UniqueSessions = len(sessions)
	if len(records) > 0 {
		snapshot.AvgLatencyMS = float64(latencySum) / float64(len(records))
	}
	for label, stats := range snapshot.IntentBreakdown {
		if stats.Count > 0 {
			stats.AvgConfidence = confidenceSum[label] / float64(stats.Count)
			snapshot.IntentBreakdown[label] = stats
		}
	}
	if total := snapshot.TotalTurns; total > 0 {
		unknown := snapshot.IntentBreakdown[model.IntentUnknown]
		if unknown.Count > 0 {
			unknown.UnknownRate = float64(unknown.Count) / float64(total)
			snapshot.IntentBreakdown[model.IntentUnknown] = unknown
		}
	}

	return snapshot, nil
}
