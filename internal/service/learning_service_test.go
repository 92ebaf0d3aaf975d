package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportbot/chatbot-go/internal/config"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/nlp"
	"github.com/supportbot/chatbot-go/internal/store"
	"go.uber.org/zap"
)

func newTestLearningService(t *testing.T, tolerance float64) (*LearningService, *nlp.Classifier, *store.MemoryStore) {
	t.Helper()

	m, err := nlp.TrainModel(nlp.SeedExamples(), 0.1, 1)
	require.NoError(t, err)
	classifier := nlp.NewClassifier(m, 0.7, zap.NewNop())

	memStore := store.NewMemoryStore()
	cfg := config.LearningConfig{
		ClusterSimilarity: 0.4,
		MinClusterSize:    3,
		Tolerance:         tolerance,
		HoldoutEvery:      5,
	}
	svc := NewLearningService(classifier, memStore, cfg, 0.4, zap.NewNop())
	t.Cleanup(svc.Close)
	return svc, classifier, memStore
}

// lowConfRecord 低置信记录，RawLabel 保留原始最高分类别
func lowConfRecord(id, text, rawLabel string) model.InteractionRecord {
	cleaned, tokens := nlp.Preprocess(text)
	return model.InteractionRecord{
		ID: id,
		Utterance: model.Utterance{
			ID: id, Cleaned: cleaned, Tokens: tokens, Timestamp: time.Now(),
		},
		Intent: model.IntentResult{
			Label:      model.IntentUnknown,
			Confidence: 0.2,
			Source:     model.SourceModel,
			RawLabel:   rawLabel,
		},
		Timestamp: time.Now(),
	}
}

func TestDiscoverPatternsClustersSimilarUtterances(t *testing.T) {
	svc, _, _ := newTestLearningService(t, 0.05)

	records := []model.InteractionRecord{
		lowConfRecord("r1", "play some jazz music", model.IntentGeneral),
		lowConfRecord("r2", "play some rock music", model.IntentGeneral),
		lowConfRecord("r3", "play some pop music", model.IntentGeneral),
		// 高置信记录不参与挖掘
		{
			ID:        "r4",
			Utterance: model.Utterance{ID: "r4", Cleaned: "hello", Tokens: []string{"hello"}},
			Intent:    model.IntentResult{Label: model.IntentGreeting, Confidence: 0.95, Source: model.SourceRule},
		},
	}

	examples := svc.DiscoverPatterns(records, nil)

	require.Len(t, examples, 3)
	for _, ex := range examples {
		assert.Equal(t, model.IntentGeneral, ex.Label)
		assert.Equal(t, model.ProvenanceLearned, ex.Provenance)
	}
}

func TestDiscoverPatternsSmallClusterIgnored(t *testing.T) {
	svc, _, _ := newTestLearningService(t, 0.05)

	// 两条相似 + 一条完全不同：没有簇达到最小规模
	records := []model.InteractionRecord{
		lowConfRecord("r1", "play some jazz music", model.IntentGeneral),
		lowConfRecord("r2", "play some rock music", model.IntentGeneral),
		lowConfRecord("r3", "turn off the bedroom lights", model.IntentGeneral),
	}

	assert.Empty(t, svc.DiscoverPatterns(records, nil))
}

func TestDiscoverPatternsNegativeFeedbackSuppressed(t *testing.T) {
	svc, _, _ := newTestLearningService(t, 0.05)

	records := []model.InteractionRecord{
		lowConfRecord("r1", "play some jazz music", model.IntentGeneral),
		lowConfRecord("r2", "play some rock music", model.IntentGeneral),
		lowConfRecord("r3", "play some pop music", model.IntentGeneral),
	}
	feedback := map[string]model.FeedbackRecord{
		"r3": {ID: "f1", RecordID: "r3", Rating: 1},
	}

	// 负反馈压制一条后簇规模不足
	assert.Empty(t, svc.DiscoverPatterns(records, feedback))
}

func TestDiscoverPatternsPositiveFeedbackDoublesVote(t *testing.T) {
	svc, _, _ := newTestLearningService(t, 0.05)

	records := []model.InteractionRecord{
		lowConfRecord("r1", "play some jazz music", model.IntentQuestion),
		lowConfRecord("r2", "play some rock music", model.IntentQuestion),
		lowConfRecord("r3", "play some pop music", model.IntentGeneral),
		lowConfRecord("r4", "play some folk music", model.IntentGeneral),
	}
	// question 2 票 + 正反馈加权 1 票 = 3，general 2 票
	feedback := map[string]model.FeedbackRecord{
		"r1": {ID: "f1", RecordID: "r1", Rating: 5},
	}

	examples := svc.DiscoverPatterns(records, feedback)
	require.Len(t, examples, 4)
	for _, ex := range examples {
		assert.Equal(t, model.IntentQuestion, ex.Label)
	}
}

func TestAcceptCandidate(t *testing.T) {
	cases := []struct {
		name      string
		oldAcc    float64
		newAcc    float64
		tolerance float64
		want      bool
	}{
		{"improved", 0.8, 0.9, 0.05, true},
		{"equal", 0.9, 0.9, 0.05, true},
		{"within tolerance", 0.9, 0.86, 0.05, true},
		{"beyond tolerance", 0.9, 0.84, 0.05, false},
		{"zero tolerance regression", 0.9, 0.89, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AcceptCandidate(tc.oldAcc, tc.newAcc, tc.tolerance))
		})
	}
}

func TestRunSkippedOnInsufficientData(t *testing.T) {
	svc, classifier, _ := newTestLearningService(t, 0.05)

	status, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, status.LastOutcome)
	assert.Equal(t, int64(1), classifier.CurrentModel().Version)
}

func TestRunAcceptedSwapsModel(t *testing.T) {
	// 容忍度拉满，验证门必然放行
	svc, classifier, memStore := newTestLearningService(t, 1.0)
	ctx := context.Background()
	require.NoError(t, memStore.AppendExamples(ctx, nlp.SeedExamples()))

	status, err := svc.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, OutcomeAccepted, status.LastOutcome)
	assert.Equal(t, int64(2), status.ModelVersion)
	assert.Equal(t, int64(2), classifier.CurrentModel().Version)
}

func TestRunRejectedKeepsOldModel(t *testing.T) {
	// 负容忍度要求新模型准确率提升 2 以上，必然拒绝
	svc, classifier, memStore := newTestLearningService(t, -2)
	ctx := context.Background()
	require.NoError(t, memStore.AppendExamples(ctx, nlp.SeedExamples()))

	status, err := svc.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, OutcomeRejected, status.LastOutcome)
	assert.Equal(t, int64(1), status.ModelVersion)
	assert.Equal(t, int64(1), classifier.CurrentModel().Version)
}

func TestRunRecordsFailure(t *testing.T) {
	m, err := nlp.TrainModel(nlp.SeedExamples(), 0.1, 1)
	require.NoError(t, err)
	classifier := nlp.NewClassifier(m, 0.7, zap.NewNop())

	svc := NewLearningService(classifier, &brokenStore{store.NewMemoryStore()}, config.LearningConfig{
		ClusterSimilarity: 0.4, MinClusterSize: 3, Tolerance: 0.05, HoldoutEvery: 5,
	}, 0.4, zap.NewNop())
	defer svc.Close()

	status, err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, OutcomeFailed, status.LastOutcome)
}

// brokenStore 读取记录总是失败的存储替身
type brokenStore struct {
	*store.MemoryStore
}

func (s *brokenStore) Records(context.Context, time.Time) ([]model.InteractionRecord, error) {
	return nil, fmt.Errorf("storage unavailable")
}

func TestStatusInitial(t *testing.T) {
	svc, _, _ := newTestLearningService(t, 0.05)

	status := svc.Status()
	assert.False(t, status.Running)
	assert.Equal(t, int64(1), status.ModelVersion)
}
