package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supportbot/chatbot-go/internal/config"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/nlp"
	"github.com/supportbot/chatbot-go/internal/store"
	"go.uber.org/zap"
)

var (
	ErrLearningInFlight = fmt.Errorf("学习任务已在执行中")
)

// 学习结果
const (
	OutcomeAccepted = "accepted" // 新模型通过验证并已切换
	OutcomeRejected = "rejected" // 验证回退超出容忍度，保留旧模型
	OutcomeSkipped  = "skipped"  // 数据不足，未重训
	OutcomeFailed   = "failed"   // 执行出错
)

// LearningService 离线学习回路
// 从交互日志挖掘低置信/未知意图的聚类，合并训练集后重训模型；
// 新模型必须通过留出集验证才能替换线上模型。全程与在线分类解耦，
// 同一时刻最多一个重训在执行
type LearningService struct {
	classifier    *nlp.Classifier
	store         store.InteractionStore
	cfg           config.LearningConfig
	lowConfidence float64

	runMu    sync.Mutex // 串行化重训（TryLock 失败即有任务在跑）
	statusMu sync.RWMutex
	status   model.LearningStatus

	stop   chan struct{}
	logger *zap.Logger
}

// NewLearningService 创建学习服务
func NewLearningService(classifier *nlp.Classifier, interactionStore store.InteractionStore, cfg config.LearningConfig, lowConfidence float64, logger *zap.Logger) *LearningService {
	s := &LearningService{
		classifier:    classifier,
		store:         interactionStore,
		cfg:           cfg,
		lowConfidence: lowConfidence,
		stop:          make(chan struct{}),
		logger:        logger,
	}
	s.status.ModelVersion = classifier.CurrentModel().Version
	return s
}

// StartScheduler 按配置间隔定时触发学习（间隔为 0 时仅手动触发）
func (s *LearningService) StartScheduler() {
	interval := s.cfg.Interval()
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if _, err := s.Run(context.Background()); err != nil && err != ErrLearningInFlight {
					s.logger.Error("定时学习任务失败", zap.Error(err))
				}
			}
		}
	}()
}

// Close 停止定时触发
func (s *LearningService) Close() {
	close(s.stop)
}

// Status 返回学习回路状态
func (s *LearningService) Status() model.LearningStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Run 执行一次完整学习：挖掘 -> 合并 -> 重训 -> 验证 -> 切换/拒绝
func (s *LearningService) Run(ctx context.Context) (model.LearningStatus, error) {
	if !s.runMu.TryLock() {
		return s.Status(), ErrLearningInFlight
	}
	defer s.runMu.Unlock()

	s.setRunning(true)
	defer s.setRunning(false)

	s.logger.Info("学习任务开始")

	outcome, mined, accuracy, err := s.runOnce(ctx)

	s.statusMu.Lock()
	s.status.LastRun = time.Now()
	s.status.LastOutcome = outcome
	s.status.ExamplesMined = mined
	if accuracy > 0 {
		s.status.Accuracy = accuracy
	}
	s.status.ModelVersion = s.classifier.CurrentModel().Version
	status := s.status
	s.statusMu.Unlock()

	if err != nil {
		s.logger.Error("学习任务失败", zap.Error(err))
		return status, err
	}

	s.logger.Info("学习任务结束",
		zap.String("outcome", outcome),
		zap.Int("examplesMined", mined),
		zap.Float64("accuracy", accuracy))
	return status, nil
}

func (s *LearningService) runOnce(ctx context.Context) (outcome string, mined int, accuracy float64, err error) {
	// 1. 读取日志与反馈
	records, err := s.store.Records(ctx, time.Time{})
	if err != nil {
		return OutcomeFailed, 0, 0, fmt.Errorf("读取交互记录失败: %w", err)
	}
	feedback, err := s.store.Feedback(ctx, time.Time{})
	if err != nil {
		return OutcomeFailed, 0, 0, fmt.Errorf("读取反馈失败: %w", err)
	}
	byRecord := make(map[string]model.FeedbackRecord, len(feedback))
	for _, f := range feedback {
		byRecord[f.RecordID] = f
	}

	// 2. 模式挖掘
	examples := s.DiscoverPatterns(records, byRecord)
	mined = len(examples)

	// 3. 合并训练集（存储侧去重）
	if err := s.store.AppendExamples(ctx, examples); err != nil {
		return OutcomeFailed, mined, 0, fmt.Errorf("合并训练样本失败: %w", err)
	}

	full, err := s.store.Examples(ctx)
	if err != nil {
		return OutcomeFailed, mined, 0, fmt.Errorf("读取训练集失败: %w", err)
	}
	if len(full) < s.cfg.HoldoutEvery*2 {
		return OutcomeSkipped, mined, 0, nil
	}

	// 4. 留出集切分 + 重训
	train, holdout := splitHoldout(full, s.cfg.HoldoutEvery)
	current := s.classifier.CurrentModel()
	candidate, err := nlp.TrainModel(train, current.Alpha, current.Version+1)
	if err != nil {
		return OutcomeFailed, mined, 0, fmt.Errorf("重训失败: %w", err)
	}

	// 5. 验证：回退超出容忍度则拒绝，线上保留旧模型
	oldAcc := current.Evaluate(holdout)
	newAcc := candidate.Evaluate(holdout)
	if !AcceptCandidate(oldAcc, newAcc, s.cfg.Tolerance) {
		s.logger.Warn("新模型验证未通过，保留旧模型",
			zap.Float64("oldAccuracy", oldAcc),
			zap.Float64("newAccuracy", newAcc),
			zap.Float64("tolerance", s.cfg.Tolerance))
		return OutcomeRejected, mined, oldAcc, nil
	}

	s.classifier.SwapModel(candidate)
	return OutcomeAccepted, mined, newAcc, nil
}

// AcceptCandidate 重训验收门：新模型准确率回退超出容忍度即拒绝
func AcceptCandidate(oldAccuracy, newAccuracy, tolerance float64) bool {
	return newAccuracy >= oldAccuracy-tolerance
}

// DiscoverPatterns 从低置信/未知意图的记录中挖掘候选训练样本
// 负反馈的记录被压制（不参与），正反馈的记录投票权重翻倍
func (s *LearningService) DiscoverPatterns(records []model.InteractionRecord, feedback map[string]model.FeedbackRecord) []model.TrainingExample {
	var candidates []model.InteractionRecord
	for _, r := range records {
		if r.Intent.Label != model.IntentUnknown && r.Intent.Confidence >= s.lowConfidence {
			continue
		}
		if fb, ok := feedback[r.ID]; ok && !fb.Positive() {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) < s.cfg.MinClusterSize {
		return nil
	}

	clusters := clusterBySimilarity(candidates, s.cfg.ClusterSimilarity)

	var examples []model.TrainingExample
	for _, cluster := range clusters {
		if len(cluster) < s.cfg.MinClusterSize {
			continue
		}

		label := s.voteLabel(cluster, feedback)
		if label == "" || label == model.IntentUnknown {
			continue
		}

		for _, r := range cluster {
			examples = append(examples, model.TrainingExample{
				Text:       r.Utterance.Cleaned,
				Label:      label,
				Provenance: model.ProvenanceLearned,
			})
		}
		s.logger.Info("发现候选意图簇",
			zap.String("label", label),
			zap.Int("size", len(cluster)))
	}
	return examples
}

// voteLabel 簇内按原始最高分类别投票，正反馈记录权重翻倍
func (s *LearningService) voteLabel(cluster []model.InteractionRecord, feedback map[string]model.FeedbackRecord) string {
	votes := make(map[string]int)
	var order []string
	for _, r := range cluster {
		label := r.Intent.RawLabel
		if label == "" {
			label = r.Intent.Label
		}
		if label == model.IntentUnknown {
			continue
		}
		weight := 1
		if fb, ok := feedback[r.ID]; ok && fb.Positive() {
			weight = 2
		}
		if _, seen := votes[label]; !seen {
			order = append(order, label)
		}
		votes[label] += weight
	}

	best := ""
	bestVotes := 0
	for _, label := range order {
		if votes[label] > bestVotes {
			best = label
			bestVotes = votes[label]
		}
	}
	return best
}

// clusterBySimilarity 贪心单链接聚类：与簇首 Jaccard 相似度达标即归簇
func clusterBySimilarity(records []model.InteractionRecord, threshold float64) [][]model.InteractionRecord {
	var clusters [][]model.InteractionRecord
	var heads []map[string]bool

	for _, r := range records {
		tokens := tokenSet(r.Utterance.Tokens)
		placed := false
		for i, head := range heads {
			if jaccard(tokens, head) >= threshold {
				clusters[i] = append(clusters[i], r)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []model.InteractionRecord{r})
			heads = append(heads, tokens)
		}
	}
	return clusters
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// jaccard 词集合的 Jaccard 相似度
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// splitHoldout 每 every 条留出 1 条做验证集
func splitHoldout(examples []model.TrainingExample, every int) (train, holdout []model.TrainingExample) {
	if every <= 1 {
		every = 5
	}
	for i, ex := range examples {
		if (i+1)%every == 0 {
			holdout = append(holdout, ex)
		} else {
			train = append(train, ex)
		}
	}
	return train, holdout
}

func (s *LearningService) setRunning(running bool) {
	s.statusMu.Lock()
	s.status.Running = running
	s.statusMu.Unlock()
}
