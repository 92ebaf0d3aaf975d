package nlp

import (
	"strings"
	"sync/atomic"

	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

// 规则阶段触发词（按优先级匹配，命中即短路统计阶段）
var (
	greetingPatterns   = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings"}
	goodbyePatterns    = []string{"bye", "goodbye", "see you", "farewell", "exit", "quit"}
	complimentPatterns = []string{"thank", "thanks", "good job", "well done", "excellent", "amazing", "great"}
	helpPatterns       = []string{"help me", "can you help", "need help", "assist me", "support me"}
	complaintPatterns  = []string{"not working", "broken", "problem with", "issue with", "error", "bug"}
	questionStarters   = []string{"what is", "what are", "how does", "how do", "tell me about", "explain", "describe", "define"}
	questionWords      = []string{"what", "how", "when", "where", "why", "who", "which"}
)

// Classifier 意图分类器：规则阶段 + 统计阶段
// 统计模型通过原子指针持有，重训后的替换对进行中的分类调用是整体原子的
type Classifier struct {
	live          atomic.Pointer[Model]
	minConfidence float64
	logger        *zap.Logger
}

// NewClassifier 创建意图分类器
func NewClassifier(m *Model, minConfidence float64, logger *zap.Logger) *Classifier {
	c := &Classifier{
		minConfidence: minConfidence,
		logger:        logger,
	}
	c.live.Store(m)
	return c
}

// CurrentModel 返回当前生效模型句柄
func (c *Classifier) CurrentModel() *Model {
	return c.live.Load()
}

// SwapModel 原子替换生效模型
func (c *Classifier) SwapModel(m *Model) {
	old := c.live.Swap(m)
	c.logger.Info("意图模型已切换",
		zap.Int64("oldVersion", old.Version),
		zap.Int64("newVersion", m.Version))
}

// Classify 对清洗后文本分类，永远返回非空结果
func (c *Classifier) Classify(cleaned string, tokens []string) model.IntentResult {
	if cleaned == "" || len(tokens) == 0 {
		return model.UnknownIntent()
	}

	// 规则阶段
	if result, ok := c.matchRules(cleaned, tokens); ok {
		return result
	}

	// 统计阶段
	m := c.live.Load()
	if m == nil {
		return model.UnknownIntent()
	}

	// 全部词都不在词表内时没有任何证据，直接降级为 unknown
	if m.KnownTokens(tokens) == 0 {
		return model.UnknownIntent()
	}
	label, confidence := m.Predict(tokens)

	if confidence < c.minConfidence {
		// 低于最低置信度降级为 unknown，原始最高分类别保留给学习回路
		return model.IntentResult{
			Label:      model.IntentUnknown,
			Confidence: confidence,
			Source:     model.SourceModel,
			RawLabel:   label,
		}
	}

	return model.IntentResult{Label: label, Confidence: confidence, Source: model.SourceModel}
}

// matchRules 规则匹配，返回固定高置信度结果
func (c *Classifier) matchRules(cleaned string, tokens []string) (model.IntentResult, bool) {
	// 1. 问候（疑问句除外，"what is hi in french" 不算问候）
	if containsAny(cleaned, greetingPatterns) && !isQuestionLike(cleaned) {
		return ruleResult(model.IntentGreeting, 0.95), true
	}

	// 2. 告别
	if containsAny(cleaned, goodbyePatterns) {
		return ruleResult(model.IntentGoodbye, 0.9), true
	}

	// 3. 致谢/称赞
	if containsAny(cleaned, complimentPatterns) {
		return ruleResult(model.IntentCompliment, 0.85), true
	}

	// 4. 求助
	if containsAny(cleaned, helpPatterns) {
		return ruleResult(model.IntentHelp, 0.9), true
	}

	// 5. 投诉
	if containsAny(cleaned, complaintPatterns) {
		return ruleResult(model.IntentComplaint, 0.85), true
	}

	// 6. 疑问句
	if containsAny(cleaned, questionStarters) || strings.Contains(cleaned, "?") {
		return ruleResult(model.IntentQuestion, 0.95), true
	}
	for _, w := range questionWords {
		if tokens[0] == w {
			return ruleResult(model.IntentQuestion, 0.9), true
		}
	}

	return model.IntentResult{}, false
}

func ruleResult(label string, confidence float64) model.IntentResult {
	return model.IntentResult{Label: label, Confidence: confidence, Source: model.SourceRule}
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func isQuestionLike(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	for _, w := range questionWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
