package service

import (
	"github.com/supportbot/chatbot-go/internal/config"
	"github.com/supportbot/chatbot-go/internal/faq"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/rules"
	"github.com/supportbot/chatbot-go/internal/sentiment"
	"go.uber.org/zap"
)

// DecisionService 回复策略决策引擎
// 单轮状态机：FAQ 匹配 -> 策略选择 -> 结束；任何内部失败降级为兜底策略，
// 调用方永远拿到一个合法的 DecisionResult
type DecisionService struct {
	faqBank *faq.Bank
	rules   *rules.Registry
	cfg     config.PipelineConfig
	logger  *zap.Logger
}

// NewDecisionService 创建决策引擎
func NewDecisionService(faqBank *faq.Bank, ruleRegistry *rules.Registry, cfg config.PipelineConfig, logger *zap.Logger) *DecisionService {
	return &DecisionService{
		faqBank: faqBank,
		rules:   ruleRegistry,
		cfg:     cfg,
		logger:  logger,
	}
}

// Decide 选择回复策略
// 情感只用于语气提示，不参与策略分支
func (s *DecisionService) Decide(utt model.Utterance, intent model.IntentResult, sent model.SentimentResult) (result model.DecisionResult) {
	tone := sentiment.ToneHints(sent)

	// 相似度计算或规则查询出现意外时降级为兜底，不向上传播
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("决策引擎内部异常，降级为兜底策略", zap.Any("panic", r))
			result = model.DecisionResult{
				Strategy:   model.StrategyFallback,
				Confidence: 0,
				Rationale:  "internal-error",
				ToneHints:  tone,
			}
		}
	}()

	// 1. FAQ 优先：精选问答的精度高于任何概率分支，同时命中时 FAQ 胜出
	if match, ok := s.faqBank.BestMatch(utt.Tokens, s.cfg.FAQSimilarity); ok {
		s.logger.Debug("FAQ 命中",
			zap.String("entryId", match.Entry.ID),
			zap.Float64("score", match.Score))
		return model.DecisionResult{
			Strategy:   model.StrategyFAQ,
			Target:     match.Entry.ID,
			Confidence: match.Score,
			Rationale:  "faq-match",
			ToneHints:  tone,
		}
	}

	// 2. 高置信意图：有规则走规则（确定、便宜、可审计），否则走生成
	if intent.Confidence >= s.cfg.HighConfidence {
		if s.rules.Has(intent.Label) {
			return model.DecisionResult{
				Strategy:   model.StrategyRule,
				Target:     intent.Label,
				Confidence: intent.Confidence,
				Rationale:  "high-confidence-rule",
				ToneHints:  tone,
			}
		}
		return model.DecisionResult{
			Strategy:   model.StrategyGenerative,
			Target:     utt.Cleaned,
			Confidence: intent.Confidence,
			Rationale:  "high-confidence-generative",
			ToneHints:  tone,
		}
	}

	// 3. 中等置信度：仍允许生成，但标记供下游分析
	if intent.Confidence >= s.cfg.LowConfidence {
		return model.DecisionResult{
			Strategy:   model.StrategyGenerative,
			Target:     utt.Cleaned,
			Confidence: intent.Confidence,
			Rationale:  "low-confidence-generative",
			ToneHints:  tone,
		}
	}

	// 4. 低于下限：兜底话术，不发起生成调用（噪声输入不值得付生成延迟与成本）
	return model.DecisionResult{
		Strategy:   model.StrategyFallback,
		Confidence: intent.Confidence,
		Rationale:  "below-low-confidence",
		ToneHints:  tone,
	}
}
