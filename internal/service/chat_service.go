package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supportbot/chatbot-go/internal/client"
	"github.com/supportbot/chatbot-go/internal/faq"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/nlp"
	"github.com/supportbot/chatbot-go/internal/rules"
	"github.com/supportbot/chatbot-go/internal/sentiment"
	"github.com/supportbot/chatbot-go/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoRecentRecord = fmt.Errorf("会话没有可关联的交互记录")
)

// 兜底话术
const (
	fallbackResponse   = "I'm not sure I fully understand. Could you rephrase that?"
	empatheticFallback = "I can see this is important to you. Could you rephrase your question?"
	malformedResponse  = "I didn't catch that. Could you type your message again?"
	generateFailedText = "I'm having trouble answering that right now. Could you try again in a moment?"
)

// 语气修饰（确定性，不随机挑选）
const (
	empathyPrefix    = "I understand that can be concerning. "
	enthusiasmSuffix = " I'm happy to assist!"
)

// ChatService 对话管道编排
// 一轮处理：预处理 -> {意图/实体/情感 并行} -> 上下文合并 -> 策略决策 -> 回复生成 -> 落盘 -> 上下文更新
type ChatService struct {
	classifier *nlp.Classifier
	analyzer   *sentiment.Analyzer
	contexts   *ContextService
	decisions  *DecisionService
	faqBank    *faq.Bank
	rules      *rules.Registry
	generator  client.Generator
	store      store.InteractionStore
	logger     *zap.Logger
}

// NewChatService 创建对话服务
func NewChatService(
	classifier *nlp.Classifier,
	analyzer *sentiment.Analyzer,
	contexts *ContextService,
	decisions *DecisionService,
	faqBank *faq.Bank,
	ruleRegistry *rules.Registry,
	generator client.Generator,
	interactionStore store.InteractionStore,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		classifier: classifier,
		analyzer:   analyzer,
		contexts:   contexts,
		decisions:  decisions,
		faqBank:    faqBank,
		rules:      ruleRegistry,
		generator:  generator,
		store:      interactionStore,
		logger:     logger,
	}
}

// HandleTurn 处理一轮对话，管道内任何失败都降级为可用回复，不向调用方抛错
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, rawText string) *model.ChatResponse {
	start := time.Now()

	cleaned, tokens := nlp.Preprocess(rawText)
	if cleaned == "" {
		// 空输入直接短路，不进分类
		s.logger.Debug("空输入已短路", zap.String("sessionId", sessionID))
		return &model.ChatResponse{
			ResponseText: malformedResponse,
			Intent:       model.IntentUnknown,
			Sentiment:    model.SentimentNeutral,
			Strategy:     string(model.StrategyFallback),
			Confidence:   0,
			LatencyMS:    time.Since(start).Milliseconds(),
		}
	}

	utt := model.Utterance{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Raw:       rawText,
		Cleaned:   cleaned,
		Tokens:    tokens,
		Timestamp: start,
	}

	// 意图、实体、情感三路独立，可并行
	var (
		intentRes model.IntentResult
		entities  []model.Entity
		sentRes   model.SentimentResult
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		intentRes = s.classifier.Classify(utt.Cleaned, utt.Tokens)
		return nil
	})
	g.Go(func() error {
		entities = nlp.ExtractEntities(utt.Cleaned)
		return nil
	})
	g.Go(func() error {
		sentRes = s.analyzer.Analyze(utt.Cleaned)
		return nil
	})
	_ = g.Wait()

	snapshot := s.contexts.GetContext(sessionID)

	decision := s.decisions.Decide(utt, intentRes, sentRes)

	responseText := s.respond(ctx, utt, intentRes, decision, snapshot)

	record := model.InteractionRecord{
		ID:        utt.ID,
		SessionID: sessionID,
		Utterance: utt,
		Intent:    intentRes,
		Sentiment: sentRes,
		Entities:  entities,
		Decision:  decision,
		Response:  responseText,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: start,
	}

	// 落盘只尝试一次；失败记日志，不影响用户可见回复
	if err := s.store.Append(ctx, record); err != nil {
		s.logger.Error("交互记录落盘失败",
			zap.String("recordId", record.ID),
			zap.Error(err))
	}

	// 请求被放弃时不再更新上下文（整轮增量要么全生效要么全不生效）
	if ctx.Err() == nil {
		s.contexts.Update(sessionID, model.Turn{
			UtteranceID: utt.ID,
			Text:        utt.Cleaned,
			Intent:      intentRes.Label,
			Entities:    entities,
			Response:    responseText,
			Timestamp:   start,
		}, record.ID)
	}

	s.logger.Info("一轮对话处理完成",
		zap.String("sessionId", sessionID),
		zap.String("intent", intentRes.Label),
		zap.Float64("confidence", intentRes.Confidence),
		zap.String("strategy", string(decision.Strategy)),
		zap.Int64("latencyMs", record.LatencyMS))

	return &model.ChatResponse{
		ResponseText: responseText,
		Intent:       intentRes.Label,
		Sentiment:    sentRes.Label,
		Strategy:     string(decision.Strategy),
		Confidence:   intentRes.Confidence,
		LatencyMS:    record.LatencyMS,
	}
}

// respond 按决策结果生成回复文本（策略枚举穷举处理）
func (s *ChatService) respond(ctx context.Context, utt model.Utterance, intent model.IntentResult, decision model.DecisionResult, snapshot *model.ConversationContext) string {
	switch decision.Strategy {
	case model.StrategyFAQ:
		entry, ok := s.faqBank.Get(decision.Target)
		if !ok {
			s.logger.Warn("FAQ 条目不存在，降级为兜底", zap.String("entryId", decision.Target))
			return s.fallbackText(decision.ToneHints)
		}
		return applyTone(entry.Answer, decision.ToneHints)

	case model.StrategyRule:
		text, err := s.rules.Respond(intent.Label, utt.Cleaned)
		if err != nil {
			s.logger.Warn("规则回复失败，降级为兜底",
				zap.String("intent", intent.Label),
				zap.Error(err))
			return s.fallbackText(decision.ToneHints)
		}
		return applyTone(text, decision.ToneHints)

	case model.StrategyGenerative:
		if s.generator == nil {
			return s.fallbackText(decision.ToneHints)
		}
		text, err := s.generator.Generate(ctx, decision.Target, decision.ToneHints, snapshot.Turns)
		if err != nil {
			// 生成失败/超时在本地恢复为兜底回复
			s.logger.Error("生成式回复失败，降级为兜底", zap.Error(err))
			return generateFailedText
		}
		return text

	case model.StrategyFallback:
		return s.fallbackText(decision.ToneHints)

	default:
		s.logger.Error("未知策略，降级为兜底", zap.String("strategy", string(decision.Strategy)))
		return s.fallbackText(decision.ToneHints)
	}
}

// fallbackText 兜底话术，负面情绪用同理版本
func (s *ChatService) fallbackText(tone model.ToneHints) string {
	if tone.Empathy {
		return empatheticFallback
	}
	return fallbackResponse
}

// applyTone 按语气提示修饰回复
func applyTone(text string, tone model.ToneHints) string {
	if tone.Empathy {
		return empathyPrefix + text
	}
	if tone.Enthusiasm {
		return text + enthusiasmSuffix
	}
	return text
}

// HandleFeedback 记录用户对最近一条回复的评分（追加修正记录，不回写原记录）
func (s *ChatService) HandleFeedback(ctx context.Context, sessionID string, rating int, comment string) error {
	recordID, ok := s.contexts.LastRecordID(sessionID)
	if !ok {
		return ErrNoRecentRecord
	}

	fb := model.FeedbackRecord{
		ID:        uuid.New().String(),
		RecordID:  recordID,
		SessionID: sessionID,
		Rating:    rating,
		Comment:   comment,
		Timestamp: time.Now(),
	}

	if err := s.store.AppendFeedback(ctx, fb); err != nil {
		return err
	}

	s.logger.Info("反馈已记录",
		zap.String("sessionId", sessionID),
		zap.String("recordId", recordID),
		zap.Int("rating", rating))
	return nil
}
