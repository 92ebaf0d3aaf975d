package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/supportbot/chatbot-go/internal/client"
	"github.com/supportbot/chatbot-go/internal/config"
	"github.com/supportbot/chatbot-go/internal/faq"
	"github.com/supportbot/chatbot-go/internal/handler"
	"github.com/supportbot/chatbot-go/internal/middleware"
	"github.com/supportbot/chatbot-go/internal/nlp"
	"github.com/supportbot/chatbot-go/internal/rules"
	"github.com/supportbot/chatbot-go/internal/sentiment"
	"github.com/supportbot/chatbot-go/internal/service"
	"github.com/supportbot/chatbot-go/internal/store"
	"github.com/supportbot/chatbot-go/pkg/logger"
	pkgredis "github.com/supportbot/chatbot-go/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	configPath := "configs/chatbot.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("chatbot 服务启动中...")

	// 初始化存储（Redis 不可达时退化为内存存储）
	var interactionStore store.InteractionStore
	redisClient, err := pkgredis.NewRedisClient(cfg.Redis)
	if err != nil {
		zapLogger.Warn("Redis 不可用，使用内存存储", zap.Error(err))
		interactionStore = store.NewMemoryStore()
	} else {
		interactionStore = store.NewRedisStore(redisClient, zapLogger)
	}

	// 写入种子训练集并训练初始模型
	ctx := context.Background()
	if err := interactionStore.AppendExamples(ctx, nlp.SeedExamples()); err != nil {
		log.Fatalf("写入种子训练集失败: %v", err)
	}
	examples, err := interactionStore.Examples(ctx)
	if err != nil {
		log.Fatalf("读取训练集失败: %v", err)
	}
	intentModel, err := nlp.TrainModel(examples, 0.1, 1)
	if err != nil {
		log.Fatalf("训练初始模型失败: %v", err)
	}
	classifier := nlp.NewClassifier(intentModel, cfg.Pipeline.MinConfidence, zapLogger)
	zapLogger.Info("意图模型就绪",
		zap.Int("examples", len(examples)),
		zap.Int("vocabulary", len(intentModel.Vocabulary)),
		zap.Strings("classes", intentModel.Classes))

	// 问答库
	faqBank := faq.NewBank(zapLogger)
	if err := faqBank.AddBatch(faq.DefaultEntries()); err != nil {
		log.Fatalf("加载问答库失败: %v", err)
	}

	// 规则回复
	ruleRegistry := rules.NewRegistry(zapLogger)
	if err := rules.RegisterBuiltinRules(ruleRegistry, zapLogger); err != nil {
		log.Fatalf("注册规则失败: %v", err)
	}

	// 生成式回复客户端
	var generator client.Generator
	if cfg.Generator.Enabled && cfg.Generator.APIKey != "" {
		generator = client.NewDashScopeClient(cfg.Generator.APIKey, cfg.Generator.Model, cfg.Generator.Timeout(), zapLogger)
	} else {
		zapLogger.Warn("生成式回复未启用，将以兜底话术替代")
	}

	// 业务服务
	analyzer := sentiment.NewAnalyzer(zapLogger)
	contexts := service.NewContextService(cfg.Context.MaxTurns, cfg.Context.TTL(), zapLogger)
	decisions := service.NewDecisionService(faqBank, ruleRegistry, cfg.Pipeline, zapLogger)
	chatService := service.NewChatService(classifier, analyzer, contexts, decisions, faqBank, ruleRegistry, generator, interactionStore, zapLogger)
	learning := service.NewLearningService(classifier, interactionStore, cfg.Learning, cfg.Pipeline.LowConfidence, zapLogger)
	learning.StartScheduler()
	analytics := service.NewAnalyticsService(interactionStore, zapLogger)

	// 处理器
	chatHandler := handler.NewChatHandler(chatService, zapLogger)
	adminHandler := handler.NewAdminHandler(analytics, learning, contexts, interactionStore, cfg.Server.Name, zapLogger)
	wsHandler := handler.NewWebSocketHandler(chatService, zapLogger)

	// 初始化路由
	r := gin.Default()
	r.Use(middleware.CORS())

	r.POST("/api/chat", chatHandler.Chat)
	r.POST("/api/feedback", chatHandler.Feedback)
	r.GET("/api/analytics", adminHandler.Analytics)
	r.POST("/api/learning/trigger", adminHandler.TriggerLearning)
	r.GET("/api/learning/status", adminHandler.LearningStatus)
	r.GET("/api/health", adminHandler.Health)
	r.GET("/ws", wsHandler.HandleWebSocket)

	// 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zapLogger.Info("chatbot 服务启动成功",
		zap.Int("port", cfg.Server.Port),
		zap.Int("faqEntries", faqBank.Count()),
		zap.Int("rules", ruleRegistry.Count()))

	if err := r.Run(addr); err != nil {
		zapLogger.Fatal("服务启动失败", zap.Error(err))
	}
}
