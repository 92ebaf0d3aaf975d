package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supportbot/chatbot-go/internal/service"
	"github.com/supportbot/chatbot-go/internal/store"
	"go.uber.org/zap"
)

// AdminHandler 运维接口处理器：分析快照、学习触发、健康检查
type AdminHandler struct {
	analytics   *service.AnalyticsService
	learning    *service.LearningService
	contexts    *service.ContextService
	store       store.InteractionStore
	serviceName string
	logger      *zap.Logger
}

// NewAdminHandler 创建运维处理器
func NewAdminHandler(
	analytics *service.AnalyticsService,
	learning *service.LearningService,
	contexts *service.ContextService,
	interactionStore store.InteractionStore,
	serviceName string,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		analytics:   analytics,
		learning:    learning,
		contexts:    contexts,
		store:       interactionStore,
		serviceName: serviceName,
		logger:      logger,
	}
}

// Analytics 分析快照接口（?days=30）
func (h *AdminHandler) Analytics(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(400, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	snapshot, err := h.analytics.Snapshot(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("计算分析快照失败", zap.Error(err))
		c.JSON(500, gin.H{"error": "计算分析快照失败"})
		return
	}
	c.JSON(200, snapshot)
}

// TriggerLearning 手动触发学习
// 异步执行：接口立即返回，进度通过状态接口查询
func (h *AdminHandler) TriggerLearning(c *gin.Context) {
	status := h.learning.Status()
	if status.Running {
		c.JSON(409, gin.H{"error": "学习任务已在执行中", "status": status})
		return
	}

	go func() {
		if _, err := h.learning.Run(context.Background()); err != nil && err != service.ErrLearningInFlight {
			h.logger.Error("学习任务失败", zap.Error(err))
		}
	}()

	c.JSON(202, gin.H{"status": "triggered"})
}

// LearningStatus 学习回路状态
func (h *AdminHandler) LearningStatus(c *gin.Context) {
	c.JSON(200, h.learning.Status())
}

// Health 健康检查
func (h *AdminHandler) Health(c *gin.Context) {
	storeStatus := "UP"
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "DOWN"
		h.logger.Warn("存储不可达", zap.Error(err))
	}

	c.JSON(200, gin.H{
		"status":          "UP",
		"service":         h.serviceName,
		"store":           storeStatus,
		"active_sessions": h.contexts.ActiveSessions(),
		"model_version":   h.learning.Status().ModelVersion,
	})
}
