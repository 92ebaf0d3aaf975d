package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/service"
	"go.uber.org/zap"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat 对话接口
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}
	if req.SessionID == "" {
		c.JSON(400, gin.H{"error": "sessionId 不能为空"})
		return
	}

	h.logger.Info("收到对话请求",
		zap.String("sessionId", req.SessionID),
		zap.String("text", req.Text))

	resp := h.chatService.HandleTurn(c.Request.Context(), req.SessionID, req.Text)
	c.JSON(200, resp)
}

// Feedback 反馈接口
func (h *ChatHandler) Feedback(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request"})
		return
	}
	if req.SessionID == "" || req.Rating < 1 || req.Rating > 5 {
		c.JSON(400, gin.H{"error": "sessionId 与 rating(1-5) 不能为空"})
		return
	}

	err := h.chatService.HandleFeedback(c.Request.Context(), req.SessionID, req.Rating, req.Comment)
	if err == service.ErrNoRecentRecord {
		c.JSON(404, gin.H{"error": "会话没有可评价的回复"})
		return
	}
	if err != nil {
		h.logger.Error("反馈记录失败",
			zap.String("sessionId", req.SessionID),
			zap.Error(err))
		c.JSON(500, gin.H{"error": "反馈记录失败"})
		return
	}

	c.JSON(200, gin.H{"success": true})
}
