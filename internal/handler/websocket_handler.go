package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/service"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境应该检查 Origin 白名单
		return true
	},
}

// WebSocketHandler WebSocket 流式对话处理器
type WebSocketHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(chatService *service.ChatService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// wsConn 单个连接，写入需要串行化
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// HandleWebSocket WebSocket 连接入口
// 会话 ID 可由客户端通过 ?sessionId= 指定，缺省时为连接生成一个
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	wc := &wsConn{conn: conn}

	h.logger.Info("WebSocket 连接建立",
		zap.String("sessionId", sessionID),
		zap.String("clientIp", c.ClientIP()))

	// 消息循环
	for {
		var msg model.ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket 读取错误", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case "CHAT":
			// 同一连接内消息按到达顺序处理，保证同会话上下文按序更新
			resp := h.chatService.HandleTurn(c.Request.Context(), sessionID, msg.Content)
			reply := model.ChatMessage{
				MessageID: uuid.New().String(),
				Type:      "BOT_RESPONSE",
				Content:   resp.ResponseText,
				SessionID: sessionID,
				Timestamp: time.Now(),
			}
			if err := wc.writeJSON(reply); err != nil {
				h.logger.Error("WebSocket 回复失败", zap.Error(err))
			}

		case "HEARTBEAT":
			h.logger.Debug("收到心跳", zap.String("sessionId", sessionID))

		default:
			h.logger.Warn("未知消息类型",
				zap.String("sessionId", sessionID),
				zap.String("type", msg.Type))
		}
	}

	h.logger.Info("WebSocket 连接断开", zap.String("sessionId", sessionID))
}
