package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

const dashScopeURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// Generator 生成式回复能力
type Generator interface {
	Generate(ctx context.Context, prompt string, tone model.ToneHints, turns []model.Turn) (string, error)
}

// DashScopeClient 通义千问客户端
type DashScopeClient struct {
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDashScopeClient 创建通义千问客户端
func NewDashScopeClient(apiKey, modelName string, timeout time.Duration, logger *zap.Logger) *DashScopeClient {
	return &DashScopeClient{
		apiKey:     apiKey,
		model:      modelName,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Message 消息
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest 聊天请求
type ChatRequest struct {
	Model      string     `json:"model"`
	Input      Input      `json:"input"`
	Parameters Parameters `json:"parameters,omitempty"`
}

// Input 输入
type Input struct {
	Messages []Message `json:"messages"`
}

// Parameters 参数
type Parameters struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Output struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	RequestID string `json:"request_id"`
}

// Generate 生成回复，带有界超时；超时与错误由调用方按失败处理
func (c *DashScopeClient) Generate(ctx context.Context, prompt string, tone model.ToneHints, turns []model.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []Message{
		{Role: "system", Content: systemPrompt(tone)},
	}
	// 最近几轮对话作为上下文
	for _, turn := range turns {
		messages = append(messages,
			Message{Role: "user", Content: turn.Text},
			Message{Role: "assistant", Content: turn.Response},
		)
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	reqBody := ChatRequest{
		Model: c.model,
		Input: Input{Messages: messages},
		Parameters: Parameters{
			Temperature: 0.7,
			MaxTokens:   2000,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dashScopeURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API 返回错误: %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	c.logger.Debug("生成完成",
		zap.String("requestId", chatResp.RequestID),
		zap.Int("outputTokens", chatResp.Usage.OutputTokens))

	return chatResp.Output.Text, nil
}

// systemPrompt 根据语气提示构建系统提示词
func systemPrompt(tone model.ToneHints) string {
	var b strings.Builder
	b.WriteString("You are a helpful, knowledgeable assistant. Provide accurate, concise answers.")
	if tone.Empathy {
		b.WriteString(" The user seems frustrated; respond with empathy and understanding.")
	}
	if tone.Enthusiasm {
		b.WriteString(" The user is in a good mood; respond with warmth and enthusiasm.")
	}
	if tone.Reassure {
		b.WriteString(" The user seems worried; respond with reassurance and support.")
	}
	return b.String()
}
