package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supportbot/chatbot-go/internal/config"
)

// 启动期连通性检查的超时上限，避免 Redis 不可达时拖慢进程启动
const pingTimeout = 3 * time.Second

// NewRedisClient 创建 Redis 客户端并验证连通性
// 探活失败时关闭连接池返回错误，由调用方决定是否退化为内存存储
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	return client, nil
}
