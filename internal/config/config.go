package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Generator GeneratorConfig `yaml:"generator"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Context   ContextConfig   `yaml:"context"`
	Learning  LearningConfig  `yaml:"learning"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `yaml:"port"`
	Name string `yaml:"name"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GeneratorConfig 生成式回复配置（通义千问）
type GeneratorConfig struct {
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	TimeoutMS int    `yaml:"timeoutMs"` // 生成调用超时（毫秒）
	Enabled   bool   `yaml:"enabled"`
}

// Timeout 生成调用超时
func (c GeneratorConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// PipelineConfig 决策管道阈值配置
type PipelineConfig struct {
	HighConfidence float64 `yaml:"highConfidence"` // 高置信度阈值，达到后走规则/生成策略
	LowConfidence  float64 `yaml:"lowConfidence"`  // 低置信度阈值，低于该值走兜底策略
	MinConfidence  float64 `yaml:"minConfidence"`  // 统计分类最低置信度，低于该值标记为 unknown
	FAQSimilarity  float64 `yaml:"faqSimilarity"`  // FAQ 相似度阈值
}

// ContextConfig 会话上下文配置
type ContextConfig struct {
	MaxTurns  int `yaml:"maxTurns"`  // 每个会话保留的最近轮数
	TTLMinute int `yaml:"ttlMinute"` // 会话不活跃过期时间（分钟）
}

// TTL 会话过期时间
func (c ContextConfig) TTL() time.Duration {
	if c.TTLMinute <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.TTLMinute) * time.Minute
}

// LearningConfig 学习回路配置
type LearningConfig struct {
	ClusterSimilarity float64 `yaml:"clusterSimilarity"` // 低置信记录聚类相似度阈值
	MinClusterSize    int     `yaml:"minClusterSize"`    // 成为候选意图的最小簇规模
	Tolerance         float64 `yaml:"tolerance"`         // 新模型验证允许的准确率回退幅度
	HoldoutEvery      int     `yaml:"holdoutEvery"`      // 每 N 条训练样本留出 1 条做验证
	IntervalMinute    int     `yaml:"intervalMinute"`    // 定时触发间隔（分钟），0 表示仅手动触发
}

// Interval 定时触发间隔
func (c LearningConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinute) * time.Minute
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig 返回带默认阈值的配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Name: "chatbot"},
		Redis:  RedisConfig{Host: "localhost", Port: 6379},
		Generator: GeneratorConfig{
			Model:     "qwen-turbo",
			TimeoutMS: 30000,
			Enabled:   true,
		},
		Pipeline: PipelineConfig{
			HighConfidence: 0.7,
			LowConfidence:  0.4,
			MinConfidence:  0.7,
			FAQSimilarity:  0.5,
		},
		Context: ContextConfig{MaxTurns: 5, TTLMinute: 30},
		Learning: LearningConfig{
			ClusterSimilarity: 0.4,
			MinClusterSize:    3,
			Tolerance:         0.05,
			HoldoutEvery:      5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig 加载配置文件，缺省字段使用默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return cfg, nil
}
