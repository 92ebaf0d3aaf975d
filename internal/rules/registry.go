package rules

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Registry 规则回复注册中心
type Registry struct {
	rules  map[string]*Rule // intent -> rule
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewRegistry 创建规则注册中心
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		rules:  make(map[string]*Rule),
		logger: logger,
	}
}

// Register 注册规则
func (r *Registry) Register(rule *Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule.Intent == "" {
		return fmt.Errorf("rule intent cannot be empty")
	}
	if _, exists := r.rules[rule.Intent]; exists {
		return fmt.Errorf("rule already registered: %s", rule.Intent)
	}

	r.rules[rule.Intent] = rule
	r.logger.Info("规则已注册", zap.String("intent", rule.Intent))
	return nil
}

// Has 指定意图是否有可用规则
func (r *Registry) Has(intent string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rules[intent]
	return ok
}

// Respond 按意图生成规则回复
func (r *Registry) Respond(intent, text string) (string, error) {
	r.mu.RLock()
	rule, ok := r.rules[intent]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("rule not found: %s", intent)
	}
	return rule.Render(text)
}

// Count 获取注册的规则数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
