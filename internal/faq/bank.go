package faq

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/supportbot/chatbot-go/internal/nlp"
	"go.uber.org/zap"
)

// Entry 精选问答条目
type Entry struct {
	ID       string `yaml:"id" json:"id"`
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`

	vector map[string]float64 // 问题的词频向量，加载时计算
}

// Match FAQ 命中结果
type Match struct {
	Entry Entry   // 条目
	Score float64 // 余弦相似度（0-1，越高越相似）
}

// Bank 内存问答库
// 相似度在本地词频向量上计算，理解路径不依赖外部调用
type Bank struct {
	entries map[string]*Entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewBank 创建问答库
func NewBank(logger *zap.Logger) *Bank {
	return &Bank{
		entries: make(map[string]*Entry),
		logger:  logger,
	}
}

// Add 添加问答条目
func (b *Bank) Add(entry Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}
	if entry.Question == "" || entry.Answer == "" {
		return fmt.Errorf("entry question/answer cannot be empty: %s", entry.ID)
	}

	_, tokens := nlp.Preprocess(entry.Question)
	entry.vector = termVector(tokens)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[entry.ID] = &entry
	return nil
}

// AddBatch 批量添加问答条目
func (b *Bank) AddBatch(entries []Entry) error {
	for _, e := range entries {
		if err := b.Add(e); err != nil {
			return err
		}
	}
	b.logger.Info("问答库已加载", zap.Int("count", len(entries)))
	return nil
}

// Search 返回相似度最高的若干条目（低于 minScore 的过滤掉）
func (b *Bank) Search(tokens []string, topK int, minScore float64) []Match {
	b.mu.RLock()
	defer b.mu.RUnlock()

	query := termVector(tokens)
	if len(query) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(b.entries))
	for _, entry := range b.entries {
		score := cosineSimilarity(query, entry.vector)
		if score >= minScore {
			matches = append(matches, Match{Entry: *entry, Score: score})
		}
	}

	// 相似度降序，同分按 ID 保证稳定
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entry.ID < matches[j].Entry.ID
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// BestMatch 返回最相似条目，无命中时 ok 为 false
func (b *Bank) BestMatch(tokens []string, minScore float64) (Match, bool) {
	matches := b.Search(tokens, 1, minScore)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// Get 按 ID 获取条目
func (b *Bank) Get(id string) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Count 获取条目数量
func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// termVector 词频向量
func termVector(tokens []string) map[string]float64 {
	v := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		v[t]++
	}
	return v
}

// cosineSimilarity 计算稀疏词频向量的余弦相似度
func cosineSimilarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for t, va := range a {
		normA += va * va
		if vb, ok := b[t]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
