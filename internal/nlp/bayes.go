package nlp

import (
	"fmt"
	"math"

	"github.com/supportbot/chatbot-go/internal/model"
)

// Model 多项式朴素贝叶斯意图模型
// 词表与参数在训练期固定，训练完成后只读，通过分类器的原子句柄整体替换
type Model struct {
	Version    int64          // 模型版本，每次重训递增
	Alpha      float64        // 拉普拉斯平滑系数
	Vocabulary map[string]int // 词 -> 特征下标
	Classes    []string       // 类别标签（稳定顺序）
	classIndex map[string]int
	logPrior   []float64   // log P(c)
	logProb    [][]float64 // [class][term] log P(t|c)
}

// TrainModel 从训练集训练模型
func TrainModel(examples []model.TrainingExample, alpha float64, version int64) (*Model, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("训练集为空")
	}
	if alpha <= 0 {
		alpha = 0.1
	}

	// 建词表与类别表（按首次出现顺序，保证可复现）
	vocab := make(map[string]int)
	classIndex := make(map[string]int)
	var classes []string
	for _, ex := range examples {
		if _, ok := classIndex[ex.Label]; !ok {
			classIndex[ex.Label] = len(classes)
			classes = append(classes, ex.Label)
		}
		_, tokens := Preprocess(ex.Text)
		for _, t := range tokens {
			if _, ok := vocab[t]; !ok {
				vocab[t] = len(vocab)
			}
		}
	}

	// 统计词频
	classCount := make([]float64, len(classes))
	termCount := make([][]float64, len(classes))
	termTotal := make([]float64, len(classes))
	for i := range termCount {
		termCount[i] = make([]float64, len(vocab))
	}
	for _, ex := range examples {
		ci := classIndex[ex.Label]
		classCount[ci]++
		_, tokens := Preprocess(ex.Text)
		for _, t := range tokens {
			ti := vocab[t]
			termCount[ci][ti]++
			termTotal[ci]++
		}
	}

	// 参数估计
	m := &Model{
		Version:    version,
		Alpha:      alpha,
		Vocabulary: vocab,
		Classes:    classes,
		classIndex: classIndex,
		logPrior:   make([]float64, len(classes)),
		logProb:    make([][]float64, len(classes)),
	}
	total := float64(len(examples))
	vocabSize := float64(len(vocab))
	for ci := range classes {
		m.logPrior[ci] = math.Log(classCount[ci] / total)
		m.logProb[ci] = make([]float64, len(vocab))
		denom := termTotal[ci] + alpha*vocabSize
		for ti := range m.logProb[ci] {
			m.logProb[ci][ti] = math.Log((termCount[ci][ti] + alpha) / denom)
		}
	}

	return m, nil
}

// Predict 返回最高分类别与归一化后验概率
// 词表外的词被忽略（词表在训练期冻结）
func (m *Model) Predict(tokens []string) (label string, confidence float64) {
	scores := make([]float64, len(m.Classes))
	copy(scores, m.logPrior)

	for _, t := range tokens {
		ti, ok := m.Vocabulary[t]
		if !ok {
			continue
		}
		for ci := range scores {
			scores[ci] += m.logProb[ci][ti]
		}
	}

	// log-sum-exp 归一化
	best := 0
	maxScore := scores[0]
	for ci, s := range scores {
		if s > maxScore {
			maxScore = s
			best = ci
		}
	}
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}

	return m.Classes[best], 1 / sum
}

// KnownTokens 返回词表内命中的词数
func (m *Model) KnownTokens(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if _, ok := m.Vocabulary[t]; ok {
			n++
		}
	}
	return n
}

// Evaluate 计算模型在给定样本上的准确率
func (m *Model) Evaluate(examples []model.TrainingExample) float64 {
	if len(examples) == 0 {
		return 0
	}
	correct := 0
	for _, ex := range examples {
		_, tokens := Preprocess(ex.Text)
		label, _ := m.Predict(tokens)
		if label == ex.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(examples))
}
