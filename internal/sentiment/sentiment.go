package sentiment

import (
	"sort"
	"strings"

	"github.com/supportbot/chatbot-go/internal/model"
	"github.com/supportbot/chatbot-go/internal/nlp"
	"go.uber.org/zap"
)

// 极性词典（词 -> 分值），同一词典版本下结果完全确定
var polarityLexicon = map[string]float64{
	// 正面
	"good": 0.6, "great": 0.8, "excellent": 0.9, "amazing": 0.9, "wonderful": 0.9,
	"fantastic": 0.9, "happy": 0.7, "love": 0.8, "like": 0.4, "nice": 0.5,
	"helpful": 0.6, "thanks": 0.5, "thank": 0.5, "awesome": 0.9, "perfect": 0.9,
	"enjoy": 0.6, "excited": 0.7, "best": 0.8,
	// 负面
	"bad": -0.6, "terrible": -0.9, "awful": -0.9, "horrible": -0.9, "hate": -0.8,
	"angry": -0.7, "sad": -0.6, "upset": -0.6, "disappointed": -0.7, "frustrated": -0.7,
	"annoyed": -0.6, "broken": -0.5, "problem": -0.4, "issue": -0.3, "wrong": -0.5,
	"worst": -0.9, "useless": -0.8, "slow": -0.4,
}

// 否定词：翻转其后一个极性词的分值
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "don't": true, "dont": true,
	"doesn't": true, "doesnt": true, "isn't": true, "isnt": true, "can't": true, "cant": true,
}

// emotionLexicon 情绪词典，声明顺序即同分时的排序依据
type emotionLexicon struct {
	label    string
	keywords []string
}

var emotionLexicons = []emotionLexicon{
	{"joy", []string{"happy", "excited", "great", "wonderful", "amazing", "fantastic", "love", "enjoy"}},
	{"sadness", []string{"sad", "depressed", "unhappy", "disappointed", "upset", "down", "miserable"}},
	{"anger", []string{"angry", "mad", "furious", "annoyed", "frustrated", "irritated", "hate"}},
	{"fear", []string{"scared", "afraid", "worried", "anxious", "nervous", "terrified", "panic"}},
	{"surprise", []string{"surprised", "shocked", "amazed", "astonished", "unexpected", "wow"}},
	{"disgust", []string{"disgusted", "sick", "revolted", "appalled", "repulsed", "gross"}},
}

// 极性绝对值低于该值视为中性
const neutralBand = 0.1

// Analyzer 词典法情感分析器（无学习状态）
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer 创建情感分析器
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze 分析清洗文本的极性与情绪
// 极性在去标点的词序列上计算，紧贴标点的词也能命中词典
func (a *Analyzer) Analyze(cleaned string) model.SentimentResult {
	_, tokens := nlp.Preprocess(cleaned)

	polarity := scorePolarity(tokens)

	label := model.SentimentNeutral
	if polarity > neutralBand {
		label = model.SentimentPositive
	} else if polarity < -neutralBand {
		label = model.SentimentNegative
	}

	return model.SentimentResult{
		Polarity: polarity,
		Label:    label,
		Emotions: detectEmotions(cleaned),
	}
}

// scorePolarity 对极性词求均值，否定词翻转后一个极性词
func scorePolarity(tokens []string) float64 {
	var sum float64
	var hits int
	negate := false

	for _, t := range tokens {
		if negations[t] {
			negate = true
			continue
		}
		if score, ok := polarityLexicon[t]; ok {
			if negate {
				score = -score
			}
			sum += score
			hits++
		}
		negate = false
	}

	if hits == 0 {
		return 0
	}
	p := sum / float64(hits)
	if p > 1 {
		p = 1
	} else if p < -1 {
		p = -1
	}
	return p
}

// detectEmotions 检出情绪，得分 = 命中词数 / 词典规模
// 按得分降序，同分按词典声明顺序（稳定可复现）
func detectEmotions(cleaned string) []model.EmotionScore {
	var emotions []model.EmotionScore
	for _, lex := range emotionLexicons {
		hits := 0
		for _, kw := range lex.keywords {
			if strings.Contains(cleaned, kw) {
				hits++
			}
		}
		if hits > 0 {
			emotions = append(emotions, model.EmotionScore{
				Label: lex.label,
				Score: float64(hits) / float64(len(lex.keywords)),
			})
		}
	}

	sort.SliceStable(emotions, func(i, j int) bool {
		return emotions[i].Score > emotions[j].Score
	})

	return emotions
}

// ToneHints 根据情感结果给出语气提示，只影响措辞不影响策略
func ToneHints(s model.SentimentResult) model.ToneHints {
	return model.ToneHints{
		Empathy:    s.Label == model.SentimentNegative || s.HasEmotion("anger"),
		Enthusiasm: s.Label == model.SentimentPositive || s.HasEmotion("joy"),
		Reassure:   s.HasEmotion("fear") || s.HasEmotion("sadness"),
	}
}
