package model

// 情感极性标签
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// EmotionScore 单个情绪得分
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentResult 情感分析结果
type SentimentResult struct {
	Polarity float64        `json:"polarity"` // [-1,1]
	Label    string         `json:"label"`    // positive / negative / neutral
	Emotions []EmotionScore `json:"emotions"` // 按得分降序，同分按词典声明顺序
}

// PrimaryEmotion 返回得分最高的情绪，无情绪时返回空串
func (s SentimentResult) PrimaryEmotion() string {
	if len(s.Emotions) == 0 {
		return ""
	}
	return s.Emotions[0].Label
}

// HasEmotion 是否检出指定情绪
func (s SentimentResult) HasEmotion(label string) bool {
	for _, e := range s.Emotions {
		if e.Label == label {
			return true
		}
	}
	return false
}

// Entity 命名实体
type Entity struct {
	Type  string `json:"type"`  // NUMBER, DATE, PERSON, LOCATION, PRODUCT
	Value string `json:"value"` // 实体文本
	Span  [2]int `json:"span"`  // 在清洗文本中的起止下标
}
