package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(zap.NewNop())
}

func TestAnalyzePositive(t *testing.T) {
	result := newTestAnalyzer().Analyze("this is great and i love it")

	assert.Equal(t, model.SentimentPositive, result.Label)
	assert.Greater(t, result.Polarity, 0.1)
	assert.LessOrEqual(t, result.Polarity, 1.0)
}

func TestAnalyzeNegative(t *testing.T) {
	result := newTestAnalyzer().Analyze("this is terrible i hate it")

	assert.Equal(t, model.SentimentNegative, result.Label)
	assert.Less(t, result.Polarity, -0.1)
	assert.GreaterOrEqual(t, result.Polarity, -1.0)
}

func TestAnalyzeNeutral(t *testing.T) {
	result := newTestAnalyzer().Analyze("the sky is blue today")

	assert.Equal(t, model.SentimentNeutral, result.Label)
	assert.Zero(t, result.Polarity)
	assert.Empty(t, result.Emotions)
}

func TestAnalyzePunctuationAdjacentWords(t *testing.T) {
	a := newTestAnalyzer()

	// 紧贴标点的极性词同样命中词典
	assert.Equal(t, model.SentimentNegative, a.Analyze("this is terrible!").Label)
	assert.Equal(t, model.SentimentPositive, a.Analyze("i am happy!!!").Label)
	assert.Equal(t, model.SentimentNegative, a.Analyze("i am not happy!").Label)

	// 负面判定进而触发同理语气提示
	hints := ToneHints(a.Analyze("this is terrible!"))
	assert.True(t, hints.Empathy)
}

func TestAnalyzeNegationFlips(t *testing.T) {
	a := newTestAnalyzer()

	plain := a.Analyze("i am happy")
	negated := a.Analyze("i am not happy")

	assert.Equal(t, model.SentimentPositive, plain.Label)
	assert.Equal(t, model.SentimentNegative, negated.Label)
	assert.InDelta(t, -plain.Polarity, negated.Polarity, 1e-9)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := newTestAnalyzer()
	first := a.Analyze("i am so happy and excited about this")
	second := a.Analyze("i am so happy and excited about this")
	assert.Equal(t, first, second)
}

func TestDetectEmotionsSortedByScore(t *testing.T) {
	// joy 命中 2 个关键词，fear 命中 1 个
	result := newTestAnalyzer().Analyze("happy and excited but a little worried")

	require.GreaterOrEqual(t, len(result.Emotions), 2)
	assert.Equal(t, "joy", result.Emotions[0].Label)
	for i := 1; i < len(result.Emotions); i++ {
		assert.GreaterOrEqual(t, result.Emotions[i-1].Score, result.Emotions[i].Score)
	}
}

func TestDetectEmotionsTieBreakByDeclarationOrder(t *testing.T) {
	// sadness 与 anger 各命中 1 个关键词且词典同长，得分持平，
	// 按词典声明顺序 sadness 在前
	result := newTestAnalyzer().Analyze("feeling sad and mad")

	require.Len(t, result.Emotions, 2)
	assert.Equal(t, "sadness", result.Emotions[0].Label)
	assert.Equal(t, "anger", result.Emotions[1].Label)
	assert.Equal(t, result.Emotions[0].Score, result.Emotions[1].Score)
}

func TestToneHints(t *testing.T) {
	negative := model.SentimentResult{Label: model.SentimentNegative}
	hints := ToneHints(negative)
	assert.True(t, hints.Empathy)
	assert.False(t, hints.Enthusiasm)

	fearful := model.SentimentResult{
		Label:    model.SentimentNeutral,
		Emotions: []model.EmotionScore{{Label: "fear", Score: 0.1}},
	}
	hints = ToneHints(fearful)
	assert.True(t, hints.Reassure)
	assert.False(t, hints.Empathy)
}
