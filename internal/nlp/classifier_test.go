package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	m, err := TrainModel(SeedExamples(), 0.1, 1)
	require.NoError(t, err)
	return NewClassifier(m, 0.7, zap.NewNop())
}

func TestClassifyGreetingRule(t *testing.T) {
	c := newTestClassifier(t)

	cleaned, tokens := Preprocess("hi there")
	result := c.Classify(cleaned, tokens)

	assert.Equal(t, model.IntentGreeting, result.Label)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, model.SourceRule, result.Source)
}

func TestClassifyGreetingSuppressedInQuestion(t *testing.T) {
	c := newTestClassifier(t)

	// 包含问候词但是疑问句，不应判为问候
	cleaned, tokens := Preprocess("what does hi mean?")
	result := c.Classify(cleaned, tokens)

	assert.Equal(t, model.IntentQuestion, result.Label)
}

func TestClassifyRulePriorities(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		text       string
		label      string
		confidence float64
	}{
		{"goodbye for now", model.IntentGoodbye, 0.9},
		{"thanks a lot", model.IntentCompliment, 0.85},
		{"can you help me please", model.IntentHelp, 0.9},
		{"what is deep learning", model.IntentQuestion, 0.95},
		{"where did it go", model.IntentQuestion, 0.9},
	}
	for _, tc := range cases {
		cleaned, tokens := Preprocess(tc.text)
		result := c.Classify(cleaned, tokens)
		assert.Equal(t, tc.label, result.Label, tc.text)
		assert.Equal(t, tc.confidence, result.Confidence, tc.text)
		assert.Equal(t, model.SourceRule, result.Source, tc.text)
	}
}

func TestClassifyGibberishIsUnknown(t *testing.T) {
	c := newTestClassifier(t)

	cleaned, tokens := Preprocess("asldkjasd")
	result := c.Classify(cleaned, tokens)

	assert.Equal(t, model.IntentUnknown, result.Label)
	assert.Zero(t, result.Confidence)
}

func TestClassifyNeverNilAndBounded(t *testing.T) {
	c := newTestClassifier(t)

	inputs := []string{"", "   ", "hello", "asldkjasd", "what is ai", "x", "1234", "!!!"}
	for _, in := range inputs {
		cleaned, tokens := Preprocess(in)
		result := c.Classify(cleaned, tokens)
		assert.NotEmpty(t, result.Label, in)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, in)
		assert.LessOrEqual(t, result.Confidence, 1.0, in)
	}
}

func TestClassifyLowConfidenceKeepsRawLabel(t *testing.T) {
	m, err := TrainModel(SeedExamples(), 0.1, 1)
	require.NoError(t, err)
	// 阈值拉满，统计结果必然降级为 unknown
	c := NewClassifier(m, 1.01, zap.NewNop())

	// 词表内但不触发任何规则的输入
	cleaned, tokens := Preprocess("information please")
	result := c.Classify(cleaned, tokens)

	assert.Equal(t, model.IntentUnknown, result.Label)
	assert.NotEmpty(t, result.RawLabel)
	assert.NotEqual(t, model.IntentUnknown, result.RawLabel)
}

func TestSwapModelUpdatesVersion(t *testing.T) {
	c := newTestClassifier(t)
	require.Equal(t, int64(1), c.CurrentModel().Version)

	m2, err := TrainModel(SeedExamples(), 0.1, 2)
	require.NoError(t, err)
	c.SwapModel(m2)

	assert.Equal(t, int64(2), c.CurrentModel().Version)
}

func TestPreprocess(t *testing.T) {
	cleaned, tokens := Preprocess("  Hello,   World! 42 ")
	assert.Equal(t, "hello, world! 42", cleaned)
	assert.Equal(t, []string{"hello", "world", "42"}, tokens)

	cleaned, tokens = Preprocess("")
	assert.Empty(t, cleaned)
	assert.Empty(t, tokens)
}
