package rules

import (
	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

// RegisterBuiltinRules 注册内置规则回复
func RegisterBuiltinRules(registry *Registry, logger *zap.Logger) error {
	logger.Info("注册内置规则...")

	builtins := []*Rule{
		{
			Intent: model.IntentGreeting,
			Templates: []string{
				"Hello! How can I help you today?",
				"Hi there! What can I do for you?",
				"Greetings! I'm here to assist you.",
			},
		},
		{
			Intent: model.IntentGoodbye,
			Templates: []string{
				"Goodbye! Have a great day!",
				"See you later! Take care!",
				"Farewell! Feel free to return anytime.",
			},
		},
		{
			Intent: model.IntentHelp,
			Templates: []string{
				"I'm here to help! What do you need assistance with?",
				"How can I assist you today?",
				"I'd be happy to help you with your questions.",
			},
		},
		{
			Intent: model.IntentComplaint,
			Templates: []string{
				"I understand your concern. How can I help resolve this?",
				"I'm sorry to hear about this issue. Let me assist you.",
				"I appreciate you bringing this to my attention.",
			},
		},
		{
			Intent: model.IntentCompliment,
			Templates: []string{
				"Thank you! I'm glad I could be helpful.",
				"I appreciate your kind words!",
				"Thank you! It's my pleasure to assist you.",
			},
		},
		{
			Intent: model.IntentGeneral,
			Templates: []string{
				"I'd be happy to provide information about that.",
				"Let me share what I know about this topic.",
				"Here's what I can tell you about that.",
			},
		},
	}

	for _, rule := range builtins {
		if err := registry.Register(rule); err != nil {
			return err
		}
	}
	return nil
}
