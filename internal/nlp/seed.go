package nlp

import "github.com/supportbot/chatbot-go/internal/model"

// 种子训练数据（意图 -> 示例语句）
var seedData = map[string][]string{
	model.IntentGreeting: {
		"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
		"greetings", "howdy", "hiya", "sup",
	},
	model.IntentGoodbye: {
		"bye", "goodbye", "see you later", "farewell", "take care", "exit",
		"quit", "see ya", "catch you later", "until next time",
	},
	model.IntentQuestion: {
		"what is machine learning", "what is data science", "how does ai work",
		"explain artificial intelligence", "tell me about python", "what are algorithms",
		"how do neural networks work", "what is deep learning", "define statistics",
		"what is the capital of france", "who is the president", "when was this invented",
		"where is this located", "why does this happen", "which is better",
		"what time is it", "how old are you", "what can you do",
	},
	model.IntentHelp: {
		"help me", "can you help", "i need assistance", "support me",
		"guide me", "show me how", "can you assist", "i need help with",
		"help with this", "assist me please",
	},
	model.IntentComplaint: {
		"this is not working", "i found a bug", "there is a problem",
		"something is broken", "i have an issue", "this keeps failing",
		"the app crashed", "i am having trouble with this",
	},
	model.IntentCompliment: {
		"thank you", "thanks", "good job", "well done", "excellent work",
		"great response", "amazing", "fantastic", "you are helpful",
		"appreciate it", "good answer",
	},
	model.IntentGeneral: {
		"tell me something", "i want to know", "information about",
		"details on", "more about this", "explain this topic",
		"i am interested in", "show me", "describe this",
	},
}

// 固定遍历顺序，保证训练出的类别顺序可复现
var seedOrder = []string{
	model.IntentGreeting, model.IntentGoodbye, model.IntentQuestion,
	model.IntentHelp, model.IntentComplaint, model.IntentCompliment, model.IntentGeneral,
}

// SeedExamples 返回内置种子训练集
// 疑问类样本附加礼貌变体，与实际输入分布更接近
func SeedExamples() []model.TrainingExample {
	var examples []model.TrainingExample
	for _, intent := range seedOrder {
		texts := seedData[intent]
		for _, text := range texts {
			examples = append(examples, model.TrainingExample{
				Text: text, Label: intent, Provenance: model.ProvenanceSeed,
			})
			if intent == model.IntentQuestion {
				examples = append(examples,
					model.TrainingExample{Text: "can you " + text, Label: intent, Provenance: model.ProvenanceSeed},
					model.TrainingExample{Text: "please " + text, Label: intent, Provenance: model.ProvenanceSeed},
				)
			}
		}
	}
	return examples
}
