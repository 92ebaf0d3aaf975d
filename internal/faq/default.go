package faq

// DefaultEntries 内置问答库（通用助手场景）
func DefaultEntries() []Entry {
	return []Entry{
		{
			ID:       "how-are-you",
			Question: "how are you",
			Answer:   "I am functioning well and ready to help you!",
		},
		{
			ID:       "what-can-you-do",
			Question: "what can you do",
			Answer:   "I can answer questions, provide information, and have conversations with you.",
		},
		{
			ID:       "what-time-is-it",
			Question: "what time is it",
			Answer:   "I cannot access real-time information, but you can check your device clock.",
		},
		{
			ID:       "best-ai-model",
			Question: "what is the best ai model",
			Answer:   "Some of the best AI models include GPT-4, Claude, Gemini, and LLaMA. Each excels in different areas like reasoning, coding, or creativity.",
		},
		{
			ID:       "what-is-machine-learning",
			Question: "what is machine learning",
			Answer:   "Machine learning is a subset of artificial intelligence that enables computers to learn and make decisions from data without being explicitly programmed.",
		},
		{
			ID:       "what-is-data-science",
			Question: "what is data science",
			Answer:   "Data science is an interdisciplinary field that uses scientific methods, algorithms, and systems to extract knowledge and insights from data.",
		},
		{
			ID:       "return-policy",
			Question: "what is your return policy",
			Answer:   "Purchases can be returned within 7 days if unopened and unused. Shipping costs for returns are covered by the buyer.",
		},
		{
			ID:       "contact-support",
			Question: "how do i contact support",
			Answer:   "You can reach our support team through this chat, or leave your contact details and we will get back to you.",
		},
	}
}
