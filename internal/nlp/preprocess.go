package nlp

import "strings"

// Preprocess 文本预处理：小写化、去首尾空白、分词（确定性纯函数）
// 清洗文本保留问号，供规则阶段判断疑问句
func Preprocess(raw string) (cleaned string, tokens []string) {
	cleaned = strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\'':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	tokens = strings.Fields(b.String())
	return cleaned, tokens
}
