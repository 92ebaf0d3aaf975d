package nlp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/supportbot/chatbot-go/internal/model"
)

var numberPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)

// 简易词表 NER（类型 -> 触发词）
var gazetteer = map[string][]string{
	"DATE":     {"today", "tomorrow", "yesterday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"},
	"TIME":     {"now", "morning", "afternoon", "evening", "tonight"},
	"PRODUCT":  {"iphone", "macbook", "airpods", "laptop", "phone", "headphones"},
	"LOCATION": {"india", "delhi", "mumbai", "beijing", "shanghai"},
}

// ExtractEntities 从清洗文本中抽取命名实体
// 纯函数，按出现位置排序；未匹配片段直接跳过，永不报错
func ExtractEntities(cleaned string) []model.Entity {
	var entities []model.Entity

	// 数字
	for _, loc := range numberPattern.FindAllStringIndex(cleaned, -1) {
		entities = append(entities, model.Entity{
			Type:  "NUMBER",
			Value: cleaned[loc[0]:loc[1]],
			Span:  [2]int{loc[0], loc[1]},
		})
	}

	// 词表实体（整词匹配，避免 "hi" 命中 "this"）
	for entityType, terms := range gazetteer {
		for _, term := range terms {
			idx := 0
			for {
				pos := strings.Index(cleaned[idx:], term)
				if pos < 0 {
					break
				}
				start := idx + pos
				end := start + len(term)
				if wholeWord(cleaned, start, end) {
					entities = append(entities, model.Entity{
						Type:  entityType,
						Value: term,
						Span:  [2]int{start, end},
					})
				}
				idx = end
			}
		}
	}

	// 按文本位置排序，同位置按类型排序保证稳定
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Span[0] != entities[j].Span[0] {
			return entities[i].Span[0] < entities[j].Span[0]
		}
		return entities[i].Type < entities[j].Type
	})

	return entities
}

func wholeWord(text string, start, end int) bool {
	if start > 0 && isWordChar(text[start-1]) {
		return false
	}
	if end < len(text) && isWordChar(text[end]) {
		return false
	}
	return true
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
