package rules

import (
	"fmt"
	"hash/fnv"
)

// Rule 意图对应的规则回复定义
type Rule struct {
	Intent    string   `json:"intent"`    // 绑定的意图标签
	Templates []string `json:"templates"` // 回复模板，按语句哈希确定性选取
}

// Render 按输入语句选取模板
// 同一语句永远得到同一模板（可复现，便于审计与测试）
func (r *Rule) Render(text string) (string, error) {
	if len(r.Templates) == 0 {
		return "", fmt.Errorf("rule has no templates: %s", r.Intent)
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return r.Templates[int(h.Sum32())%len(r.Templates)], nil
}
