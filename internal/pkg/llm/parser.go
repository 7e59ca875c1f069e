package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 模型响应约定为 "LABEL: 内容" 的有序块。标签只在行首生效，
// 正文里再出现形如标签的文字不会切断当前块。

var scoreRegex = regexp.MustCompile(`-?\d+`)

// ParseBlocks 按给定标签表把响应文本切成 label -> content 映射，
// 返回缺失标签的 warning 列表
func ParseBlocks(text string, labels []string) (map[string]string, []string) {
	fields := make(map[string]string, len(labels))

	lines := strings.Split(text, "\n")
	current := ""
	var buf []string

	flush := func() {
		if current == "" {
			return
		}
		fields[current] = cleanValue(strings.Join(buf, "\n"))
		buf = nil
	}

	for _, line := range lines {
		label, rest, ok := matchLabel(line, labels)
		if ok {
			flush()
			current = label
			buf = []string{rest}
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	var warnings []string
	for _, label := range labels {
		if _, ok := fields[label]; !ok {
			warnings = append(warnings, fmt.Sprintf("missing label: %s", label))
		}
	}

	return fields, warnings
}

// matchLabel 判断一行是否以某个标签开头（大小写不敏感，容忍 markdown 修饰），
// 多个标签都命中时取最长的，避免 SCORE 抢走 SCORE BREAKDOWN
func matchLabel(line string, labels []string) (string, string, bool) {
	trimmed := strings.TrimLeft(line, " \t#*->•–")

	best := ""
	bestRest := ""
	for _, label := range labels {
		if len(trimmed) < len(label) {
			continue
		}
		if !strings.EqualFold(trimmed[:len(label)], label) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(label):], " *")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		if len(label) > len(best) {
			best = label
			bestRest = strings.TrimPrefix(rest, ":")
		}
	}

	if best == "" {
		return "", "", false
	}
	return best, bestRest, true
}

// cleanValue 去掉值两侧的空白和多余修饰符号
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, "\"'`*")
	return strings.TrimSpace(v)
}

// ParseScore 宽容解析数字并夹回 [min, max]；解析不出来用 def
func ParseScore(raw string, def, min, max int) int {
	m := scoreRegex.FindString(raw)
	if m == "" {
		return def
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// ParseList 按分隔符切列表，逐项清理并去掉空项
func ParseList(raw string, sep string) []string {
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = cleanValue(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExtractNumberedBlocks 提取 "<name> n START ... <name> n END" 包裹的多块响应，
// 序号缺失或块不完整时跳过该块
func ExtractNumberedBlocks(text string, name string, max int) []string {
	var blocks []string
	for i := 1; i <= max; i++ {
		start := regexp.QuoteMeta(fmt.Sprintf("%s %d START", name, i))
		end := regexp.QuoteMeta(fmt.Sprintf("%s %d END", name, i))
		re := regexp.MustCompile(`(?is)` + start + `(.*?)` + end)

		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		block := strings.TrimSpace(m[1])
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
