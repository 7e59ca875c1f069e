package service

import "strings"

// 固定的形式词表，模型输出先过同义词归一，不认识的原样放行
var formatSynonyms = map[string]string{
	"talking head":   "Talking Head",
	"talkinghead":    "Talking Head",
	"face to camera": "Talking Head",
	"tutorial":       "Tutorial",
	"how-to":         "Tutorial",
	"how to":         "Tutorial",
	"howto":          "Tutorial",
	"vlog":           "Vlog",
	"daily vlog":     "Vlog",
	"skit":           "Skit",
	"sketch":         "Skit",
	"comedy skit":    "Skit",
	"voiceover":      "Voiceover",
	"voice over":     "Voiceover",
	"vo":             "Voiceover",
	"slideshow":      "Slideshow",
	"slides":         "Slideshow",
	"carousel":       "Slideshow",
}

// NormalizeFormat 大小写不敏感地归一形式取值；未命中词表时原样透传，
// 下游需要容忍未知取值
func NormalizeFormat(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := formatSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
