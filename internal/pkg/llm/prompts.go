package llm

import (
	"CreatorPulse/internal/api/config"
	log "log/slog"
	"os"
)

// Prompts 各场景的 system prompt，优先读文件，读不到用内置版本
type Prompts struct {
	IdeaAnalysis      string
	MilestoneAnalysis string
	Brainstorm        string
	WeeklyReport      string
}

func LoadPrompts(cfg config.PromptPathConfig) *Prompts {
	return &Prompts{
		IdeaAnalysis:      readPrompt(cfg.IdeaAnalysis, defaultIdeaAnalysisPrompt),
		MilestoneAnalysis: readPrompt(cfg.MilestoneAnalysis, defaultMilestoneAnalysisPrompt),
		Brainstorm:        readPrompt(cfg.Brainstorm, defaultBrainstormPrompt),
		WeeklyReport:      readPrompt(cfg.WeeklyReport, defaultWeeklyReportPrompt),
	}
}

// readPrompt 从prompt txt文件中读取prompt
func readPrompt(file string, fallback string) string {
	if file == "" {
		return fallback
	}
	data, err := os.ReadFile(file)
	if err != nil {
		log.Warn("读取prompt文件失败，使用内置prompt", "file", file, "err", err)
		return fallback
	}
	return string(data)
}

const defaultIdeaAnalysisPrompt = `You are a short-form content strategist. Analyze the content idea the user provides.
Respond in plain text using exactly these labeled sections, one per line, in this order:

SCORE: <virality score, integer 1-100>
SCORE BREAKDOWN: <what drives or hurts the score>
REVIEW: <honest strategic review of the idea>
HOOK 1: <first hook line>
HOOK 2: <second hook line>
HOOK 3: <third hook line>
DESCRIPTION: <suggested caption / description>
HASHTAGS: <suggested hashtags>
SIMILAR CONTENT: <what similar content already exists>
CONTENT GAP: <what gap this idea can fill>
TRENDING RELEVANCE: <how it maps to current trends>
POSTING TIME: <best posting window>
BEST FORMAT: <single best format>
OTHER FORMATS: <other viable formats, comma separated>

Do not add any other sections.`

const defaultMilestoneAnalysisPrompt = `You are a content performance analyst. You get metric snapshots of one published video
at fixed offsets after publication. Interpret the numbers and the trend between snapshots.
Respond in plain text using exactly these labeled sections:

ANALYSIS: <interpretation of this milestone's numbers and trend>
PERFORMANCE SCORE: <integer 1-100 for observed performance>
TREND: <one of Rising, Steady, Declining>
EVERGREEN STATUS: <one of Evergreen, Seasonal, Spike>
WHY IT WORKED: <what worked>
WHAT COULD IMPROVE: <what to improve>
SUGGESTED FOLLOW UP: <a concrete follow-up content idea, or None>

Do not add any other sections.`

const defaultBrainstormPrompt = `You are a short-form content strategist. The user asks for help on a topic.
Produce exactly 5 strong content ideas. Each idea must score at least 75.
Wrap every idea between numbered markers and use the labeled fields inside:

IDEA 1 START
TITLE: <idea title>
SCORE: <integer 75-100>
HOOK 1: <hook>
HOOK 2: <hook>
HOOK 3: <hook>
DESCRIPTION: <caption>
HASHTAGS: <hashtags>
BEST FORMAT: <single best format>
IDEA 1 END

Repeat for IDEA 2 .. IDEA 5. No other text outside the markers.`

const defaultWeeklyReportPrompt = `You are a content performance analyst writing the narrative part of a weekly digest.
Given aggregate statistics and top performers, write a short, direct summary in plain text.
Three paragraphs maximum. No markdown headers.`
