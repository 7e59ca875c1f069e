package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/pkg/consts"
	"CreatorPulse/internal/pkg/llm"
	"CreatorPulse/internal/pkg/util"
	"CreatorPulse/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ideaAnalysisLabels = []string{
	"SCORE", "SCORE BREAKDOWN", "REVIEW",
	"HOOK 1", "HOOK 2", "HOOK 3",
	"DESCRIPTION", "HASHTAGS",
	"SIMILAR CONTENT", "CONTENT GAP", "TRENDING RELEVANCE", "POSTING TIME",
	"BEST FORMAT", "OTHER FORMATS",
}

var milestoneLabels = []string{
	"ANALYSIS", "PERFORMANCE SCORE", "TREND", "EVERGREEN STATUS",
	"WHY IT WORKED", "WHAT COULD IMPROVE", "SUGGESTED FOLLOW UP",
}

var brainstormLabels = []string{
	"TITLE", "SCORE",
	"HOOK 1", "HOOK 2", "HOOK 3",
	"DESCRIPTION", "HASHTAGS", "BEST FORMAT",
}

// AnalyzeStats 一轮创意处理的计数
type AnalyzeStats struct {
	IdeasAnalyzed int64 `json:"ideas_analyzed"`
	IdeasExpanded int64 `json:"ideas_expanded"`
	IdeasCreated  int64 `json:"ideas_created"`
	ParseWarnings int64 `json:"parse_warnings"`
	Errors        int64 `json:"errors"`
}

func (s *AnalyzeStats) AsMap() map[string]int64 {
	return map[string]int64{
		"ideas_analyzed": s.IdeasAnalyzed,
		"ideas_expanded": s.IdeasExpanded,
		"ideas_created":  s.IdeasCreated,
		"parse_warnings": s.ParseWarnings,
		"errors":         s.Errors,
	}
}

// MilestoneInsight 单个里程碑的结构化分析结果
type MilestoneInsight struct {
	Analysis          string
	PerformanceScore  int
	Trend             string
	EvergreenStatus   string
	WhyItWorked       string
	WhatCouldImprove  string
	SuggestedFollowUp string
}

type AnalyzerService interface {
	ProcessIdeas(ctx context.Context) *AnalyzeStats
	AnalyzeIdea(ctx context.Context, idea *model.Idea) ([]string, error)
	AnalyzeByID(ctx context.Context, id string) (*AnalyzeStats, error)
	ExpandHelpIdea(ctx context.Context, idea *model.Idea) (int, error)
	AnalyzeMilestone(ctx context.Context, video *model.TrackedVideo, day int) (*MilestoneInsight, []string, error)
}

type analyzerServiceImpl struct {
	ideaRepo  repository.IdeaRepo
	generator llm.Generator
	prompts   *llm.Prompts
	locker    Locker
}

func NewAnalyzerService(ideaRepo repository.IdeaRepo, generator llm.Generator, prompts *llm.Prompts, locker Locker) AnalyzerService {
	return &analyzerServiceImpl{
		ideaRepo:  ideaRepo,
		generator: generator,
		prompts:   prompts,
		locker:    locker,
	}
}

// ProcessIdeas 轮询待分析创意并逐条处理，单条失败不拦后续
func (s *analyzerServiceImpl) ProcessIdeas(ctx context.Context) *AnalyzeStats {
	stats := &AnalyzeStats{}

	ideas, err := s.ideaRepo.FindEligible(ctx)
	if err != nil {
		stats.Errors++
		log.ErrorContext(ctx, "find eligible ideas error", "err", err)
		return stats
	}

	log.InfoContext(ctx, "processing ideas", "count", len(ideas))

	for _, idea := range ideas {
		if idea.IsHelpRequest() {
			created, err := s.ExpandHelpIdea(ctx, idea)
			if err != nil {
				stats.Errors++
				log.ErrorContext(ctx, "expand help idea error", "idea_id", idea.ID.Hex(), "err", err)
				continue
			}
			if created > 0 {
				stats.IdeasExpanded++
				stats.IdeasCreated += int64(created)
			}
			continue
		}

		warnings, err := s.AnalyzeIdea(ctx, idea)
		if err != nil {
			stats.Errors++
			log.ErrorContext(ctx, "analyze idea error", "idea_id", idea.ID.Hex(), "err", err)
			continue
		}
		stats.IdeasAnalyzed++
		stats.ParseWarnings += int64(len(warnings))
	}

	log.InfoContext(ctx, "idea processing finished",
		"analyzed", stats.IdeasAnalyzed,
		"expanded", stats.IdeasExpanded,
		"created", stats.IdeasCreated,
		"parse_warnings", stats.ParseWarnings,
		"errors", stats.Errors)
	return stats
}

// AnalyzeIdea 调一次模型并把结构化结果写回；解析失败的字段用兜底值，
// 分析完成必定清掉重分析标记并盖时间戳
func (s *analyzerServiceImpl) AnalyzeIdea(ctx context.Context, idea *model.Idea) ([]string, error) {
	userPrompt := buildIdeaPrompt(idea)

	resp, err := s.generator.Generate(ctx, s.prompts.IdeaAnalysis, userPrompt, 0.7)
	if err != nil {
		return nil, err
	}

	fields, warnings := llm.ParseBlocks(resp, ideaAnalysisLabels)
	for _, w := range warnings {
		log.WarnContext(ctx, "idea analysis parse warning", "idea_id", idea.ID.Hex(), "warning", w)
	}

	score := llm.ParseScore(fields["SCORE"],
		consts.DefaultViralityScore, consts.MinViralityScore, consts.MaxViralityScore)

	bestFormat := NormalizeFormat(fields["BEST FORMAT"])
	otherFormats := make([]string, 0)
	for _, f := range llm.ParseList(fields["OTHER FORMATS"], ",") {
		normalized := NormalizeFormat(f)
		// 去掉与首选形式重复的自引用
		if strings.EqualFold(normalized, bestFormat) {
			continue
		}
		otherFormats = append(otherFormats, normalized)
	}

	now := time.Now()
	update := bson.M{
		"virality_score":     score,
		"score_breakdown":    fields["SCORE BREAKDOWN"],
		"review":             fields["REVIEW"],
		"hook1":              fields["HOOK 1"],
		"hook2":              fields["HOOK 2"],
		"hook3":              fields["HOOK 3"],
		"description":        fields["DESCRIPTION"],
		"hashtags":           fields["HASHTAGS"],
		"tags":               util.ExtractTags(fields["HASHTAGS"]),
		"similar_content":    fields["SIMILAR CONTENT"],
		"content_gap":        fields["CONTENT GAP"],
		"trending_relevance": fields["TRENDING RELEVANCE"],
		"posting_time":       fields["POSTING TIME"],
		"best_format":        bestFormat,
		"other_formats":      otherFormats,
		"needs_reanalysis":   false,
		"last_analyzed_at":   now,
	}

	err = s.locker.WithLock(ctx, idea.ID.Hex(), func() error {
		return s.ideaRepo.Update(ctx, idea.ID, update)
	})
	if err != nil {
		return warnings, err
	}

	return warnings, nil
}

// AnalyzeByID 按 id 立即处理单条创意，接口触发用，不看轮询条件
func (s *analyzerServiceImpl) AnalyzeByID(ctx context.Context, id string) (*AnalyzeStats, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrParamInvalid
	}

	idea, err := s.ideaRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if idea == nil || idea.Archived {
		return nil, ErrIdeaNotFound
	}
	// Posted 的创意从任何入口都不允许再改写
	if idea.Status == model.IdeaStatusPosted {
		return nil, ErrIdeaPosted
	}

	stats := &AnalyzeStats{}
	if idea.IsHelpRequest() {
		created, err := s.ExpandHelpIdea(ctx, idea)
		if err != nil {
			return nil, err
		}
		if created > 0 {
			stats.IdeasExpanded = 1
			stats.IdeasCreated = int64(created)
		}
		return stats, nil
	}

	warnings, err := s.AnalyzeIdea(ctx, idea)
	if err != nil {
		return nil, err
	}
	stats.IdeasAnalyzed = 1
	stats.ParseWarnings = int64(len(warnings))
	return stats, nil
}

// ExpandHelpIdea 把 "help <主题>" 命令扩写成至多 5 条新创意；
// 一条都解析不出来时不归档原命令，留给下一轮重试
func (s *analyzerServiceImpl) ExpandHelpIdea(ctx context.Context, idea *model.Idea) (int, error) {
	topic := idea.HelpTopic()

	resp, err := s.generator.Generate(ctx, s.prompts.Brainstorm, "Topic: "+topic, 0.9)
	if err != nil {
		return 0, err
	}

	blocks := llm.ExtractNumberedBlocks(resp, "IDEA", consts.BrainstormIdeaCount)
	if len(blocks) == 0 {
		log.WarnContext(ctx, "brainstorm returned no parseable blocks", "idea_id", idea.ID.Hex())
		return 0, nil
	}

	created := 0
	for _, block := range blocks {
		fields, _ := llm.ParseBlocks(block, brainstormLabels)

		title := fields["TITLE"]
		if title == "" {
			continue
		}

		score := llm.ParseScore(fields["SCORE"],
			consts.BrainstormScoreFloor, consts.BrainstormScoreFloor, consts.MaxViralityScore)
		now := time.Now()

		platforms := idea.Platforms
		if len(platforms) == 0 {
			platforms = []string{consts.DefaultPlatform}
		}

		newIdea := &model.Idea{
			Title:          title,
			Platforms:      platforms,
			Priority:       idea.Priority,
			Status:         model.IdeaStatusNew,
			ViralityScore:  &score,
			Hook1:          fields["HOOK 1"],
			Hook2:          fields["HOOK 2"],
			Hook3:          fields["HOOK 3"],
			Description:    fields["DESCRIPTION"],
			Hashtags:       fields["HASHTAGS"],
			Tags:           util.ExtractTags(fields["HASHTAGS"]),
			BestFormat:     NormalizeFormat(fields["BEST FORMAT"]),
			LastAnalyzedAt: &now,
		}

		if _, err := s.ideaRepo.Create(ctx, newIdea); err != nil {
			log.ErrorContext(ctx, "create brainstormed idea error", "idea_id", idea.ID.Hex(), "err", err)
			continue
		}
		created++
	}

	if created == 0 {
		return 0, nil
	}

	// 命令创意转正式归档，避免被下一轮轮询再次捡起
	if err := s.ideaRepo.Archive(ctx, idea.ID); err != nil {
		return created, err
	}

	log.InfoContext(ctx, "help idea expanded", "idea_id", idea.ID.Hex(), "created", created)
	return created, nil
}

// AnalyzeMilestone 对单个里程碑的冻结快照做一次解读
func (s *analyzerServiceImpl) AnalyzeMilestone(ctx context.Context, video *model.TrackedVideo, day int) (*MilestoneInsight, []string, error) {
	userPrompt := buildMilestonePrompt(video, day)

	resp, err := s.generator.Generate(ctx, s.prompts.MilestoneAnalysis, userPrompt, 0.4)
	if err != nil {
		return nil, nil, err
	}

	fields, warnings := llm.ParseBlocks(resp, milestoneLabels)
	for _, w := range warnings {
		log.WarnContext(ctx, "milestone analysis parse warning",
			"video_id", video.ID.Hex(), "day", day, "warning", w)
	}

	analysis := fields["ANALYSIS"]
	if analysis == "" {
		// 块结构丢了也不能让里程碑卡在待分析状态，整段响应兜底
		analysis = strings.TrimSpace(resp)
	}

	insight := &MilestoneInsight{
		Analysis: analysis,
		PerformanceScore: llm.ParseScore(fields["PERFORMANCE SCORE"],
			consts.DefaultViralityScore, consts.MinViralityScore, consts.MaxViralityScore),
		Trend:             fields["TREND"],
		EvergreenStatus:   fields["EVERGREEN STATUS"],
		WhyItWorked:       fields["WHY IT WORKED"],
		WhatCouldImprove:  fields["WHAT COULD IMPROVE"],
		SuggestedFollowUp: fields["SUGGESTED FOLLOW UP"],
	}

	return insight, warnings, nil
}

func buildIdeaPrompt(idea *model.Idea) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", idea.Title)
	if len(idea.Platforms) > 0 {
		fmt.Fprintf(&b, "Target platforms: %s\n", strings.Join(idea.Platforms, ", "))
	}
	if idea.Priority != "" {
		fmt.Fprintf(&b, "Priority: %s\n", idea.Priority)
	}
	if idea.NeedsReanalysis && idea.ViralityScore != nil {
		fmt.Fprintf(&b, "Previous score: %d (re-analysis requested)\n", *idea.ViralityScore)
	}

	return b.String()
}

func buildMilestonePrompt(video *model.TrackedVideo, day int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Video: %s\nPlatform: %s\nPosted: %s\nMilestone: day %d\n\n",
		video.Title, video.Platform, video.PostedAt.Format("2006-01-02"), day)

	// 本级之前的里程碑一并给出，便于模型看趋势
	for _, d := range consts.MilestoneDays {
		if d > day {
			break
		}
		m := video.MilestoneByDay(d)
		if !m.Recorded() {
			continue
		}
		fmt.Fprintf(&b, "Day %d snapshot: views=%d likes=%d comments=%d shares=%d\n",
			d, m.Snapshot.Views, m.Snapshot.Likes, m.Snapshot.Comments, m.Snapshot.Shares)
	}

	if video.EngagementRate != nil {
		fmt.Fprintf(&b, "Current engagement rate: %.2f%%\n", *video.EngagementRate)
	}

	return b.String()
}
