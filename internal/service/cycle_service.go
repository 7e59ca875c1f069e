package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
)

// CycleStats 一轮里程碑巡检的计数
type CycleStats struct {
	VideosChecked      int64 `json:"videos_checked"`
	MilestonesRecorded int64 `json:"milestones_recorded"`
	MilestonesAnalyzed int64 `json:"milestones_analyzed"`
	FollowUpsCreated   int64 `json:"follow_ups_created"`
	Errors             int64 `json:"errors"`
}

func (s *CycleStats) AsMap() map[string]int64 {
	return map[string]int64{
		"videos_checked":      s.VideosChecked,
		"milestones_recorded": s.MilestonesRecorded,
		"milestones_analyzed": s.MilestonesAnalyzed,
		"follow_ups_created":  s.FollowUpsCreated,
		"errors":              s.Errors,
	}
}

type CycleService interface {
	RunCycle(ctx context.Context) *CycleStats
}

type cycleServiceImpl struct {
	videoRepo repository.VideoRepo
	ideaRepo  repository.IdeaRepo
	analyzer  AnalyzerService
	locker    Locker
}

func NewCycleService(videoRepo repository.VideoRepo, ideaRepo repository.IdeaRepo, analyzer AnalyzerService, locker Locker) CycleService {
	return &cycleServiceImpl{
		videoRepo: videoRepo,
		ideaRepo:  ideaRepo,
		analyzer:  analyzer,
		locker:    locker,
	}
}

// RunCycle 对每条在追踪的视频问一次里程碑引擎，把到期动作全部执行掉。
// 快照取的是记录里的 current 字段，所以本巡检必须跑在同步之后
func (s *cycleServiceImpl) RunCycle(ctx context.Context) *CycleStats {
	stats := &CycleStats{}

	videos, err := s.videoRepo.ListActive(ctx)
	if err != nil {
		stats.Errors++
		log.ErrorContext(ctx, "list active videos error", "err", err)
		return stats
	}

	now := time.Now()
	for _, video := range videos {
		stats.VideosChecked++

		actions := DueActions(video.DaysSincePost(now), MilestoneStates(video))
		for _, action := range actions {
			var err error
			switch action.Kind {
			case ActionRecord:
				err = s.recordMilestone(ctx, video, action.Day, now)
				if err == nil {
					stats.MilestonesRecorded++
				}
			case ActionAnalyze:
				err = s.analyzeMilestone(ctx, video, action.Day, stats)
				if err == nil {
					stats.MilestonesAnalyzed++
				}
			}
			if err != nil {
				stats.Errors++
				log.ErrorContext(ctx, "milestone action error",
					"video_id", video.ID.Hex(), "kind", action.Kind, "day", action.Day, "err", err)
			}
		}
	}

	log.InfoContext(ctx, "milestone cycle finished",
		"videos_checked", stats.VideosChecked,
		"recorded", stats.MilestonesRecorded,
		"analyzed", stats.MilestonesAnalyzed,
		"follow_ups", stats.FollowUpsCreated,
		"errors", stats.Errors)
	return stats
}

// recordMilestone 把 current 快照冻结进对应里程碑并盖执行时刻的时间戳，
// recorded_at 一旦写入不再改动
func (s *cycleServiceImpl) recordMilestone(ctx context.Context, video *model.TrackedVideo, day int, now time.Time) error {
	var frozen model.MetricSnapshot
	if err := copier.Copy(&frozen, &video.Current); err != nil {
		return err
	}

	prefix := fmt.Sprintf("day%d", day)
	err := s.videoRepo.Update(ctx, video.ID, bson.M{
		prefix + ".snapshot":    frozen,
		prefix + ".recorded_at": now,
	})
	if err != nil {
		return err
	}

	m := video.MilestoneByDay(day)
	m.Snapshot = frozen
	m.RecordedAt = &now
	return nil
}

func (s *cycleServiceImpl) analyzeMilestone(ctx context.Context, video *model.TrackedVideo, day int, stats *CycleStats) error {
	insight, _, err := s.analyzer.AnalyzeMilestone(ctx, video, day)
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("day%d", day)
	update := bson.M{
		prefix + ".analysis":  insight.Analysis,
		"performance_score":   insight.PerformanceScore,
		"trend":               insight.Trend,
		"evergreen_status":    insight.EvergreenStatus,
		"why_it_worked":       insight.WhyItWorked,
		"what_could_improve":  insight.WhatCouldImprove,
		"suggested_follow_up": insight.SuggestedFollowUp,
	}
	if err := s.videoRepo.Update(ctx, video.ID, update); err != nil {
		return err
	}
	video.MilestoneByDay(day).Analysis = insight.Analysis

	if day == 7 {
		if err := s.maybeCreateFollowUp(ctx, video, insight, stats); err != nil {
			log.ErrorContext(ctx, "create follow-up idea error", "video_id", video.ID.Hex(), "err", err)
			stats.Errors++
		}
	}

	if day == 30 {
		s.propagatePerformance(ctx, video, insight.PerformanceScore)
	}

	return nil
}

// maybeCreateFollowUp D7 分析带出跟进建议且记录开了跟进开关时，落一条新创意
func (s *cycleServiceImpl) maybeCreateFollowUp(ctx context.Context, video *model.TrackedVideo, insight *MilestoneInsight, stats *CycleStats) error {
	if !video.CreateFollowUp || video.FollowUpCreated {
		return nil
	}
	suggestion := strings.TrimSpace(insight.SuggestedFollowUp)
	if suggestion == "" || strings.EqualFold(suggestion, "none") {
		return nil
	}

	idea := &model.Idea{
		Title:     suggestion,
		Platforms: []string{video.Platform},
		Status:    model.IdeaStatusNew,
	}
	ideaID, err := s.ideaRepo.Create(ctx, idea)
	if err != nil {
		return err
	}

	err = s.videoRepo.Update(ctx, video.ID, bson.M{
		"follow_up_created": true,
		"follow_up_idea_id": ideaID,
	})
	if err != nil {
		return err
	}

	video.FollowUpCreated = true
	stats.FollowUpsCreated++
	return nil
}

// propagatePerformance D30 把观测到的表现分回流到源创意，
// 与创意分析工作流的写回共用同一把锁
func (s *cycleServiceImpl) propagatePerformance(ctx context.Context, video *model.TrackedVideo, score int) {
	if video.IdeaID == nil {
		return
	}

	err := s.locker.WithLock(ctx, video.IdeaID.Hex(), func() error {
		return s.ideaRepo.Update(ctx, *video.IdeaID, bson.M{
			"observed_score": score,
		})
	})
	if err != nil {
		log.ErrorContext(ctx, "propagate performance score error",
			"video_id", video.ID.Hex(), "idea_id", video.IdeaID.Hex(), "err", err)
	}
}
