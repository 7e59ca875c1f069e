package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoStatus 追踪视频的同步/分析进度
const (
	VideoStatusTracking  = "Tracking"
	VideoStatusCompleted = "Completed"
	VideoStatusArchived  = "Archived"
)

// MetricSnapshot 一次指标快照
type MetricSnapshot struct {
	Views    int64 `bson:"views" json:"views"`
	Likes    int64 `bson:"likes" json:"likes"`
	Comments int64 `bson:"comments" json:"comments"`
	Shares   int64 `bson:"shares" json:"shares"`

	// 平台特有指标，没有就留空
	WatchTimeHours     *float64 `bson:"watch_time_hours,omitempty" json:"watch_time_hours"`
	AvgViewDurationSec *float64 `bson:"avg_view_duration_sec,omitempty" json:"avg_view_duration_sec"`
}

// Milestone 单个里程碑的冻结快照与分析
type Milestone struct {
	Snapshot   MetricSnapshot `bson:"snapshot" json:"snapshot"`
	RecordedAt *time.Time     `bson:"recorded_at,omitempty" json:"recorded_at"`
	Analysis   string         `bson:"analysis,omitempty" json:"analysis"`
}

// Recorded 里程碑是否已冻结快照
func (m *Milestone) Recorded() bool {
	return m.RecordedAt != nil
}

// Analyzed 里程碑是否已生成分析
func (m *Milestone) Analyzed() bool {
	return m.Analysis != ""
}

// TrackedVideo 已发布平台作品在记录库中的镜像
type TrackedVideo struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title    string              `bson:"title" json:"title"`
	Platform string              `bson:"platform" json:"platform"`
	NativeID string              `bson:"native_id" json:"native_id"`
	URL      string              `bson:"url,omitempty" json:"url"`
	PostedAt time.Time           `bson:"posted_at" json:"posted_at"`
	IdeaID   *primitive.ObjectID `bson:"idea_id,omitempty" json:"idea_id"`
	Status   string              `bson:"status" json:"status"`

	Current        MetricSnapshot `bson:"current" json:"current"`
	EngagementRate *float64       `bson:"engagement_rate,omitempty" json:"engagement_rate"`

	Day1  Milestone `bson:"day1" json:"day1"`
	Day7  Milestone `bson:"day7" json:"day7"`
	Day30 Milestone `bson:"day30" json:"day30"`
	Day90 Milestone `bson:"day90" json:"day90"`

	// 聚合派生字段
	PerformanceScore  *int   `bson:"performance_score,omitempty" json:"performance_score"`
	Trend             string `bson:"trend,omitempty" json:"trend"`
	EvergreenStatus   string `bson:"evergreen_status,omitempty" json:"evergreen_status"`
	WhyItWorked       string `bson:"why_it_worked,omitempty" json:"why_it_worked"`
	WhatCouldImprove  string `bson:"what_could_improve,omitempty" json:"what_could_improve"`
	SuggestedFollowUp string `bson:"suggested_follow_up,omitempty" json:"suggested_follow_up"`

	CreateFollowUp  bool                `bson:"create_follow_up" json:"create_follow_up"`
	FollowUpCreated bool                `bson:"follow_up_created" json:"follow_up_created"`
	FollowUpIdeaID  *primitive.ObjectID `bson:"follow_up_idea_id,omitempty" json:"follow_up_idea_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MilestoneByDay 按天数取里程碑引用
func (v *TrackedVideo) MilestoneByDay(day int) *Milestone {
	switch day {
	case 1:
		return &v.Day1
	case 7:
		return &v.Day7
	case 30:
		return &v.Day30
	case 90:
		return &v.Day90
	}
	return nil
}

// DaysSincePost 距发布的整天数
func (v *TrackedVideo) DaysSincePost(now time.Time) int {
	if now.Before(v.PostedAt) {
		return 0
	}
	return int(now.Sub(v.PostedAt).Hours() / 24)
}
