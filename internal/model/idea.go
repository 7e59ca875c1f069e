package model

import (
	"CreatorPulse/internal/pkg/consts"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdeaStatus 创意生命周期状态
const (
	IdeaStatusNew         = "New"
	IdeaStatusResearching = "Researching"
	IdeaStatusReady       = "Ready"
	IdeaStatusPosted      = "Posted"
)

// Idea 用户录入的内容创意，分析结果由 AI 写回
type Idea struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Platforms       []string           `bson:"platforms,omitempty" json:"platforms"`
	Status          string             `bson:"status" json:"status"`
	Priority        string             `bson:"priority,omitempty" json:"priority"`
	NeedsReanalysis bool               `bson:"needs_reanalysis" json:"needs_reanalysis"`

	// 分析写回字段
	ViralityScore     *int       `bson:"virality_score,omitempty" json:"virality_score"`
	ScoreBreakdown    string     `bson:"score_breakdown,omitempty" json:"score_breakdown"`
	Review            string     `bson:"review,omitempty" json:"review"`
	Hook1             string     `bson:"hook1,omitempty" json:"hook1"`
	Hook2             string     `bson:"hook2,omitempty" json:"hook2"`
	Hook3             string     `bson:"hook3,omitempty" json:"hook3"`
	Description       string     `bson:"description,omitempty" json:"description"`
	Hashtags          string     `bson:"hashtags,omitempty" json:"hashtags"`
	Tags              []string   `bson:"tags,omitempty" json:"tags"`
	SimilarContent    string     `bson:"similar_content,omitempty" json:"similar_content"`
	ContentGap        string     `bson:"content_gap,omitempty" json:"content_gap"`
	TrendingRelevance string     `bson:"trending_relevance,omitempty" json:"trending_relevance"`
	PostingTime       string     `bson:"posting_time,omitempty" json:"posting_time"`
	BestFormat        string     `bson:"best_format,omitempty" json:"best_format"`
	OtherFormats      []string   `bson:"other_formats,omitempty" json:"other_formats"`
	LastAnalyzedAt    *time.Time `bson:"last_analyzed_at,omitempty" json:"last_analyzed_at"`

	// 观测表现回流
	ObservedScore *int `bson:"observed_score,omitempty" json:"observed_score"`

	Archived  bool      `bson:"archived" json:"archived"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EligibleForAnalysis 判断创意是否应进入分析队列
func (i *Idea) EligibleForAnalysis() bool {
	if i.Status == IdeaStatusPosted {
		return false
	}
	return i.ViralityScore == nil || i.NeedsReanalysis
}

// IsHelpRequest 判断标题是否为 help 命令
func (i *Idea) IsHelpRequest() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(i.Title)), consts.HelpPrefix)
}

// HelpTopic 提取 help 命令的主题部分
func (i *Idea) HelpTopic() string {
	title := strings.TrimSpace(i.Title)
	if len(title) < len(consts.HelpPrefix) {
		return ""
	}
	return strings.TrimSpace(title[len(consts.HelpPrefix):])
}
