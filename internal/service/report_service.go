package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/pkg/consts"
	"CreatorPulse/internal/pkg/email"
	"CreatorPulse/internal/pkg/llm"
	"CreatorPulse/internal/pkg/redis"
	"CreatorPulse/internal/repository"
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const summaryCacheTTL = 10 * time.Minute

// VideoDigest 报告里的单条视频摘要
type VideoDigest struct {
	Title            string   `json:"title"`
	Platform         string   `json:"platform"`
	URL              string   `json:"url"`
	Views            int64    `json:"views"`
	EngagementRate   *float64 `json:"engagement_rate"`
	PerformanceScore *int     `json:"performance_score"`
}

// AnalyticsSummary 数据总览，/analytics/summary 与周报共用
type AnalyticsSummary struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	TotalVideos        int            `json:"total_videos"`
	VideosByPlatform   map[string]int `json:"videos_by_platform"`
	TotalViews         int64          `json:"total_views"`
	AvgEngagementRate  *float64       `json:"avg_engagement_rate"`
	MilestonesRecorded int            `json:"milestones_recorded"`
	IdeasAnalyzed7d    int64          `json:"ideas_analyzed_7d"`
	TopVideos          []VideoDigest  `json:"top_videos"`
	BottomVideos       []VideoDigest  `json:"bottom_videos"`
}

type ReportService interface {
	Summary(ctx context.Context) (*AnalyticsSummary, error)
	VideoDetail(ctx context.Context, id string) (*model.TrackedVideo, error)
	ComposeReport(ctx context.Context) (string, error)
	SendReport(ctx context.Context) error
}

type reportServiceImpl struct {
	videoRepo repository.VideoRepo
	ideaRepo  repository.IdeaRepo
	generator llm.Generator
	prompts   *llm.Prompts
	sender    email.Sender
}

func NewReportService(videoRepo repository.VideoRepo, ideaRepo repository.IdeaRepo,
	generator llm.Generator, prompts *llm.Prompts, sender email.Sender) ReportService {
	return &reportServiceImpl{
		videoRepo: videoRepo,
		ideaRepo:  ideaRepo,
		generator: generator,
		prompts:   prompts,
		sender:    sender,
	}
}

// Summary 聚合追踪数据，结果进 Redis 缓存 10 分钟
func (s *reportServiceImpl) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	if redis.Rdb != nil {
		if cached, err := redis.GetValue(ctx, consts.SummaryCacheKey); err == nil && cached != "" {
			var summary AnalyticsSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}

	if redis.Rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := redis.SetWithExpiration(ctx, consts.SummaryCacheKey, string(data), summaryCacheTTL); err != nil {
				log.WarnContext(ctx, "cache summary error", "err", err)
			}
		}
	}

	return summary, nil
}

// VideoDetail 单条追踪记录明细，含各里程碑与分析
func (s *reportServiceImpl) VideoDetail(ctx context.Context, id string) (*model.TrackedVideo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrParamInvalid
	}

	video, err := s.videoRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if video == nil || video.Status == model.VideoStatusArchived {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *reportServiceImpl) buildSummary(ctx context.Context) (*AnalyticsSummary, error) {
	videos, err := s.videoRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		GeneratedAt:      time.Now(),
		TotalVideos:      len(videos),
		VideosByPlatform: make(map[string]int),
	}

	var rateSum float64
	var rateCount int

	digests := make([]VideoDigest, 0, len(videos))
	for _, v := range videos {
		summary.VideosByPlatform[v.Platform]++
		summary.TotalViews += v.Current.Views

		for _, day := range consts.MilestoneDays {
			if v.MilestoneByDay(day).Recorded() {
				summary.MilestonesRecorded++
			}
		}

		if v.EngagementRate != nil {
			rateSum += *v.EngagementRate
			rateCount++
		}

		digests = append(digests, VideoDigest{
			Title:            v.Title,
			Platform:         v.Platform,
			URL:              v.URL,
			Views:            v.Current.Views,
			EngagementRate:   v.EngagementRate,
			PerformanceScore: v.PerformanceScore,
		})
	}

	if rateCount > 0 {
		avg := rateSum / float64(rateCount)
		summary.AvgEngagementRate = &avg
	}

	sort.Slice(digests, func(i, j int) bool {
		return digests[i].Views > digests[j].Views
	})
	summary.TopVideos = headDigests(digests, 5)
	if len(digests) > 5 {
		summary.BottomVideos = tailDigests(digests, 3)
	}

	analyzed, err := s.ideaRepo.CountAnalyzedSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		// 统计失败不拦报告，置零即可
		log.WarnContext(ctx, "count analyzed ideas error", "err", err)
	} else {
		summary.IdeasAnalyzed7d = analyzed
	}

	return summary, nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<html>
<body>
<h2>CreatorPulse Weekly Digest</h2>
<p>{{.Narrative}}</p>
<h3>Overview</h3>
<ul>
<li>Tracked videos: {{.Summary.TotalVideos}}</li>
<li>Total views: {{.Summary.TotalViews}}</li>
{{if .AvgRate}}<li>Average engagement rate: {{.AvgRate}}%</li>{{end}}
<li>Milestones recorded: {{.Summary.MilestonesRecorded}}</li>
<li>Ideas analyzed in the last 7 days: {{.Summary.IdeasAnalyzed7d}}</li>
</ul>
<h3>Top performers</h3>
<ol>
{{range .Summary.TopVideos}}<li><a href="{{.URL}}">{{.Title}}</a> ({{.Platform}}) — {{.Views}} views</li>
{{end}}</ol>
</body>
</html>`))

// ComposeReport 聚合统计 + 模型叙述，渲染成通知文档
func (s *reportServiceImpl) ComposeReport(ctx context.Context) (string, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return "", err
	}
	if summary.TotalVideos == 0 {
		return "", ErrReportNotReady
	}

	narrative, err := s.generator.Generate(ctx, s.prompts.WeeklyReport, summaryForPrompt(summary), 0.5)
	if err != nil {
		// 叙述部分失败就出纯数字版，报告不因模型挂掉而停发
		log.WarnContext(ctx, "report narrative generation error", "err", err)
		narrative = ""
	}

	avgRate := ""
	if summary.AvgEngagementRate != nil {
		avgRate = fmt.Sprintf("%.2f", *summary.AvgEngagementRate)
	}

	var buf bytes.Buffer
	err = reportTemplate.Execute(&buf, map[string]interface{}{
		"Narrative": narrative,
		"Summary":   summary,
		"AvgRate":   avgRate,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *reportServiceImpl) SendReport(ctx context.Context) error {
	body, err := s.ComposeReport(ctx)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("CreatorPulse digest %s", time.Now().Format("2006-01-02"))
	return s.sender.Send(ctx, subject, body)
}

func summaryForPrompt(summary *AnalyticsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tracked videos: %d\nTotal views: %d\n", summary.TotalVideos, summary.TotalViews)
	if summary.AvgEngagementRate != nil {
		fmt.Fprintf(&b, "Average engagement rate: %.2f%%\n", *summary.AvgEngagementRate)
	}
	fmt.Fprintf(&b, "Ideas analyzed last 7 days: %d\n", summary.IdeasAnalyzed7d)
	for _, v := range summary.TopVideos {
		fmt.Fprintf(&b, "Top: %s (%s) %d views\n", v.Title, v.Platform, v.Views)
	}
	for _, v := range summary.BottomVideos {
		fmt.Fprintf(&b, "Bottom: %s (%s) %d views\n", v.Title, v.Platform, v.Views)
	}

	return b.String()
}

func headDigests(list []VideoDigest, n int) []VideoDigest {
	if len(list) < n {
		n = len(list)
	}
	return list[:n]
}

func tailDigests(list []VideoDigest, n int) []VideoDigest {
	if len(list) < n {
		n = len(list)
	}
	return list[len(list)-n:]
}
