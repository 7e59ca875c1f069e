package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/platform"
	"CreatorPulse/internal/pkg/util"
	"CreatorPulse/internal/repository"
	"context"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson"
)

// 每轮每平台最多拉取的目录条数
const catalogFetchLimit = 50

// SyncStats 一轮同步的计数
type SyncStats struct {
	VideosDiscovered int64 `json:"videos_discovered"`
	VideosCreated    int64 `json:"videos_created"`
	MetricsUpdated   int64 `json:"metrics_updated"`
	PlatformErrors   int64 `json:"platform_errors"`
	ItemErrors       int64 `json:"item_errors"`
}

func (s *SyncStats) AsMap() map[string]int64 {
	return map[string]int64{
		"videos_discovered": s.VideosDiscovered,
		"videos_created":    s.VideosCreated,
		"metrics_updated":   s.MetricsUpdated,
		"platform_errors":   s.PlatformErrors,
		"item_errors":       s.ItemErrors,
	}
}

type SyncService interface {
	SyncAll(ctx context.Context) *SyncStats
}

type syncServiceImpl struct {
	videoRepo repository.VideoRepo
	platforms []platform.Client
}

func NewSyncService(videoRepo repository.VideoRepo, platforms []platform.Client) SyncService {
	return &syncServiceImpl{
		videoRepo: videoRepo,
		platforms: platforms,
	}
}

// SyncAll 逐平台对账；单个平台失败只影响自己，其余平台继续
func (s *syncServiceImpl) SyncAll(ctx context.Context) *SyncStats {
	stats := &SyncStats{}

	for _, p := range s.platforms {
		if err := s.syncPlatform(ctx, p, stats); err != nil {
			stats.PlatformErrors++
			log.ErrorContext(ctx, "platform sync error", "platform", p.Name(), "err", err)
		}
	}

	log.InfoContext(ctx, "sync finished",
		"discovered", stats.VideosDiscovered,
		"created", stats.VideosCreated,
		"metrics_updated", stats.MetricsUpdated,
		"platform_errors", stats.PlatformErrors,
		"item_errors", stats.ItemErrors)
	return stats
}

func (s *syncServiceImpl) syncPlatform(ctx context.Context, p platform.Client, stats *SyncStats) error {
	items, err := p.ListRecentVideos(ctx, catalogFetchLimit)
	if err != nil {
		return err
	}
	stats.VideosDiscovered += int64(len(items))

	tracked, err := s.videoRepo.ListActiveByPlatform(ctx, p.Name())
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(tracked))
	for _, v := range tracked {
		known[v.NativeID] = struct{}{}
	}

	// 目录里出现但库里没有的作品，走幂等创建
	for _, item := range items {
		if _, ok := known[item.NativeID]; ok {
			continue
		}

		video := &model.TrackedVideo{
			Title:    item.Title,
			Platform: p.Name(),
			NativeID: item.NativeID,
			URL:      item.URL,
			PostedAt: item.PostedAt,
			Status:   model.VideoStatusTracking,
		}
		_, created, err := s.videoRepo.CreateIfAbsent(ctx, video)
		if err != nil {
			stats.ItemErrors++
			log.ErrorContext(ctx, "create tracked video error",
				"platform", p.Name(), "native_id", item.NativeID, "err", err)
			continue
		}
		if created {
			stats.VideosCreated++
		}
	}

	// 重新取全量（含刚建的），统一刷新当前指标
	tracked, err = s.videoRepo.ListActiveByPlatform(ctx, p.Name())
	if err != nil {
		return err
	}
	if len(tracked) == 0 {
		return nil
	}

	nativeIDs := make([]string, 0, len(tracked))
	for _, v := range tracked {
		nativeIDs = append(nativeIDs, v.NativeID)
	}

	metrics, err := p.FetchMetrics(ctx, nativeIDs)
	if err != nil {
		return err
	}

	for _, v := range tracked {
		snapshot, ok := metrics[v.NativeID]
		if !ok {
			continue
		}

		fields := bson.M{
			"current":         snapshot,
			"engagement_rate": util.EngagementRate(snapshot.Views, snapshot.Likes, snapshot.Comments, snapshot.Shares),
		}
		if err := s.videoRepo.Update(ctx, v.ID, fields); err != nil {
			stats.ItemErrors++
			log.ErrorContext(ctx, "update current metrics error",
				"platform", p.Name(), "native_id", v.NativeID, "err", err)
			continue
		}
		stats.MetricsUpdated++
	}

	return nil
}
