package platform

import (
	"CreatorPulse/internal/model"
	"context"
	"time"
)

// CatalogItem 平台目录里的一条已发布作品
type CatalogItem struct {
	NativeID string
	Title    string
	URL      string
	PostedAt time.Time
}

// Client 单个媒体平台的目录与指标入口
type Client interface {
	Name() string
	ListRecentVideos(ctx context.Context, limit int) ([]CatalogItem, error)
	FetchMetrics(ctx context.Context, nativeIDs []string) (map[string]model.MetricSnapshot, error)
}
