package platform

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/pkg/consts"
	"context"
	log "log/slog"
)

// InstagramClient 占位实现，Graph API 接入前同步直接空转
type InstagramClient struct{}

func NewInstagramClient() *InstagramClient {
	return &InstagramClient{}
}

func (s *InstagramClient) Name() string {
	return consts.PlatformInstagram
}

func (s *InstagramClient) ListRecentVideos(ctx context.Context, limit int) ([]CatalogItem, error) {
	log.InfoContext(ctx, "instagram client not configured, skipping catalogue")
	return nil, nil
}

func (s *InstagramClient) FetchMetrics(ctx context.Context, nativeIDs []string) (map[string]model.MetricSnapshot, error) {
	return map[string]model.MetricSnapshot{}, nil
}
