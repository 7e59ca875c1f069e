package platform

import (
	"CreatorPulse/internal/api/config"
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/pkg/consts"
	"CreatorPulse/internal/pkg/logger"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	youtubeBaseURL = "https://www.googleapis.com/youtube/v3"
	// YouTube Data API 单次最多查 50 个视频
	youtubeBatchSize = 50
)

type YouTubeClient struct {
	http      *resty.Client
	apiKey    string
	channelID string
}

func NewYouTubeClient(cfg config.YouTubeConfig) *YouTubeClient {
	client := resty.New().
		SetBaseURL(youtubeBaseURL).
		SetTimeout(20 * time.Second)
	logger.SetupResty(client, consts.PlatformYouTube)

	return &YouTubeClient{
		http:      client,
		apiKey:    cfg.ApiKey,
		channelID: cfg.ChannelID,
	}
}

func (s *YouTubeClient) Name() string {
	return consts.PlatformYouTube
}

type ytSearchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			PublishedAt time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// ListRecentVideos 按发布时间翻页拉取频道目录，最多 limit 条
func (s *YouTubeClient) ListRecentVideos(ctx context.Context, limit int) ([]CatalogItem, error) {
	items := make([]CatalogItem, 0, limit)
	pageToken := ""

	for len(items) < limit {
		var body ytSearchResponse
		resp, err := s.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"part":       "snippet",
				"channelId":  s.channelID,
				"order":      "date",
				"type":       "video",
				"maxResults": strconv.Itoa(youtubeBatchSize),
				"pageToken":  pageToken,
				"key":        s.apiKey,
			}).
			SetResult(&body).
			Get("/search")
		if err != nil {
			return nil, errors.Wrap(err, "youtube search")
		}
		if resp.IsError() {
			return nil, errors.Errorf("youtube search: status %d", resp.StatusCode())
		}

		for _, it := range body.Items {
			if it.ID.VideoID == "" {
				continue
			}
			items = append(items, CatalogItem{
				NativeID: it.ID.VideoID,
				Title:    it.Snippet.Title,
				URL:      "https://www.youtube.com/watch?v=" + it.ID.VideoID,
				PostedAt: it.Snippet.PublishedAt,
			})
			if len(items) >= limit {
				break
			}
		}

		if body.NextPageToken == "" {
			break
		}
		pageToken = body.NextPageToken
	}

	return items, nil
}

// FetchMetrics 按 50 个一批查询统计数据
func (s *YouTubeClient) FetchMetrics(ctx context.Context, nativeIDs []string) (map[string]model.MetricSnapshot, error) {
	result := make(map[string]model.MetricSnapshot, len(nativeIDs))

	for start := 0; start < len(nativeIDs); start += youtubeBatchSize {
		end := start + youtubeBatchSize
		if end > len(nativeIDs) {
			end = len(nativeIDs)
		}

		var body ytVideosResponse
		resp, err := s.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"part": "statistics",
				"id":   strings.Join(nativeIDs[start:end], ","),
				"key":  s.apiKey,
			}).
			SetResult(&body).
			Get("/videos")
		if err != nil {
			return nil, errors.Wrap(err, "youtube videos")
		}
		if resp.IsError() {
			return nil, errors.Errorf("youtube videos: status %d", resp.StatusCode())
		}

		for _, it := range body.Items {
			result[it.ID] = model.MetricSnapshot{
				Views:    parseCount(it.Statistics.ViewCount),
				Likes:    parseCount(it.Statistics.LikeCount),
				Comments: parseCount(it.Statistics.CommentCount),
			}
		}
	}

	return result, nil
}

// parseCount YouTube 把数字编码成字符串
func parseCount(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
