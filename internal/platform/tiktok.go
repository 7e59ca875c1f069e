package platform

import (
	"CreatorPulse/internal/api/config"
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/pkg/consts"
	"CreatorPulse/internal/pkg/logger"
	"CreatorPulse/internal/repository"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	tiktokBaseURL = "https://open.tiktokapis.com/v2"
	// 开放平台批量查询上限 20，批间固定间隔防限流
	tiktokChunkSize  = 20
	tiktokChunkDelay = 500 * time.Millisecond
	// access token 过期判断的安全缓冲
	tokenExpiryBuffer = 5 * time.Minute
)

var ErrNoCredentials = errors.New("tiktok credentials not found in store")

type TikTokClient struct {
	http         *resty.Client
	clientKey    string
	clientSecret string
	credRepo     repository.CredentialRepo

	// 进程内凭据缓存，写入只发生在刷新流程
	cached *model.PlatformCredentials
}

func NewTikTokClient(cfg config.TikTokConfig, credRepo repository.CredentialRepo) *TikTokClient {
	client := resty.New().
		SetBaseURL(tiktokBaseURL).
		SetTimeout(20 * time.Second)
	logger.SetupResty(client, consts.PlatformTikTok)

	return &TikTokClient{
		http:         client,
		clientKey:    cfg.ClientKey,
		clientSecret: cfg.ClientSecret,
		credRepo:     credRepo,
	}
}

func (s *TikTokClient) Name() string {
	return consts.PlatformTikTok
}

// accessToken 取可用的 access token，过期则先走刷新
func (s *TikTokClient) accessToken(ctx context.Context) (string, error) {
	if s.cached == nil {
		creds, err := s.credRepo.Get(ctx, consts.PlatformTikTok)
		if err != nil {
			return "", errors.Wrap(err, "load tiktok credentials")
		}
		if creds == nil {
			return "", ErrNoCredentials
		}
		s.cached = creds
	}

	if s.cached.AccessTokenExpired(time.Now(), tokenExpiryBuffer) {
		if err := s.refreshToken(ctx); err != nil {
			return "", err
		}
	}

	return s.cached.AccessToken, nil
}

type ttTokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// refreshToken 用 refresh token 换新 token 对并写回记录库
func (s *TikTokClient) refreshToken(ctx context.Context) error {
	if s.cached == nil {
		return ErrNoCredentials
	}

	var body ttTokenResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"client_key":    s.clientKey,
			"client_secret": s.clientSecret,
			"grant_type":    "refresh_token",
			"refresh_token": s.cached.RefreshToken,
		}).
		SetResult(&body).
		Post("/oauth/token/")
	if err != nil {
		return errors.Wrap(err, "tiktok token refresh")
	}
	if resp.IsError() || body.Error != "" {
		return errors.Errorf("tiktok token refresh: status %d error %s %s",
			resp.StatusCode(), body.Error, body.ErrorDescription)
	}
	if body.AccessToken == "" {
		return errors.New("tiktok token refresh: empty access token")
	}

	now := time.Now()
	s.cached.AccessToken = body.AccessToken
	s.cached.AccessTokenExpiresAt = now.Add(time.Duration(body.ExpiresIn) * time.Second)
	// 响应允许不轮换 refresh token，缺省时沿用旧值
	if body.RefreshToken != "" {
		s.cached.RefreshToken = body.RefreshToken
		s.cached.RefreshTokenExpiresAt = now.Add(time.Duration(body.RefreshExpiresIn) * time.Second)
	}

	if err := s.credRepo.Save(ctx, s.cached); err != nil {
		// 持久化失败不拦调用，token 本身已经可用
		log.ErrorContext(ctx, "persist refreshed tiktok token error", "err", err)
	}

	log.InfoContext(ctx, "tiktok token refreshed", "expires_at", s.cached.AccessTokenExpiresAt)
	return nil
}

// doWithAuth 带 token 执行一次调用；遇到 401 强制刷新后重试一次，再失败就交还错误
func (s *TikTokClient) doWithAuth(ctx context.Context, call func(token string) (*resty.Response, error)) (*resty.Response, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := call(token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	log.WarnContext(ctx, "tiktok auth rejected, forcing token refresh")
	if err := s.refreshToken(ctx); err != nil {
		return nil, err
	}
	return call(s.cached.AccessToken)
}

type ttVideoListResponse struct {
	Data struct {
		Videos []struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			CreateTime int64  `json:"create_time"`
			ShareURL   string `json:"share_url"`
		} `json:"videos"`
		Cursor  int64 `json:"cursor"`
		HasMore bool  `json:"has_more"`
	} `json:"data"`
}

// ListRecentVideos 游标翻页拉取已发布作品
func (s *TikTokClient) ListRecentVideos(ctx context.Context, limit int) ([]CatalogItem, error) {
	items := make([]CatalogItem, 0, limit)
	var cursor int64

	for len(items) < limit {
		var body ttVideoListResponse
		resp, err := s.doWithAuth(ctx, func(token string) (*resty.Response, error) {
			return s.http.R().
				SetContext(ctx).
				SetAuthToken(token).
				SetQueryParam("fields", "id,title,create_time,share_url").
				SetBody(map[string]interface{}{
					"max_count": tiktokChunkSize,
					"cursor":    cursor,
				}).
				SetResult(&body).
				Post("/video/list/")
		})
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, errors.Errorf("tiktok video list: status %d", resp.StatusCode())
		}

		for _, v := range body.Data.Videos {
			items = append(items, CatalogItem{
				NativeID: v.ID,
				Title:    v.Title,
				URL:      v.ShareURL,
				PostedAt: time.Unix(v.CreateTime, 0),
			})
			if len(items) >= limit {
				break
			}
		}

		if !body.Data.HasMore {
			break
		}
		cursor = body.Data.Cursor
	}

	return items, nil
}

type ttVideoQueryResponse struct {
	Data struct {
		Videos []struct {
			ID           string `json:"id"`
			ViewCount    int64  `json:"view_count"`
			LikeCount    int64  `json:"like_count"`
			CommentCount int64  `json:"comment_count"`
			ShareCount   int64  `json:"share_count"`
		} `json:"videos"`
	} `json:"data"`
}

// FetchMetrics 20 个一批查询指标，批间固定 sleep 应对限流
func (s *TikTokClient) FetchMetrics(ctx context.Context, nativeIDs []string) (map[string]model.MetricSnapshot, error) {
	result := make(map[string]model.MetricSnapshot, len(nativeIDs))

	for start := 0; start < len(nativeIDs); start += tiktokChunkSize {
		end := start + tiktokChunkSize
		if end > len(nativeIDs) {
			end = len(nativeIDs)
		}

		if start > 0 {
			time.Sleep(tiktokChunkDelay)
		}

		var body ttVideoQueryResponse
		resp, err := s.doWithAuth(ctx, func(token string) (*resty.Response, error) {
			return s.http.R().
				SetContext(ctx).
				SetAuthToken(token).
				SetQueryParam("fields", "id,view_count,like_count,comment_count,share_count").
				SetBody(map[string]interface{}{
					"filters": map[string]interface{}{
						"video_ids": nativeIDs[start:end],
					},
				}).
				SetResult(&body).
				Post("/video/query/")
		})
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, errors.Errorf("tiktok video query: status %d", resp.StatusCode())
		}

		for _, v := range body.Data.Videos {
			result[v.ID] = model.MetricSnapshot{
				Views:    v.ViewCount,
				Likes:    v.LikeCount,
				Comments: v.CommentCount,
				Shares:   v.ShareCount,
			}
		}
	}

	return result, nil
}
