package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/platform"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncAllCreatesAndRefreshes(t *testing.T) {
	repo := newFakeVideoRepo()
	p := &fakePlatform{
		name: "YouTube",
		items: []platform.CatalogItem{
			{NativeID: "yt1", Title: "first", URL: "https://youtu.be/yt1", PostedAt: time.Now().AddDate(0, 0, -3)},
			{NativeID: "yt2", Title: "second", URL: "https://youtu.be/yt2", PostedAt: time.Now().AddDate(0, 0, -1)},
		},
		metrics: map[string]model.MetricSnapshot{
			"yt1": {Views: 10000, Likes: 500, Comments: 50, Shares: 25},
			"yt2": {Views: 200, Likes: 10, Comments: 2, Shares: 0},
		},
	}

	stats := NewSyncService(repo, []platform.Client{p}).SyncAll(context.Background())

	assert.Equal(t, int64(2), stats.VideosDiscovered)
	assert.Equal(t, int64(2), stats.VideosCreated)
	assert.Equal(t, int64(2), stats.MetricsUpdated)
	assert.Equal(t, int64(0), stats.PlatformErrors)
	require.Len(t, repo.videos, 2)

	first, err := repo.FindByNativeID(context.Background(), "YouTube", "yt1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, model.VideoStatusTracking, first.Status)

	update := repo.lastUpdate(first.ID)
	require.NotNil(t, update)
	snap, ok := update["current"].(model.MetricSnapshot)
	require.True(t, ok)
	assert.Equal(t, int64(10000), snap.Views)

	rate, ok := update["engagement_rate"].(*float64)
	require.True(t, ok)
	require.NotNil(t, rate)
	assert.Equal(t, 5.75, *rate)
}

func TestSyncAllDoesNotDuplicateKnownVideos(t *testing.T) {
	existing := &model.TrackedVideo{
		Title:    "already tracked",
		Platform: "YouTube",
		NativeID: "yt1",
		PostedAt: time.Now().AddDate(0, 0, -5),
	}
	repo := newFakeVideoRepo(existing)
	p := &fakePlatform{
		name: "YouTube",
		items: []platform.CatalogItem{
			{NativeID: "yt1", Title: "already tracked"},
			{NativeID: "yt2", Title: "new one"},
		},
		metrics: map[string]model.MetricSnapshot{
			"yt1": {Views: 10},
			"yt2": {Views: 20},
		},
	}
	svc := NewSyncService(repo, []platform.Client{p})

	stats := svc.SyncAll(context.Background())
	assert.Equal(t, int64(1), stats.VideosCreated)
	assert.Len(t, repo.videos, 2)

	// 再跑一轮，目录不变，不应再有新建
	stats = svc.SyncAll(context.Background())
	assert.Equal(t, int64(0), stats.VideosCreated)
	assert.Len(t, repo.videos, 2)
}

func TestCreateIfAbsentReturnsExistingID(t *testing.T) {
	repo := newFakeVideoRepo(&model.TrackedVideo{Platform: "TikTok", NativeID: "tt1"})
	existing := repo.videos[0]

	id, created, err := repo.CreateIfAbsent(context.Background(), &model.TrackedVideo{
		Platform: "TikTok",
		NativeID: "tt1",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, id)
	assert.Len(t, repo.videos, 1)
}

func TestSyncAllIsolatesPlatformFailure(t *testing.T) {
	repo := newFakeVideoRepo()
	broken := &fakePlatform{
		name:    "TikTok",
		listErr: errors.New("token service down"),
	}
	healthy := &fakePlatform{
		name: "YouTube",
		items: []platform.CatalogItem{
			{NativeID: "yt1", Title: "survives"},
		},
		metrics: map[string]model.MetricSnapshot{
			"yt1": {Views: 100, Likes: 5},
		},
	}

	stats := NewSyncService(repo, []platform.Client{broken, healthy}).SyncAll(context.Background())

	assert.Equal(t, int64(1), stats.PlatformErrors)
	assert.Equal(t, int64(1), stats.VideosCreated)
	assert.Equal(t, int64(1), stats.MetricsUpdated)
}

func TestSyncAllSkipsMetricsForMissingIDs(t *testing.T) {
	repo := newFakeVideoRepo(&model.TrackedVideo{Platform: "YouTube", NativeID: "gone"})
	p := &fakePlatform{
		name:    "YouTube",
		metrics: map[string]model.MetricSnapshot{},
	}

	stats := NewSyncService(repo, []platform.Client{p}).SyncAll(context.Background())

	assert.Equal(t, int64(0), stats.MetricsUpdated)
	assert.Nil(t, repo.lastUpdate(repo.videos[0].ID))
}
