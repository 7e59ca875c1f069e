package platform

import (
	"CreatorPulse/internal/api/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTikTokConfig() config.TikTokConfig {
	return config.TikTokConfig{ClientKey: "key", ClientSecret: "secret"}
}

func newTestYouTube(t *testing.T, handler http.Handler) *YouTubeClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := NewYouTubeClient(config.YouTubeConfig{ApiKey: "api-key", ChannelID: "chan"})
	client.http.SetBaseURL(ts.URL)
	return client
}

func TestYouTube_ListRecentVideosPagination(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		calls++
		assert.Equal(t, "chan", r.URL.Query().Get("channelId"))

		resp := map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id": map[string]string{"videoId": "vid-" + r.URL.Query().Get("pageToken")},
					"snippet": map[string]interface{}{
						"title":       "some video",
						"publishedAt": time.Now().UTC().Format(time.RFC3339),
					},
				},
			},
		}
		if calls == 1 {
			resp["nextPageToken"] = "p2"
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	client := newTestYouTube(t, mux)

	items, err := client.ListRecentVideos(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, items, 2)
	assert.Equal(t, "vid-", items[0].NativeID)
	assert.Equal(t, "vid-p2", items[1].NativeID)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid-", items[0].URL)
}

func TestYouTube_FetchMetricsParsesStringCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id": "abc",
					"statistics": map[string]string{
						"viewCount":    "10000",
						"likeCount":    "500",
						"commentCount": "50",
					},
				},
				{
					"id":         "broken",
					"statistics": map[string]string{"viewCount": "not-a-number"},
				},
			},
		})
	})

	client := newTestYouTube(t, mux)

	metrics, err := client.FetchMetrics(context.Background(), []string{"abc", "broken"})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), metrics["abc"].Views)
	assert.Equal(t, int64(500), metrics["abc"].Likes)
	assert.Equal(t, int64(50), metrics["abc"].Comments)
	assert.Equal(t, int64(0), metrics["broken"].Views)
}

func TestYouTube_SearchErrorSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
	})

	client := newTestYouTube(t, mux)

	_, err := client.ListRecentVideos(context.Background(), 10)
	assert.Error(t, err)
}
