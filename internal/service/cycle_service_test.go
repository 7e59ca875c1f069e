package service

import (
	"CreatorPulse/internal/model"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milestoneResponse(score int, followUp string) string {
	return fmt.Sprintf(`ANALYSIS: numbers look healthy for this window
PERFORMANCE SCORE: %d
TREND: Rising
EVERGREEN STATUS: Evergreen
WHY IT WORKED: strong hook
WHAT COULD IMPROVE: tighter edit
SUGGESTED FOLLOW UP: %s`, score, followUp)
}

func recordedMilestone(views int64, analysis string, at time.Time) model.Milestone {
	return model.Milestone{
		Snapshot:   model.MetricSnapshot{Views: views},
		RecordedAt: &at,
		Analysis:   analysis,
	}
}

func newCycleFixture(videoRepo *fakeVideoRepo, ideaRepo *fakeIdeaRepo, gen *fakeGenerator) (CycleService, *recordingLocker) {
	locker := &recordingLocker{}
	analyzer := NewAnalyzerService(ideaRepo, gen, testPrompts(), locker)
	return NewCycleService(videoRepo, ideaRepo, analyzer, locker), locker
}

func TestRunCycleRecordsOneTierPerPass(t *testing.T) {
	video := &model.TrackedVideo{
		Title:    "old clip, never checked",
		Platform: "YouTube",
		NativeID: "yt1",
		PostedAt: time.Now().AddDate(0, 0, -40),
		Current:  model.MetricSnapshot{Views: 5000, Likes: 200, Comments: 30, Shares: 10},
	}
	videoRepo := newFakeVideoRepo(video)
	gen := &fakeGenerator{results: []genResult{{text: milestoneResponse(70, "None")}}}
	svc, _ := newCycleFixture(videoRepo, newFakeIdeaRepo(), gen)

	// 第一轮只准补录 D1，后面的层级要等下一轮
	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(1), stats.VideosChecked)
	assert.Equal(t, int64(1), stats.MilestonesRecorded)
	assert.Equal(t, int64(0), stats.MilestonesAnalyzed)

	update := videoRepo.lastUpdate(video.ID)
	require.NotNil(t, update)
	frozen, ok := update["day1.snapshot"].(model.MetricSnapshot)
	require.True(t, ok)
	assert.Equal(t, int64(5000), frozen.Views)
	assert.NotNil(t, update["day1.recorded_at"])
	assert.True(t, video.Day1.Recorded())
	assert.False(t, video.Day7.Recorded())

	// 第二轮：分析刚录的 D1，并补录 D7
	stats = svc.RunCycle(context.Background())
	assert.Equal(t, int64(1), stats.MilestonesRecorded)
	assert.Equal(t, int64(1), stats.MilestonesAnalyzed)
	assert.True(t, video.Day1.Analyzed())
	assert.True(t, video.Day7.Recorded())
	assert.False(t, video.Day30.Recorded())
}

func TestRunCycleAnalyzesRecordedMilestone(t *testing.T) {
	recordedAt := time.Now().AddDate(0, 0, -1)
	video := &model.TrackedVideo{
		Title:    "two day old clip",
		Platform: "TikTok",
		NativeID: "tt1",
		PostedAt: time.Now().AddDate(0, 0, -2),
		Day1:     recordedMilestone(1200, "", recordedAt),
	}
	videoRepo := newFakeVideoRepo(video)
	gen := &fakeGenerator{results: []genResult{{text: milestoneResponse(82, "None")}}}
	svc, _ := newCycleFixture(videoRepo, newFakeIdeaRepo(), gen)

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(0), stats.MilestonesRecorded)
	assert.Equal(t, int64(1), stats.MilestonesAnalyzed)

	update := videoRepo.lastUpdate(video.ID)
	require.NotNil(t, update)
	assert.NotEmpty(t, update["day1.analysis"])
	assert.Equal(t, 82, update["performance_score"])
	assert.Equal(t, "Rising", update["trend"])

	// 快照数据应进了模型输入
	require.Len(t, gen.userPrompts, 1)
	assert.Contains(t, gen.userPrompts[0], "Day 1 snapshot: views=1200")
}

func TestRunCycleIdempotentWhenNothingDue(t *testing.T) {
	at := time.Now().AddDate(0, 0, -1)
	video := &model.TrackedVideo{
		Title:    "fully handled",
		Platform: "YouTube",
		NativeID: "yt1",
		PostedAt: time.Now().AddDate(0, 0, -2),
		Day1:     recordedMilestone(100, "done", at),
	}
	videoRepo := newFakeVideoRepo(video)
	gen := &fakeGenerator{}
	svc, _ := newCycleFixture(videoRepo, newFakeIdeaRepo(), gen)

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(0), stats.MilestonesRecorded)
	assert.Equal(t, int64(0), stats.MilestonesAnalyzed)
	assert.Equal(t, 0, gen.calls)
	assert.Nil(t, videoRepo.lastUpdate(video.ID))
}

func TestRunCycleCreatesFollowUpOnDaySeven(t *testing.T) {
	at := time.Now().AddDate(0, 0, -1)
	video := &model.TrackedVideo{
		Title:          "week old clip",
		Platform:       "TikTok",
		NativeID:       "tt1",
		PostedAt:       time.Now().AddDate(0, 0, -8),
		Day1:           recordedMilestone(500, "done", at),
		Day7:           recordedMilestone(4000, "", at),
		CreateFollowUp: true,
	}
	videoRepo := newFakeVideoRepo(video)
	ideaRepo := newFakeIdeaRepo()
	gen := &fakeGenerator{results: []genResult{{text: milestoneResponse(88, "Make a part two on the same hook")}}}
	svc, _ := newCycleFixture(videoRepo, ideaRepo, gen)

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(1), stats.MilestonesAnalyzed)
	assert.Equal(t, int64(1), stats.FollowUpsCreated)

	require.Len(t, ideaRepo.ideas, 1)
	assert.Equal(t, "Make a part two on the same hook", ideaRepo.ideas[0].Title)
	assert.Equal(t, []string{"TikTok"}, ideaRepo.ideas[0].Platforms)

	update := videoRepo.lastUpdate(video.ID)
	require.NotNil(t, update)
	assert.Equal(t, true, update["follow_up_created"])
	assert.Equal(t, ideaRepo.ideas[0].ID, update["follow_up_idea_id"])
	assert.True(t, video.FollowUpCreated)
}

func TestRunCycleSkipsFollowUpWhenSuggestionIsNone(t *testing.T) {
	at := time.Now().AddDate(0, 0, -1)
	video := &model.TrackedVideo{
		Title:          "week old clip",
		Platform:       "TikTok",
		NativeID:       "tt1",
		PostedAt:       time.Now().AddDate(0, 0, -8),
		Day1:           recordedMilestone(500, "done", at),
		Day7:           recordedMilestone(600, "", at),
		CreateFollowUp: true,
	}
	videoRepo := newFakeVideoRepo(video)
	ideaRepo := newFakeIdeaRepo()
	gen := &fakeGenerator{results: []genResult{{text: milestoneResponse(40, "None")}}}
	svc, _ := newCycleFixture(videoRepo, ideaRepo, gen)

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(0), stats.FollowUpsCreated)
	assert.Empty(t, ideaRepo.ideas)
}

func TestRunCycleSkipsFollowUpWhenDisabledOrDone(t *testing.T) {
	at := time.Now().AddDate(0, 0, -1)
	disabled := &model.TrackedVideo{
		Title:    "opt-out",
		Platform: "TikTok",
		NativeID: "tt1",
		PostedAt: time.Now().AddDate(0, 0, -8),
		Day1:     recordedMilestone(500, "done", at),
		Day7:     recordedMilestone(600, "", at),
	}
	already := &model.TrackedVideo{
		Title:           "already followed up",
		Platform:        "TikTok",
		NativeID:        "tt2",
		PostedAt:        time.Now().AddDate(0, 0, -8),
		Day1:            recordedMilestone(500, "done", at),
		Day7:            recordedMilestone(600, "", at),
		CreateFollowUp:  true,
		FollowUpCreated: true,
	}
	videoRepo := newFakeVideoRepo(disabled, already)
	ideaRepo := newFakeIdeaRepo()
	gen := &fakeGenerator{results: []genResult{{text: milestoneResponse(60, "A concrete follow up")}}}
	svc, _ := newCycleFixture(videoRepo, ideaRepo, gen)

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(2), stats.MilestonesAnalyzed)
	assert.Equal(t, int64(0), stats.FollowUpsCreated)
	assert.Empty(t, ideaRepo.ideas)
}

func TestRunCyclePropagatesPerformanceAtDayThirty(t *testing.T) {
	at := time.Now().AddDate(0, 0, -1)
	source := &model.Idea{Title: "the source idea", Status: model.IdeaStatusPosted}
	ideaRepo := newFakeIdeaRepo(source)

	video := &model.TrackedVideo{
		Title:    "month old clip",
		Platform: "YouTube",
		NativeID: "yt1",
		PostedAt: time.Now().AddDate(0, 0, -31),
		IdeaID:   &source.ID,
		Day1:     recordedMilestone(100, "done", at),
		Day7:     recordedMilestone(900, "done", at),
		Day30:    recordedMilestone(15000, "", at),
	}
	videoRepo := newFakeVideoRepo(video)
	gen := &fakeGenerator{results: []genResult{{text: milestoneResponse(91, "None")}}}
	svc, locker := newCycleFixture(videoRepo, ideaRepo, gen)

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(1), stats.MilestonesAnalyzed)

	update := ideaRepo.lastUpdate(source.ID)
	require.NotNil(t, update)
	assert.Equal(t, 91, update["observed_score"])
	assert.Contains(t, locker.keys, source.ID.Hex())
}

func TestRunCycleDayZeroDoesNothing(t *testing.T) {
	video := &model.TrackedVideo{
		Title:    "posted today",
		Platform: "YouTube",
		NativeID: "yt1",
		PostedAt: time.Now().Add(-2 * time.Hour),
	}
	videoRepo := newFakeVideoRepo(video)
	svc, _ := newCycleFixture(videoRepo, newFakeIdeaRepo(), &fakeGenerator{})

	stats := svc.RunCycle(context.Background())
	assert.Equal(t, int64(1), stats.VideosChecked)
	assert.Equal(t, int64(0), stats.MilestonesRecorded)
	assert.Nil(t, videoRepo.lastUpdate(video.ID))
}
