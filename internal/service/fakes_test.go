package service

import (
	"CreatorPulse/internal/model"
	"CreatorPulse/internal/platform"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeIdeaRepo 内存创意库，记录每次 Update 的字段集供断言
type fakeIdeaRepo struct {
	ideas     []*model.Idea
	updates   map[primitive.ObjectID][]bson.M
	createErr error
	findErr   error
}

func newFakeIdeaRepo(ideas ...*model.Idea) *fakeIdeaRepo {
	r := &fakeIdeaRepo{updates: make(map[primitive.ObjectID][]bson.M)}
	for _, idea := range ideas {
		if idea.ID.IsZero() {
			idea.ID = primitive.NewObjectID()
		}
		r.ideas = append(r.ideas, idea)
	}
	return r
}

func (s *fakeIdeaRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Idea, error) {
	for _, idea := range s.ideas {
		if idea.ID == id {
			return idea, nil
		}
	}
	return nil, nil
}

func (s *fakeIdeaRepo) FindEligible(ctx context.Context) ([]*model.Idea, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := make([]*model.Idea, 0)
	for _, idea := range s.ideas {
		if !idea.Archived && idea.EligibleForAnalysis() {
			out = append(out, idea)
		}
	}
	return out, nil
}

func (s *fakeIdeaRepo) Create(ctx context.Context, idea *model.Idea) (primitive.ObjectID, error) {
	if s.createErr != nil {
		return primitive.NilObjectID, s.createErr
	}
	idea.ID = primitive.NewObjectID()
	if idea.Status == "" {
		idea.Status = model.IdeaStatusNew
	}
	s.ideas = append(s.ideas, idea)
	return idea.ID, nil
}

func (s *fakeIdeaRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	s.updates[id] = append(s.updates[id], fields)
	return nil
}

func (s *fakeIdeaRepo) Archive(ctx context.Context, id primitive.ObjectID) error {
	for _, idea := range s.ideas {
		if idea.ID == id {
			idea.Archived = true
		}
	}
	return nil
}

func (s *fakeIdeaRepo) CountAnalyzedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, idea := range s.ideas {
		if idea.LastAnalyzedAt != nil && !idea.LastAnalyzedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *fakeIdeaRepo) lastUpdate(id primitive.ObjectID) bson.M {
	list := s.updates[id]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// fakeVideoRepo 内存视频库，CreateIfAbsent 以 (platform, native_id) 去重
type fakeVideoRepo struct {
	videos  []*model.TrackedVideo
	updates map[primitive.ObjectID][]bson.M
}

func newFakeVideoRepo(videos ...*model.TrackedVideo) *fakeVideoRepo {
	r := &fakeVideoRepo{updates: make(map[primitive.ObjectID][]bson.M)}
	for _, v := range videos {
		if v.ID.IsZero() {
			v.ID = primitive.NewObjectID()
		}
		if v.Status == "" {
			v.Status = model.VideoStatusTracking
		}
		r.videos = append(r.videos, v)
	}
	return r
}

func (s *fakeVideoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.TrackedVideo, error) {
	for _, v := range s.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (s *fakeVideoRepo) FindByNativeID(ctx context.Context, platform, nativeID string) (*model.TrackedVideo, error) {
	for _, v := range s.videos {
		if v.Platform == platform && v.NativeID == nativeID {
			return v, nil
		}
	}
	return nil, nil
}

func (s *fakeVideoRepo) ListActive(ctx context.Context) ([]*model.TrackedVideo, error) {
	out := make([]*model.TrackedVideo, 0)
	for _, v := range s.videos {
		if v.Status != model.VideoStatusArchived {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVideoRepo) ListActiveByPlatform(ctx context.Context, platform string) ([]*model.TrackedVideo, error) {
	out := make([]*model.TrackedVideo, 0)
	for _, v := range s.videos {
		if v.Platform == platform && v.Status != model.VideoStatusArchived {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVideoRepo) CreateIfAbsent(ctx context.Context, video *model.TrackedVideo) (primitive.ObjectID, bool, error) {
	existing, _ := s.FindByNativeID(ctx, video.Platform, video.NativeID)
	if existing != nil {
		return existing.ID, false, nil
	}
	video.ID = primitive.NewObjectID()
	if video.Status == "" {
		video.Status = model.VideoStatusTracking
	}
	s.videos = append(s.videos, video)
	return video.ID, true, nil
}

func (s *fakeVideoRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	s.updates[id] = append(s.updates[id], fields)
	return nil
}

func (s *fakeVideoRepo) lastUpdate(id primitive.ObjectID) bson.M {
	list := s.updates[id]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// fakePlatform 可编排目录与指标响应的平台桩
type fakePlatform struct {
	name       string
	items      []platform.CatalogItem
	metrics    map[string]model.MetricSnapshot
	listErr    error
	metricsErr error
}

func (s *fakePlatform) Name() string {
	return s.name
}

func (s *fakePlatform) ListRecentVideos(ctx context.Context, limit int) ([]platform.CatalogItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

func (s *fakePlatform) FetchMetrics(ctx context.Context, nativeIDs []string) (map[string]model.MetricSnapshot, error) {
	if s.metricsErr != nil {
		return nil, s.metricsErr
	}
	out := make(map[string]model.MetricSnapshot, len(nativeIDs))
	for _, id := range nativeIDs {
		if snap, ok := s.metrics[id]; ok {
			out[id] = snap
		}
	}
	return out, nil
}

type genResult struct {
	text string
	err  error
}

// fakeGenerator 按调用顺序吐预置响应，超出后复用最后一条
type fakeGenerator struct {
	results     []genResult
	calls       int
	userPrompts []string
}

func (s *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, temp float64) (string, error) {
	s.calls++
	s.userPrompts = append(s.userPrompts, userPrompt)

	idx := s.calls - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	if idx < 0 {
		return "", nil
	}
	return s.results[idx].text, s.results[idx].err
}

// recordingLocker 直接执行回调，记录用过的锁键
type recordingLocker struct {
	keys []string
}

func (s *recordingLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	s.keys = append(s.keys, key)
	return fn()
}
