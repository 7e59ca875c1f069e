package repository

import (
	"CreatorPulse/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VideoRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.TrackedVideo, error)
	FindByNativeID(ctx context.Context, platform, nativeID string) (*model.TrackedVideo, error)
	ListActive(ctx context.Context) ([]*model.TrackedVideo, error)
	ListActiveByPlatform(ctx context.Context, platform string) ([]*model.TrackedVideo, error)
	CreateIfAbsent(ctx context.Context, video *model.TrackedVideo) (primitive.ObjectID, bool, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
}

type videoRepoImpl struct {
	col *mongo.Collection
}

func NewVideoRepo(db *mongo.Database, collection string) VideoRepo {
	return &videoRepoImpl{
		col: db.Collection(collection),
	}
}

func (s *videoRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*model.TrackedVideo, error) {
	var video model.TrackedVideo
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (s *videoRepoImpl) FindByNativeID(ctx context.Context, platform, nativeID string) (*model.TrackedVideo, error) {
	var video model.TrackedVideo
	err := s.col.FindOne(ctx, bson.M{"platform": platform, "native_id": nativeID}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (s *videoRepoImpl) ListActive(ctx context.Context) ([]*model.TrackedVideo, error) {
	return s.list(ctx, bson.M{"status": bson.M{"$ne": model.VideoStatusArchived}})
}

func (s *videoRepoImpl) ListActiveByPlatform(ctx context.Context, platform string) ([]*model.TrackedVideo, error) {
	return s.list(ctx, bson.M{
		"platform": platform,
		"status":   bson.M{"$ne": model.VideoStatusArchived},
	})
}

func (s *videoRepoImpl) list(ctx context.Context, filter bson.M) ([]*model.TrackedVideo, error) {
	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "posted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	videos := make([]*model.TrackedVideo, 0)
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// CreateIfAbsent 以 (platform, native_id) 作幂等键，插入前再查一次；
// 已存在则返回既有记录 id。两个并发同步之间仍有竞态窗口，属已知取舍
func (s *videoRepoImpl) CreateIfAbsent(ctx context.Context, video *model.TrackedVideo) (primitive.ObjectID, bool, error) {
	existing, err := s.FindByNativeID(ctx, video.Platform, video.NativeID)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now
	if video.Status == "" {
		video.Status = model.VideoStatusTracking
	}

	res, err := s.col.InsertOne(ctx, video)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return res.InsertedID.(primitive.ObjectID), true, nil
}

func (s *videoRepoImpl) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}
