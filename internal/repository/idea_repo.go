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

type IdeaRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Idea, error)
	FindEligible(ctx context.Context) ([]*model.Idea, error)
	Create(ctx context.Context, idea *model.Idea) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Archive(ctx context.Context, id primitive.ObjectID) error
	CountAnalyzedSince(ctx context.Context, since time.Time) (int64, error)
}

type ideaRepoImpl struct {
	col *mongo.Collection
}

func NewIdeaRepo(db *mongo.Database, collection string) IdeaRepo {
	return &ideaRepoImpl{
		col: db.Collection(collection),
	}
}

func (s *ideaRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Idea, error) {
	var idea model.Idea
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&idea)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &idea, nil
}

// FindEligible 选出待分析创意：(分数为空 或 标记重分析) 且 未发布 且 未归档
func (s *ideaRepoImpl) FindEligible(ctx context.Context) ([]*model.Idea, error) {
	filter := bson.M{
		"archived": bson.M{"$ne": true},
		"status":   bson.M{"$ne": model.IdeaStatusPosted},
		"$or": bson.A{
			bson.M{"virality_score": bson.M{"$exists": false}},
			bson.M{"virality_score": nil},
			bson.M{"needs_reanalysis": true},
		},
	}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	ideas := make([]*model.Idea, 0)
	if err := cursor.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (s *ideaRepoImpl) Create(ctx context.Context, idea *model.Idea) (primitive.ObjectID, error) {
	now := time.Now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	if idea.Status == "" {
		idea.Status = model.IdeaStatusNew
	}

	res, err := s.col.InsertOne(ctx, idea)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Update 按 id 局部更新，只动给到的字段
func (s *ideaRepoImpl) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}

// Archive 软删除，归档后不再被任何查询命中
func (s *ideaRepoImpl) Archive(ctx context.Context, id primitive.ObjectID) error {
	return s.Update(ctx, id, bson.M{"archived": true})
}

func (s *ideaRepoImpl) CountAnalyzedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{
		"last_analyzed_at": bson.M{"$gte": since},
	})
}
