package repository

import (
	"CreatorPulse/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CredentialRepo interface {
	Get(ctx context.Context, platform string) (*model.PlatformCredentials, error)
	Save(ctx context.Context, creds *model.PlatformCredentials) error
}

type credentialRepoImpl struct {
	col *mongo.Collection
}

func NewCredentialRepo(db *mongo.Database, collection string) CredentialRepo {
	return &credentialRepoImpl{
		col: db.Collection(collection),
	}
}

func (s *credentialRepoImpl) Get(ctx context.Context, platform string) (*model.PlatformCredentials, error) {
	var creds model.PlatformCredentials
	err := s.col.FindOne(ctx, bson.M{"platform": platform}).Decode(&creds)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

// Save 每个平台单条记录，upsert 覆盖
func (s *credentialRepoImpl) Save(ctx context.Context, creds *model.PlatformCredentials) error {
	creds.LastRefreshedAt = time.Now()
	_, err := s.col.UpdateOne(ctx,
		bson.M{"platform": creds.Platform},
		bson.M{"$set": bson.M{
			"platform":                 creds.Platform,
			"access_token":             creds.AccessToken,
			"refresh_token":            creds.RefreshToken,
			"access_token_expires_at":  creds.AccessTokenExpiresAt,
			"refresh_token_expires_at": creds.RefreshTokenExpiresAt,
			"last_refreshed_at":        creds.LastRefreshedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}
