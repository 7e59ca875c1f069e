package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformCredentials 单个平台的 OAuth token 对，每个平台一条记录
type PlatformCredentials struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Platform              string             `bson:"platform" json:"platform"`
	AccessToken           string             `bson:"access_token" json:"-"`
	RefreshToken          string             `bson:"refresh_token" json:"-"`
	AccessTokenExpiresAt  time.Time          `bson:"access_token_expires_at" json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time          `bson:"refresh_token_expires_at" json:"refresh_token_expires_at"`
	LastRefreshedAt       time.Time          `bson:"last_refreshed_at" json:"last_refreshed_at"`
}

// AccessTokenExpired 带安全缓冲地判断 access token 是否过期
func (c *PlatformCredentials) AccessTokenExpired(now time.Time, buffer time.Duration) bool {
	return !now.Add(buffer).Before(c.AccessTokenExpiresAt)
}
