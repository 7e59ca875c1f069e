package service

import (
	"CreatorPulse/internal/pkg/consts"
	"CreatorPulse/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// Locker 两条工作流可能同时写同一条创意（分析写回 与 D30 表现回流），
// 用短锁把这两类写互斥起来
type Locker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

type redisLocker struct{}

func NewRedisLocker() Locker {
	return &redisLocker{}
}

// WithLock 拿不到锁时跳过执行并记录，不阻塞整轮流程
func (s *redisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	lockKey := consts.IdeaLockKey + key
	token := uuid.NewString()

	ok, err := redis.TryLock(ctx, lockKey, token, 30*time.Second, 5)
	if err != nil {
		return err
	}
	if !ok {
		log.WarnContext(ctx, "idea lock busy, skipping write", "key", key)
		return nil
	}
	defer redis.UnLock(ctx, lockKey, token)

	return fn()
}
