// Package session 记录已注销的令牌
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked_token:"

// Revoker 令牌吊销接口
type Revoker interface {
	// Revoke 吊销记录保留到令牌过期为止
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevoker 基于 Redis 的吊销列表
type RedisRevoker struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRevoker 创建实例
func NewRedisRevoker(client redis.Cmdable) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id is empty")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// 已过期的令牌无需记录
		return nil
	}
	if err := r.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("写入吊销记录失败: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("查询吊销记录失败: %w", err)
	}
	return n > 0, nil
}

// NopRevoker 未配置 Redis 时使用，注销不生效
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (NopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
