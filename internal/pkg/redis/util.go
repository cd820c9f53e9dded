package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", nil
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Del(ctx, key).Err()
}

// HSet 设置哈希字段
func HSet(ctx context.Context, key, field string, value interface{}) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.HSet(ctx, key, field, value).Err()
}

// HGetAll 获取哈希的全部字段
func HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if Rdb == nil {
		return nil, nil
	}
	value, err := Rdb.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// HDel 删除哈希字段
func HDel(ctx context.Context, key string, fields ...string) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.HDel(ctx, key, fields...).Err()
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
