package database

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/pkg/logger"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	redisPingTimeout = 3 * time.Second
	redisPoolSize    = 50
	redisMinIdle     = 5
)

// RedisAddr host:port 形式的地址
func RedisAddr(cfg *config.RedisConfig) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// InitRedis 连接限流使用的 Redis；连不上时关闭客户端并返回错误，由调用方决定降级
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	addr := RedisAddr(cfg)
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdle,
		DialTimeout:  redisPingTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	logger.Log.Info("Redis connection established", zap.String("addr", addr), zap.Int("db", cfg.DB))
	return rdb, nil
}
