package database

import (
	"testing"

	"course_market_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedisUnreachable(t *testing.T) {
	cfg := &config.RedisConfig{Host: "127.0.0.1", Port: 1}
	assert.Equal(t, "127.0.0.1:1", RedisAddr(cfg))

	rdb, err := InitRedis(cfg)
	require.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
