package logger

import (
	"testing"

	"course_market_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolveLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	assert.Equal(t, zap.DebugLevel, ResolveLevel(cfg))

	cfg.Server.Mode = "release"
	assert.Equal(t, zap.InfoLevel, ResolveLevel(cfg))

	cfg.Log.Level = "warn"
	assert.Equal(t, zap.WarnLevel, ResolveLevel(cfg))

	cfg.Log.Level = "nonsense"
	assert.Equal(t, zap.InfoLevel, ResolveLevel(cfg))
}

func TestSetLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	SetLevel(cfg)
	assert.Equal(t, zap.ErrorLevel, Level())

	cfg.Log.Level = "info"
	SetLevel(cfg)
	assert.Equal(t, zap.InfoLevel, Level())
}
