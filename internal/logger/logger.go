// Package logger 构建全局使用的 zap 日志实例
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"terminal-terrace/conduit/config"
)

// New 根据配置创建日志实例，format 支持 json 与 console
func New(conf config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", conf.Level, err)
	}

	var zc zap.Config
	switch conf.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("无效的日志格式 %q", conf.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
