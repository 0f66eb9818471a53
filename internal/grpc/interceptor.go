package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"terminal-terrace/conduit/internal/logger"
)

// UnaryLoggingInterceptor 注入带方法名的日志实例，并记录每次调用的结果
func UnaryLoggingInterceptor(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		l := base.With(zap.String("grpc_method", info.FullMethod))

		resp, err := handler(logger.NewContext(ctx, l), req)

		fields := []zap.Field{
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			l.Warn("grpc call failed", append(fields, zap.Error(err))...)
		} else {
			l.Info("grpc call", fields...)
		}
		return resp, err
	}
}
