// Package grpc gRPC 旁路：标准健康检查与调用日志
package grpc

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger 检查存储是否可达，*sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server gRPC 服务封装
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	logger     *zap.Logger
}

// NewServer 在指定端口创建 gRPC 服务
func NewServer(port int, log *zap.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("监听端口 %d 失败: %w", port, err)
	}
	return newServer(listener, log), nil
}

func newServer(listener net.Listener, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(log)),
	)

	healthServer := health.NewServer()
	// CheckReady 确认数据库可达之前为 NOT_SERVING
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     healthServer,
		logger:     log,
	}
}

// CheckReady ping 数据库并据此更新整体健康状态
func (s *Server) CheckReady(ctx context.Context, store Pinger) error {
	if err := store.PingContext(ctx); err != nil {
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		s.logger.Warn("database unreachable, reporting NOT_SERVING", zap.Error(err))
		return fmt.Errorf("数据库不可达: %w", err)
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Start 启动服务（阻塞）
func (s *Server) Start() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop 优雅停止
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr 返回监听地址
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}
