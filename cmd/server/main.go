package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"terminal-terrace/conduit/config"
	"terminal-terrace/conduit/internal/grpc"
	"terminal-terrace/conduit/internal/logger"
	"terminal-terrace/conduit/internal/model"
	"terminal-terrace/conduit/internal/route"
	"terminal-terrace/conduit/internal/session"
	"terminal-terrace/conduit/pkg/authsdk"
	"terminal-terrace/conduit/pkg/database"
)

const shutdownTimeout = 10 * time.Second

// @title Conduit API
// @version 1.0
// @description 文章、收藏与关注服务
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	configPath := os.Getenv("CONDUIT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	conf := config.MustLoad(configPath)

	log, err := logger.New(conf.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(conf, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(conf *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 初始化数据库
	db, err := database.Open(&database.Config{
		ServiceName:     "conduit",
		Driver:          conf.Database.Driver,
		Username:        conf.Database.Username,
		Password:        conf.Database.Password,
		Host:            conf.Database.Host,
		Port:            conf.Database.Port,
		Database:        conf.Database.Database,
		SSLMode:         conf.Database.SSLMode,
		LogLevel:        conf.Database.LogLevel,
		MaxIdleConns:    conf.Database.MaxIdleConns,
		MaxOpenConns:    conf.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(conf.Database.MaxLifetime) * time.Second,
		Logger:          log,
	})
	if err != nil {
		return err
	}
	if err := model.InitTable(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// 3. 令牌吊销，未配置 Redis 时关闭
	var revoker session.Revoker = session.NopRevoker{}
	if conf.Redis.Host != "" {
		rdb, err := database.InitRedis(ctx, &database.RedisConfig{
			ServiceName: "conduit",
			Host:        conf.Redis.Host,
			Port:        conf.Redis.Port,
			Password:    conf.Redis.Password,
			DB:          conf.Redis.DB,
			PoolSize:    conf.Redis.PoolSize,
			Logger:      log,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		revoker = session.NewRedisRevoker(rdb)
	} else {
		log.Warn("redis not configured, logout will not revoke tokens")
	}

	tokens, err := authsdk.NewTokenManager(conf.JWT.Secret, time.Duration(conf.JWT.ExpireTime)*time.Hour)
	if err != nil {
		return err
	}

	// 4. 设置路由
	gin.SetMode(conf.Server.Mode)
	r := route.SetupRouter(route.Deps{
		DB:             db,
		Logger:         log,
		Tokens:         tokens,
		Revoker:        revoker,
		AllowedOrigins: conf.Server.AllowedOrigins,
		MaxListLimit:   conf.Article.MaxListLimit,
	})

	httpServer := &http.Server{
		Addr:         conf.Addr(),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	// 5. 启动服务
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if conf.GRPC.Port > 0 {
		grpcServer, err := grpc.NewServer(conf.GRPC.Port, log)
		if err != nil {
			return err
		}
		if err := grpcServer.CheckReady(ctx, sqlDB); err != nil {
			log.Warn("grpc health starts as NOT_SERVING", zap.Error(err))
		}

		g.Go(func() error {
			log.Info("grpc server listening", zap.String("addr", grpcServer.GetAddr()))
			return grpcServer.Start()
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.Stop()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
