package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/autoprime/internal/api/backend"
	"github.com/langchou/autoprime/internal/api/handlers"
	"github.com/langchou/autoprime/internal/config"
	"github.com/langchou/autoprime/internal/repository"
	"github.com/langchou/autoprime/internal/service"
	"github.com/langchou/autoprime/internal/session"
	"github.com/langchou/autoprime/internal/view"
	"github.com/langchou/autoprime/pkg/ws"
)

// pruneInterval 会话清理间隔，redis 依赖 key 过期不需要清理
const pruneInterval = time.Hour

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting Auto Prime",
		zap.String("port", cfg.ServerPort),
		zap.String("backend", cfg.BackendBaseURL),
		zap.String("session_driver", cfg.SessionDriver),
	)

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 会话存储
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer closeStore()

	sessions := session.NewManager(store, logger, session.Options{
		MaxAge: cfg.SessionTTL,
		Secure: cfg.SessionCookieSecure,
	})

	// 后端 API 客户端，token 取自当前会话
	api := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, sessions)

	svc := handlers.Services{
		Cars:     service.NewCarService(api),
		Bookings: service.NewBookingService(api),
		Auth:     service.NewAuthService(api, sessions, logger),
		Contact:  service.NewContactService(api),
		Host:     service.NewHostService(api),
		Admin:    service.NewAdminService(api),
		User:     service.NewUserService(api),
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run(ctx)

	// 创建 HTTP 处理器
	handler, err := handlers.NewHandler(
		logger,
		sessions,
		svc,
		renderer,
		view.NewPartials(cfg.PartialsDir),
		wsHub,
		handlers.Options{
			AssetsDir:       cfg.AssetsDir,
			CORSOrigins:     cfg.CORSOrigins,
			RateLimitPerMin: cfg.RateLimitPerMin,
		},
	)
	if err != nil {
		logger.Fatal("Failed to build page registry", zap.Error(err))
	}

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestLogger(logger))
	router.Use(handlers.Metrics())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 关闭 WebSocket 连接
	cancel()

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// openStore 按 SESSION_DRIVER 创建会话存储，返回的 close 函数在退出时调用
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.SessionDriver {
	case config.SessionFile:
		store, err := repository.NewFileStore(cfg.SessionDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file session store", zap.String("dir", cfg.SessionDir))
		go pruneSessions(ctx, store, cfg.SessionTTL, logger)
		return store, func() {}, nil

	case config.SessionRedis:
		client, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis session store", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisStore(client, "", cfg.SessionTTL), func() { client.Close() }, nil

	case config.SessionPostgres:
		// 连接数据库
		db, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		// 执行数据库迁移
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database migrated successfully")

		store := repository.NewPostgresStore(db)
		go pruneSessions(ctx, store, cfg.SessionTTL, logger)
		return store, db.Close, nil
	}

	logger.Info("Using in-memory session store")
	store := repository.NewMemoryStore()
	go pruneSessions(ctx, store, cfg.SessionTTL, logger)
	return store, func() {}, nil
}

// pruneSessions 定期删除过期会话
func pruneSessions(ctx context.Context, store repository.Pruner, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx, ttl)
			if err != nil {
				logger.Warn("Failed to prune sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Pruned expired sessions", zap.Int64("count", n))
			}
		}
	}
}
