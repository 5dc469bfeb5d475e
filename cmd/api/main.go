// @title           Kanban Chat API
// @version         1.0
// @description     칸반 보드와 1:1 채팅 API
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kanban-chat-api/internal/auth"
	"kanban-chat-api/internal/config"
	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/hub"
	"kanban-chat-api/internal/job"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/router"
	"kanban-chat-api/internal/storage"
)

// debugSecret signs tokens when no secret is configured in debug mode
const debugSecret = "insecure-debug-secret"

func main() {
	// Load configuration
	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Kanban Chat API",
		zap.String("address", cfg.Addr()),
		zap.String("mode", cfg.Server.Mode),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(logger)

	db, err := database.New(database.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	stopDBStats := database.StartDBStatsCollector(db, m, 15*time.Second)

	if cfg.Database.RunMigrations {
		if err := database.SafeAutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to run auto migration", zap.Error(err))
		}
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to apply SQL migrations", zap.Error(err))
		}
	}

	blobs, err := storage.Open(ctx, cfg, m)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		logger.Warn("jwt.secret is empty, using an insecure debug secret")
		secret = debugSecret
	}
	tokens := auth.NewTokenManager(secret, cfg.JWT.TTL)

	store := repository.NewStore(db)
	services := router.NewServices(store, blobs, tokens, cfg.Hub.RequireFriendship, m, logger)

	persister := hub.NewPersister(services.Conversations, cfg.Hub.PersistBuffer, m, logger)
	persisterDone := make(chan struct{})
	go func() {
		defer close(persisterDone)
		persister.Run(ctx)
	}()

	var redisClient *redis.Client
	hubOpts := hub.Options{SendBuffer: cfg.Hub.SendBuffer}
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, chat fan-out stays local", zap.Error(err))
		} else {
			hubOpts.Relay = hub.NewRedisRelay(redisClient, logger)
		}
	}

	chatHub := hub.New(services.Auth, services.Conversations, persister, hubOpts, m, logger)
	if hubOpts.Relay != nil {
		go func() {
			if err := chatHub.RunRelay(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Chat relay stopped", zap.Error(err))
			}
		}()
	}

	collector := metrics.NewBusinessMetricsCollector(db, m, logger, time.Minute)
	collector.Start()

	scheduler := job.NewScheduler(logger)
	sweep := job.NewOrphanSweep(store, blobs, cfg.Jobs.OrphanGracePeriod, m, logger)
	if err := scheduler.Add("orphan_sweep", cfg.Jobs.OrphanSweepSchedule, sweep); err != nil {
		logger.Fatal("Failed to schedule orphan sweep", zap.Error(err))
	}
	scheduler.Start()

	r := router.Setup(router.Config{
		Store:          store,
		Services:       services,
		Hub:            chatHub,
		Redis:          redisClient,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CookieTTL:      cfg.JWT.TTL,
		EnableSwagger:  cfg.Server.Mode != "release",
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Kanban Chat API started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Stops the relay subscription and lets the persister drain its queue
	cancel()
	select {
	case <-persisterDone:
	case <-shutdownCtx.Done():
		logger.Warn("Persister did not drain before shutdown timeout")
	}

	scheduler.Stop(shutdownCtx)
	collector.Stop()
	close(stopDBStats)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
