// @title Pawcheck API
// @version 1.0
// @description Dog health self-assessment: question bank, scoring, suspected conditions and per-pet history.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pawcheck/internal/adapter"
	"pawcheck/internal/cache"
	"pawcheck/internal/config"
	"pawcheck/internal/database"
	"pawcheck/internal/domain"
	"pawcheck/internal/filestore"
	"pawcheck/internal/handler"
	"pawcheck/internal/logger"
	"pawcheck/internal/middleware"
	"pawcheck/internal/questionbank"
	"pawcheck/internal/repository"
	"pawcheck/internal/service"

	_ "pawcheck/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()
	if src := cfg.Source(); src != "" {
		appLogger.Info("Configuration loaded", zap.String("file", src))
	}

	ctx := context.Background()

	bank, err := loadBank(cfg.Assessment.BankPath)
	if err != nil {
		appLogger.Fatal("Failed to load question bank", zap.Error(err))
	}
	appLogger.Info("Question bank loaded", zap.String("version", bank.Version), zap.Int("questions", len(bank.Questions)))

	// Redis is optional unless it is the recorder; without it the commit
	// retry path is disabled.
	var (
		redisClient  *redis.Client
		cacheAdapter domain.Cache
	)
	if cfg.Redis.Address != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			if cfg.Assessment.Recorder == config.RecorderRedis {
				appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			appLogger.Warn("Redis unavailable, pending results will not be cached", zap.Error(err))
		} else {
			appLogger.Info("Successfully connected to Redis")
			cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
			defer redisClient.Close()
		}
	}

	var db *sqlx.DB
	var recorder domain.AssessmentRecorder
	switch cfg.Assessment.Recorder {
	case config.RecorderSQL:
		db, err = database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		recorder = repository.NewAssessmentRepository(db, repository.NewTransactionManagerAdapter(db), cfg.Assessment.HistoryLimit)
	case config.RecorderRedis:
		if cacheAdapter == nil {
			appLogger.Fatal("Redis recorder selected but redis.address is empty")
		}
		recorder = service.NewCacheHistoryRecorder(cacheAdapter, cfg.Assessment.HistoryLimit)
	case config.RecorderFile:
		recorder = filestore.NewRecorder(cfg.Assessment.HistoryFile, cfg.Assessment.HistoryLimit)
	}
	appLogger.Info("Assessment recorder initialized", zap.String("recorder", cfg.Assessment.Recorder))

	var pending service.PendingResultCache
	if cacheAdapter != nil {
		pending = service.NewPendingResultCache(cacheAdapter, cfg.Assessment.PendingTTL)
	}

	assessmentService := service.NewAssessmentService(bank, recorder, pending, cfg.Assessment.HistoryLimit)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, cfg.Assessment.HistoryLimit)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(), // Global error handler
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + middleware.HeaderRequestID,
		ExposeHeaders: middleware.HeaderRequestID,
		MaxAge:        300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		if cacheAdapter != nil {
			if err := cacheAdapter.Ping(c.UserContext()); err != nil {
				return domain.NewError(domain.CodeInternal, "redis unreachable", err)
			}
		}
		if db != nil {
			if err := db.PingContext(c.UserContext()); err != nil {
				return domain.NewError(domain.CodeInternal, "database unreachable", err)
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "bank_version": bank.Version})
	})

	assessmentHandler.RegisterRoutes(app.Group("/api"))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func loadBank(path string) (*domain.QuestionBank, error) {
	if path == "" {
		return questionbank.Default()
	}
	bank, err := questionbank.Load(path)
	if err != nil {
		return nil, fmt.Errorf("bank %s: %w", path, err)
	}
	return bank, nil
}
