package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/minutepro/iep-minutes-api/api/swagger"
	"github.com/minutepro/iep-minutes-api/internal/handler"
	"github.com/minutepro/iep-minutes-api/internal/middleware"
	"github.com/minutepro/iep-minutes-api/internal/repository"
	"github.com/minutepro/iep-minutes-api/internal/service"
	"github.com/minutepro/iep-minutes-api/pkg/cache"
	"github.com/minutepro/iep-minutes-api/pkg/config"
	"github.com/minutepro/iep-minutes-api/pkg/database"
	"github.com/minutepro/iep-minutes-api/pkg/jobs"
	"github.com/minutepro/iep-minutes-api/pkg/logger"
	corsmiddleware "github.com/minutepro/iep-minutes-api/pkg/middleware/cors"
	reqidmiddleware "github.com/minutepro/iep-minutes-api/pkg/middleware/requestid"
	"github.com/minutepro/iep-minutes-api/pkg/storage"
)

// @title IEP Minutes API
// @version 0.1.0
// @description Service-minute tracking and goal reporting for special-education teams
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, true)
		}
	}

	staffRepo := repository.NewStaffRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	logRepo := repository.NewSessionLogRepository(db)
	jobRepo := repository.NewReportJobRepository(db)

	validate := validator.New()
	staffSvc := service.NewStaffService(staffRepo, cacheSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, logRepo, cacheSvc, validate, logr)
	logSvc := service.NewLogService(logRepo, staffRepo, cacheSvc, metrics, validate, logr)
	reportSvc := service.NewReportService(logRepo, staffRepo, studentRepo, cacheSvc, logr, service.ReportServiceConfig{
		CacheTTL: cfg.Reports.CacheTTL,
	})

	fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exporter := service.NewExportService(reportSvc, fileStore, signer, service.ExportConfig{
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil, nil)

	worker := service.NewExportWorker(jobRepo, exporter, metrics, cfg.Reports.WorkerRetries, logr)
	queue := jobs.NewQueue("report-exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})

	ctx := context.Background()
	queue.Start(ctx)
	defer queue.Stop()

	exportJobSvc := service.NewExportJobService(jobRepo, queue, exporter, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	exportJobSvc.RecoverPendingJobs(ctx)
	exportJobSvc.StartCleanup(ctx)

	if cfg.Seed.DefaultStaff {
		if err := staffSvc.Seed(ctx); err != nil {
			logr.Sugar().Warnw("default roster seeding failed", "error", err)
		}
	}

	staffHandler := handler.NewStaffHandler(staffSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	logHandler := handler.NewLogHandler(logSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/staff", staffHandler.List)
		api.POST("/staff", staffHandler.Create)
		api.PUT("/staff/:id", staffHandler.Rename)

		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PATCH("/students/:id", studentHandler.Update)
		api.PUT("/students/:id/subject/:subject", studentHandler.SetActiveSubject)
		api.DELETE("/students/:id", studentHandler.Delete)

		api.GET("/logs", logHandler.List)
		api.POST("/logs", logHandler.Create)
		api.POST("/logs/import", logHandler.Import)

		api.GET("/reports/summary", reportHandler.Summary)
		api.GET("/reports/students/:id/progress", reportHandler.StudentProgress)
		api.GET("/reports/goal-series", reportHandler.GoalSeries)

		api.POST("/reports/export", exportHandler.Create)
		api.GET("/reports/export/:id", exportHandler.Status)
		api.GET("/reports/export/:id/download", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
