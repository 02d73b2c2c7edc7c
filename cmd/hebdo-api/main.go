package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hebdo-app/hebdo-api/api/swagger"
	"github.com/hebdo-app/hebdo-api/internal/handler"
	"github.com/hebdo-app/hebdo-api/internal/ical"
	"github.com/hebdo-app/hebdo-api/internal/middleware"
	"github.com/hebdo-app/hebdo-api/internal/repository"
	"github.com/hebdo-app/hebdo-api/internal/scheduler"
	"github.com/hebdo-app/hebdo-api/internal/service"
	"github.com/hebdo-app/hebdo-api/pkg/cache"
	"github.com/hebdo-app/hebdo-api/pkg/config"
	"github.com/hebdo-app/hebdo-api/pkg/database"
	"github.com/hebdo-app/hebdo-api/pkg/logger"
	corsmiddleware "github.com/hebdo-app/hebdo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hebdo-app/hebdo-api/pkg/middleware/requestid"
)

// @title Hebdo API
// @version 0.1.0
// @description Weekly activity planner with calendar integration
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Feed.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	engine := scheduler.NewEngine(scheduler.FromConfig(cfg.Planner), logr)
	fetchClient := ical.NewClient(cfg.Calendar.FetchTimeout, logr)

	activityRepo := repository.NewActivityRepository(db)
	activitySvc := service.NewActivityService(activityRepo, cacheSvc, nil, logr)
	planSvc := service.NewPlanService(activityRepo, fetchClient, engine, cacheSvc, metricsSvc, cfg.Calendar.SourceURLs, cfg.Feed.CacheTTL, logr)
	feedSvc := service.NewFeedService(planSvc, ical.NewFeedBuilder(), cacheSvc, cfg.Feed, logr)
	exportSvc := service.NewExportService(planSvc, nil, nil, logr)

	activityHandler := handler.NewActivityHandler(activitySvc)
	planHandler := handler.NewPlanHandler(planSvc, exportSvc)
	feedHandler := handler.NewFeedHandler(feedSvc)
	systemHandler := handler.NewSystemHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.GET("/calendar/feed.ics", feedHandler.Feed)

	api := r.Group("/api/v1")
	{
		api.GET("/activities", activityHandler.List)
		api.POST("/activities", activityHandler.Create)
		api.GET("/activities/:id", activityHandler.Get)
		api.PUT("/activities/:id", activityHandler.Update)
		api.DELETE("/activities/:id", activityHandler.Delete)

		api.GET("/plan", planHandler.Get)
		api.GET("/plan/export", planHandler.Export)

		api.POST("/feed/token", feedHandler.IssueToken)

		api.GET("/system/stats", systemHandler.Stats)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
