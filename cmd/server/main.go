package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/shiftops/roster-api/api/swagger"
	"github.com/shiftops/roster-api/internal/handler"
	"github.com/shiftops/roster-api/internal/middleware"
	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/repository"
	"github.com/shiftops/roster-api/internal/service"
	"github.com/shiftops/roster-api/pkg/cache"
	"github.com/shiftops/roster-api/pkg/config"
	"github.com/shiftops/roster-api/pkg/database"
	"github.com/shiftops/roster-api/pkg/logger"
	"github.com/shiftops/roster-api/pkg/mailer"
	corsmiddleware "github.com/shiftops/roster-api/pkg/middleware/cors"
	reqidmiddleware "github.com/shiftops/roster-api/pkg/middleware/requestid"
	"github.com/shiftops/roster-api/pkg/storage"
)

// @title Roster API
// @version 0.1.0
// @description Shift scheduling and notification service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// View caching is an optimisation; the API works without it.
		logr.Warn("redis unavailable, view caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()

	shiftRepo := repository.NewShiftRepository(db)
	personRepo := repository.NewPersonRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	mailClient := mailer.NewClient(cfg.Mail)

	notificationSvc := service.NewNotificationService(shiftRepo, personRepo, mailClient, metricsSvc, logr, service.NotificationConfig{
		Workers:      cfg.Notify.Workers,
		BufferSize:   cfg.Notify.BufferSize,
		MaxRetries:   cfg.Notify.MaxRetries,
		RetryDelay:   cfg.Notify.RetryDelay,
		SendTimeout:  cfg.Mail.SendTimeout,
		BulkThrottle: cfg.Notify.BulkThrottle,
	})

	queueCtx, queueCancel := context.WithCancel(context.Background())
	notificationSvc.Start(queueCtx)
	defer func() {
		queueCancel()
		notificationSvc.Stop()
	}()

	rosterSvc := service.NewRosterService(personRepo, logr)
	shiftSvc := service.NewShiftService(shiftRepo, rosterSvc, notificationSvc, cacheRepo, cfg.Cache.ViewTTL, validate, logr)
	authSvc := service.NewAuthService(personRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	exportSvc := service.NewExportService(shiftRepo, personRepo, nil, logr)
	if cfg.Export.Enabled {
		if archive, err := storage.NewLocalArchive(cfg.Export.Dir); err != nil {
			logr.Warn("export archive unavailable", zap.Error(err))
		} else {
			exportSvc = service.NewExportService(shiftRepo, personRepo, archive, logr)
		}
	}

	authHandler := handler.NewAuthHandler(authSvc)
	shiftHandler := handler.NewShiftHandler(shiftSvc, rosterSvc, exportSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/auth/login", authHandler.Login)

	authed := r.Group("", middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		admin := middleware.RequireRoles(models.RoleAdmin)
		staff := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

		shifts := authed.Group("/shifts")
		{
			shifts.GET("", admin, shiftHandler.List)
			shifts.POST("", admin, shiftHandler.Create)
			shifts.POST("/bulk", admin, shiftHandler.BulkCreate)
			shifts.POST("/assign-week", admin, shiftHandler.AssignWeek)
			shifts.GET("/eligible", admin, shiftHandler.Eligible)
			shifts.GET("/week", staff, shiftHandler.Weekly)
			if cfg.Export.Enabled {
				shifts.GET("/export", admin, shiftHandler.Export)
			}
			shifts.PUT("/:id", admin, shiftHandler.Update)
			shifts.DELETE("/:id", admin, shiftHandler.Delete)
		}

		persons := authed.Group("/persons/:personId")
		{
			self := middleware.RBAC(string(models.RoleAdmin), "SELF")
			persons.GET("/shifts", self, shiftHandler.PersonShifts)
			persons.GET("/shifts/three-weeks", self, shiftHandler.ThreeWeeks)
			persons.GET("/notifications/pending", self, notificationHandler.PendingToday)
		}

		notifications := authed.Group("/notifications", middleware.RequireRoles(models.RoleAdmin))
		{
			notifications.POST("/shifts/:id", notificationHandler.Notify)
			notifications.POST("/shifts/:id/remind", notificationHandler.Remind)
			notifications.POST("/bulk", notificationHandler.NotifyBulk)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
