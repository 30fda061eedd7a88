package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-registration-api/api/swagger"
	"github.com/noah-isme/course-registration-api/internal/handler"
	"github.com/noah-isme/course-registration-api/internal/repository"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/cache"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/database"
	"github.com/noah-isme/course-registration-api/pkg/logger"
)

// @title Course Registration API
// @version 1.0.0
// @description Course registration with an admission window and teacher verification.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, repository.DefaultCacheNamespace),
		metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil,
	)

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	admins := repository.NewAdminRepository(db)
	courses := repository.NewCourseRepository(db)
	windows := repository.NewWindowRepository(db)
	temps := repository.NewTempRegistrationRepository(db)
	registrations := repository.NewRegistrationRepository(db)

	authSvc := service.NewAuthService(users, students, teachers, admins, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	windowSvc := service.NewWindowService(windows, cacheSvc, validate, logr)
	mappingSvc := service.NewMappingService(students, teachers, validate, logr)
	courseSvc := service.NewCourseService(courses, students, cacheSvc, cfg.Cache.TTL, validate, logr)
	registrationSvc := service.NewRegistrationService(
		students, courses, temps, registrations, windowSvc, metrics, validate, logr,
		service.RegistrationConfig{DefaultMode: cfg.Registration.DefaultMode},
	)
	exportSvc := service.NewExportService(registrations, students, logr, nil, nil)

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	router := newRouter(cfg, logr, routerDeps{
		auth:     authSvc,
		metrics:  metrics,
		authH:    handler.NewAuthHandler(authSvc),
		windowH:  handler.NewWindowHandler(windowSvc),
		adminH:   handler.NewAdminHandler(mappingSvc),
		courseH:  handler.NewCourseHandler(courseSvc),
		studentH: handler.NewStudentHandler(registrationSvc, exportSvc, mappingSvc),
		teacherH: handler.NewTeacherHandler(registrationSvc, mappingSvc),
		metricsH: handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
