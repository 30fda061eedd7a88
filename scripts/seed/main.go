package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/repository"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/cache"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/database"
	"github.com/noah-isme/course-registration-api/pkg/logger"
)

func main() {
	var (
		seedAdmin   bool
		seedCourses bool
		timeout     time.Duration
	)
	flag.BoolVar(&seedAdmin, "admin", true, "Create the bootstrap admin account when missing")
	flag.BoolVar(&seedCourses, "courses", true, "Upsert the default course catalog")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall seed timeout")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if seedAdmin {
		users := repository.NewUserRepository(db)
		admins := repository.NewAdminRepository(db)
		if err := ensureAdmin(ctx, users, admins, cfg.Seed, logr); err != nil {
			logr.Fatal("failed to seed admin", zap.Error(err))
		}
	}
	if seedCourses {
		courses := repository.NewCourseRepository(db)
		for i := range defaultCatalog {
			c := defaultCatalog[i]
			if err := courses.Upsert(ctx, &c); err != nil {
				logr.Fatal("failed to seed course", zap.String("code", c.Code), zap.Error(err))
			}
		}
		logr.Info("course catalog seeded", zap.Int("courses", len(defaultCatalog)))
		invalidateCatalog(ctx, cfg, courses, logr)
	}
}

func ensureAdmin(ctx context.Context, users *repository.UserRepository, admins *repository.AdminRepository, seed config.SeedConfig, logr *zap.Logger) error {
	if _, err := users.FindByEmail(ctx, seed.AdminEmail); err == nil {
		logr.Info("admin already exists", zap.String("email", seed.AdminEmail))
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	taken, err := admins.ExistsByAdminID(ctx, seed.AdminID)
	if err != nil {
		return err
	}
	if taken {
		logr.Warn("admin id already in use by another account, skipping", zap.String("admin_id", seed.AdminID))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{Email: seed.AdminEmail, PasswordHash: string(hash), Name: seed.AdminName, Role: models.RoleAdmin}
	if err := users.CreateAdmin(ctx, user, &models.AdminProfile{AdminID: seed.AdminID}); err != nil {
		return err
	}
	logr.Info("admin seeded", zap.String("email", seed.AdminEmail), zap.Int64("user_id", user.ID))
	return nil
}

// invalidateCatalog drops cached catalog listings so a running API serves the seeded rows.
func invalidateCatalog(ctx context.Context, cfg *config.Config, courses *repository.CourseRepository, logr *zap.Logger) {
	if !cfg.Cache.Enabled {
		return
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, catalog cache not invalidated", zap.Error(err))
		return
	}
	defer client.Close()

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(client, repository.DefaultCacheNamespace), nil, cfg.Cache.TTL, logr, true)
	service.NewCourseService(courses, nil, cacheSvc, cfg.Cache.TTL, nil, logr).InvalidateCatalog(ctx)
}
