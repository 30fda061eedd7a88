package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/handler"
	"github.com/noah-isme/course-registration-api/internal/middleware"
	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-registration-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth     middleware.TokenValidator
	metrics  *service.MetricsService
	authH    *handler.AuthHandler
	windowH  *handler.WindowHandler
	adminH   *handler.AdminHandler
	courseH  *handler.CourseHandler
	studentH *handler.StudentHandler
	teacherH *handler.TeacherHandler
	metricsH *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.metrics, "/metrics", "/health"))

	r.GET("/health", d.metricsH.Health)
	r.GET("/ready", d.metricsH.Ready)
	r.GET("/metrics", d.metricsH.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	jwt := middleware.JWT(d.auth)

	auth := api.Group("/auth")
	auth.POST("/signup", d.authH.Signup)
	auth.POST("/login", d.authH.Login)
	auth.GET("/profile", jwt, d.authH.Profile)

	api.GET("/registration/window", d.windowH.State)
	api.GET("/courses/:semester/:dept", d.courseH.Catalog)

	admin := api.Group("/admin", jwt, middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/registration/window", middleware.RequireAction(models.ActionSetWindow), d.windowH.Set)
	admin.GET("/students", middleware.RequireAction(models.ActionViewDirectory), d.adminH.Students)
	admin.GET("/teachers", middleware.RequireAction(models.ActionViewDirectory), d.adminH.Teachers)
	admin.GET("/mappings", middleware.RequireAction(models.ActionViewDirectory), d.adminH.Mappings)
	admin.POST("/mappings", middleware.RequireAction(models.ActionMapStudents), d.adminH.Map)

	student := api.Group("/student", jwt, middleware.RequireRoles(models.RoleStudent))
	student.GET("/courses", middleware.RequireAction(models.ActionViewCourses), d.courseH.Available)
	student.POST("/registrations", middleware.RequireAction(models.ActionSubmitRegistration), d.studentH.Submit)
	student.GET("/registrations", middleware.RequireAction(models.ActionViewOwnRegistrations), d.studentH.List)
	student.GET("/registrations/export", middleware.RequireAction(models.ActionViewOwnRegistrations), d.studentH.Export)
	student.GET("/verifier", middleware.RequireAction(models.ActionViewOwnVerifier), d.studentH.Verifier)

	teacher := api.Group("/teacher", jwt, middleware.RequireRoles(models.RoleTeacher))
	teacher.GET("/me", middleware.RequireAction(models.ActionViewTeacherProfile), d.teacherH.Me)
	teacher.GET("/pending", middleware.RequireAction(models.ActionViewPending), d.teacherH.Pending)
	teacher.POST("/decisions", middleware.RequireAction(models.ActionDecideRegistration), d.teacherH.Decide)

	return r
}
