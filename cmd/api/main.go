package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/academic-records-api/api/swagger"
	"github.com/noah-isme/academic-records-api/internal/handler"
	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/repository"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/cache"
	"github.com/noah-isme/academic-records-api/pkg/config"
	"github.com/noah-isme/academic-records-api/pkg/database"
	"github.com/noah-isme/academic-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/requestid"
)

// recordStore is the union of the persistence surfaces the services consume.
// Both the in-memory store and the Postgres store satisfy it.
type recordStore interface {
	TeacherByAPIKey(ctx context.Context, key string) (*models.Teacher, error)
	AdminByAPIKey(ctx context.Context, key string) (*models.Admin, error)
	TeacherByID(ctx context.Context, id int) (*models.Teacher, error)
	CourseByCode(ctx context.Context, code string) (*models.Course, error)
	ProgramByCode(ctx context.Context, code string) (*models.Program, error)
	SchoolYearByID(ctx context.Context, id int) (*models.SchoolYear, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListLoads(ctx context.Context) ([]models.TeachingLoad, error)
	ListActiveLoadsByTeacher(ctx context.Context, teacherID int) ([]models.TeachingLoad, error)
	LoadByID(ctx context.Context, id int) (*models.TeachingLoad, error)
	CreateLoad(ctx context.Context, load *models.TeachingLoad) error
	MutateLoad(ctx context.Context, id int, fn func(*models.TeachingLoad) error) error
	ListGrades(ctx context.Context) ([]models.Grade, error)
	MutateGrade(ctx context.Context, id int, teacherID int, fn func(*models.Grade, []models.TeachingLoad) error) error
	AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

// @title Academic Records API
// @version 1.0.0
// @description Role-based teaching load and grade records service
// @BasePath /
// @schemes http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

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

	var store recordStore
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("postgres connect failed", "error", err)
		}
		defer db.Close() //nolint:errcheck
		store = repository.NewPostgresStore(db)
	default:
		store = repository.NewSeededMemoryStore(cfg.Audit.Capacity)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis connect failed, caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	auditSvc := service.NewAuditService(store, logr)
	authSvc := service.NewAuthService(store, logr)
	loadSvc := service.NewTeachingLoadService(store, store, auditSvc, nil, logr)
	gradeSvc := service.NewGradeService(store, store, store, auditSvc, logr)
	exportSvc := service.NewExportService(gradeSvc, auditSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, auditSvc)
	loadHandler := handler.NewTeachingLoadHandler(loadSvc, cacheSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc, exportSvc, cacheSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

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
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/login", authHandler.Login)

	protected := api.Group("", middleware.APIKey(authSvc))
	protected.GET("/teaching-loads", middleware.CachedJSON(cacheSvc, auditSvc, models.AuditActionViewLoads, "teaching-loads", cfg.Cache.TTL), loadHandler.List)
	protected.POST("/teaching-loads", loadHandler.Create)
	protected.PUT("/teaching-loads/:id", loadHandler.Update)
	protected.DELETE("/teaching-loads/:id", loadHandler.Deactivate)
	protected.GET("/grades", middleware.CachedJSON(cacheSvc, auditSvc, models.AuditActionViewGrades, "grades", cfg.Cache.TTL), gradeHandler.List)
	protected.POST("/grades", gradeHandler.Update)
	protected.GET("/grades/export", gradeHandler.Export)
	protected.GET("/audit-logs", middleware.AdminOnly(), auditHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
