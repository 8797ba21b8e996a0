package app

import (
	"log/slog"

	"github.com/Arieh-code/task-managment-project/internal/auth"
	"github.com/Arieh-code/task-managment-project/internal/cache"
	"github.com/Arieh-code/task-managment-project/internal/config"
	"github.com/Arieh-code/task-managment-project/internal/handlers"
	"github.com/Arieh-code/task-managment-project/internal/repo"
	"github.com/Arieh-code/task-managment-project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL.Duration(),
		RefreshTTL: cfg.JWT.RefreshTTL.Duration(),
		Issuer:     cfg.JWT.Issuer,
	})
	refreshStore := auth.NewRedisRefreshStore(rdb)

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	tokenHandler := handlers.NewTokenHandler(userSvc, jwtManager, refreshStore, log)
	registerTokenRoutes(api, tokenHandler)

	protected := api.Group("", auth.RequireToken(jwtManager))
	store := repo.NewPGStore(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(store, taskCache, log)
	historySvc := service.NewHistoryService(store.History(), log)
	taskHandler := handlers.NewTaskHandler(taskSvc, log)
	historyHandler := handlers.NewHistoryHandler(historySvc, log)
	registerTaskRoutes(protected, taskHandler, historyHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, t *handlers.TaskHandler, h *handlers.HistoryHandler) {
	api.GET("/tasks", t.List)
	api.POST("/tasks", t.Create)
	api.GET("/tasks/completed-history", h.CompletedHistory)
	api.PUT("/tasks/:id", t.Update)
	api.DELETE("/tasks/:id", t.Delete)
}

func registerTokenRoutes(api *gin.RouterGroup, h *handlers.TokenHandler) {
	api.POST("/token", h.Obtain)
	api.POST("/token/refresh", h.Refresh)
}
