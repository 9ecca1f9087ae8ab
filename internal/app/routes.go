package app

import (
	"fmt"
	"log/slog"
	"time"

	"Tasker/internal/auth"
	"Tasker/internal/cache"
	"Tasker/internal/config"
	"Tasker/internal/domain"
	"Tasker/internal/handlers"
	"Tasker/internal/middleware"
	"Tasker/internal/repo"
	"Tasker/internal/service"
	"Tasker/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Request timing thresholds. Crossing the first logs a warning, the second
// an error.
const (
	slowRequest     = 500 * time.Millisecond
	criticalRequest = 3 * time.Second
)

// Paths the rate limiter skips: service metadata and docs.
var rateLimitExempt = []string{"/", "/health", "/version", "/swagger", "/swagger-doc.json"}

// Setup registers the middleware pipeline and all routes on the engine.
// Pipeline order is fixed: correlation first so every later stage can tag
// its output, then the exception boundary wrapping everything downstream,
// then rate limiting (before auth, so anonymous clients are throttled by
// IP), then timing around endpoint dispatch, then the auth gate on
// protected groups.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, db *pgxpool.Pool, rdb *redis.Client, limiter *middleware.RateLimiter, events telemetry.Sink) error {
	r.Use(middleware.Correlation())
	r.Use(middleware.Boundary(log))
	r.Use(middleware.RateLimit(limiter, rateLimitExempt...))
	r.Use(middleware.Timing(log, slowRequest, criticalRequest))

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

	taskRepo, userRepo, err := buildRepos(cfg, db)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(auth.Config{
		Secret:    cfg.Auth.Secret,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		Expiry:    time.Duration(cfg.Auth.ExpiryMinutes) * time.Minute,
		ClockSkew: cfg.Auth.ClockSkew.Duration(),
	})

	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}

	api := r.Group("/api/v1")

	userSvc := service.NewUserService(userRepo, events)
	authHandler := handlers.NewAuthHandler(userSvc, tokens)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("", auth.RequireAuth(tokens))
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc, events)
	registerTaskRoutes(protected, taskHandler)

	return nil
}

// buildRepos selects the store: Postgres when a DSN is configured, the
// in-memory store (with config-seeded users) otherwise.
func buildRepos(cfg config.Config, db *pgxpool.Pool) (repo.TaskRepo, repo.UserRepo, error) {
	if db != nil {
		return repo.NewPGTaskRepo(db), repo.NewPGUserRepo(db), nil
	}
	users, err := seedUsers(cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewMemoryTaskRepo(), repo.NewMemoryUserRepo(users), nil
}

func seedUsers(seed config.SeedConfig) ([]domain.User, error) {
	adminHash, err := service.HashPassword(seed.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	userHash, err := service.HashPassword(seed.UserPassword)
	if err != nil {
		return nil, fmt.Errorf("hash user password: %w", err)
	}
	now := time.Now().UTC()
	return []domain.User{
		{ID: 1, Username: seed.AdminUsername, PasswordHash: adminHash, Role: domain.RoleAdmin, IsActive: true, CreatedAt: now},
		{ID: 2, Username: seed.UserUsername, PasswordHash: userHash, Role: domain.RoleUser, IsActive: true, CreatedAt: now},
	}, nil
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/filter/status", h.FilterByStatus)
	api.GET("/tasks/filter/priority/:priority", h.FilterByPriority)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", auth.RequireRole(domain.RoleAdmin), h.Delete)
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
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
