package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"Tasker/internal/config"
	"Tasker/internal/middleware"
	"Tasker/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg     config.Config
	log     *slog.Logger
	db      *pgxpool.Pool
	redis   *redis.Client
	limiter *middleware.RateLimiter
	events  telemetry.Sink
	router  *gin.Engine
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, log: log}

	if cfg.PG.DSN != "" {
		db, err := newPostgres(cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := runMigrations(cfg.PG.DSN, "./migrations"); err != nil {
			a.db.Close()
			return nil, err
		}
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			a.closePG()
			return nil, err
		}
		a.redis = rdb
	}

	if brokers := cfg.Telemetry.BrokerList(); len(brokers) > 0 {
		a.events = telemetry.NewKafkaSink(brokers, cfg.Telemetry.Topic, log)
	} else {
		a.events = telemetry.NewLogSink(log)
	}

	// The limiter owns the counter map; its sweep starts here and stops in
	// Close.
	a.limiter = middleware.NewRateLimiter(
		cfg.RateLimit.Requests,
		cfg.RateLimit.Window(),
		cfg.RateLimit.Retention.Duration(),
		cfg.RateLimit.SweepInterval.Duration(),
		log,
	)
	a.limiter.Start(context.Background())

	router, err := a.newRouter()
	if err != nil {
		a.shutdownDeps()
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	a.shutdownDeps()
	return nil
}

func (a *App) shutdownDeps() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if ks, ok := a.events.(*telemetry.KafkaSink); ok {
		_ = ks.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.closePG()
}

func (a *App) closePG() {
	if a.db != nil {
		a.db.Close()
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (a *App) newRouter() (*gin.Engine, error) {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderCorrelationID},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.HeaderCorrelationID, middleware.HeaderProcessingTime},
		MaxAge:        12 * time.Hour,
	}))

	if err := Setup(r, a.cfg, a.log, a.db, a.redis, a.limiter, a.events); err != nil {
		return nil, err
	}
	return r, nil
}
