package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/config"
	tginfra "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/infra/telegram"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/jobs/healthcheck"
	pgrepo "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/repo/postgres"
	redrepo "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/repo/redis"
	auditsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/audit"
	healthsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/health"
	policysvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/policy"
)

// App is the admin API process. It keeps its own chat health cache fed by a
// local probe loop, so /api/v1/health/stream reflects live state without a
// cross-process channel to the bot.
type App struct {
	cfg         config.Config
	logger      *zap.Logger
	server      *http.Server
	postgres    *pgxpool.Pool
	redis       *goredis.Client
	httpRouter  http.Handler
	healthCache *healthsvc.Cache
	healthJob   *healthcheck.Job
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	auditRepo := pgrepo.NewAuditRepo(pool)
	chatsRepo := pgrepo.NewChatsRepo(pool)
	policyRepo := pgrepo.NewPolicyRepo(pool)
	policyCacheRepo := redrepo.NewPolicyCacheRepo(redisClient)

	auditService := auditsvc.NewService(auditRepo)
	policyService := policysvc.NewService(policyRepo, policyCacheRepo, policysvc.Defaults{
		Threshold:      cfg.Moderation.WarningThreshold,
		AutoBanEnabled: cfg.Moderation.AutoBanEnabled,
		ReasonTemplate: cfg.Moderation.AutoBanReason,
	}, cfg.Moderation.PolicyCacheTTL)
	healthCache := healthsvc.NewCache()

	var healthJob *healthcheck.Job
	if strings.TrimSpace(cfg.Bot.Token) != "" {
		tg, err := tginfra.NewClient(cfg.Bot.Token, cfg.Bot.PollTimeoutSeconds, log, nil)
		if err != nil {
			log.Warn("telegram client init failed, health endpoints will stay empty", zap.Error(err))
		} else {
			healthJob = healthcheck.New(chatsRepo, tg, healthCache, log)
		}
	} else {
		log.Warn("BOT_TOKEN is empty, health endpoints will stay empty")
	}

	RegisterRoutes(r, Dependencies{
		HealthCache:   healthCache,
		AuditService:  auditService,
		PolicyService: policyService,
		Logger:        log,
		Config:        cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      server,
		postgres:    pool,
		redis:       redisClient,
		httpRouter:  r,
		healthCache: healthCache,
		healthJob:   healthJob,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))

	go a.runHealthLoop(ctx)

	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) runHealthLoop(ctx context.Context) {
	if a.healthJob == nil {
		return
	}

	interval := a.cfg.Bot.HealthCheckInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	if err := a.healthJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn("health check pass failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.healthJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("health check pass failed", zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
