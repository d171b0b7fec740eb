package botapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/config"
	s3infra "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/infra/s3"
	tginfra "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/infra/telegram"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/jobs/cleanup"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/jobs/healthcheck"
	pgrepo "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/repo/postgres"
	redrepo "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/repo/redis"
	auditsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/audit"
	banssvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/bans"
	celebratesvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/celebrate"
	healthsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/health"
	messagessvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/messages"
	modsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/moderation"
	notifysvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/notify"
	policysvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/policy"
	reportssvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/reports"
	trainingsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/training"
	trustsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/trust"
	warningssvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/warnings"
)

// botMessageTTL is how long the bot's own group-chat messages (command
// replies, celebrations) live before the cleanup job deletes them.
const botMessageTTL = time.Hour

// App is the bot process: it polls Telegram updates, routes moderation
// commands through the orchestrator, tracks chat membership, and runs the
// health-check and cleanup loops.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	postgres *pgxpool.Pool
	redis    *goredis.Client
	tg       *tginfra.Client

	chatsRepo   *pgrepo.ChatsRepo
	healthCache *healthsvc.Cache
	moderation  *modsvc.Service
	messages    *messagessvc.Service
	healthJob   *healthcheck.Job
	cleanupJob  *cleanup.Job
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	a := &App{cfg: cfg, logger: logger}

	tg, err := tginfra.NewClient(cfg.Bot.Token, cfg.Bot.PollTimeoutSeconds, logger, a.handleUpdate)
	if err != nil {
		return nil, fmt.Errorf("init telegram client: %w", err)
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("init postgres for bot app: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	var evidence trainingsvc.EvidenceStore
	if s3Client, err := s3infra.NewClient(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.UseSSL); err != nil {
		logger.Warn("s3 init failed, training samples will not be archived", zap.Error(err))
	} else {
		evidence = s3infra.NewEvidenceStore(s3Client, cfg.S3.Bucket)
	}

	chatsRepo := pgrepo.NewChatsRepo(pool)
	bansRepo := pgrepo.NewBansRepo(pool)
	warningsRepo := pgrepo.NewWarningsRepo(pool)
	trustRepo := pgrepo.NewTrustRepo(pool)
	auditRepo := pgrepo.NewAuditRepo(pool)
	messagesRepo := pgrepo.NewMessagesRepo(pool)
	policyRepo := pgrepo.NewPolicyRepo(pool)
	reportsRepo := pgrepo.NewReportsRepo(pool)
	policyCacheRepo := redrepo.NewPolicyCacheRepo(redisClient)
	trainingQueueRepo := redrepo.NewTrainingQueueRepo(redisClient)

	healthCache := healthsvc.NewCache()
	bansService := banssvc.NewService(tg, bansRepo, healthCache, logger)
	warningsService := warningssvc.NewService(warningsRepo)
	trustService := trustsvc.NewService(trustRepo)
	auditService := auditsvc.NewService(auditRepo)
	messagesService := messagessvc.NewService(messagesRepo, tg)
	notifyService := notifysvc.NewService(tg, cfg.Bot.AdminChatID)
	trainingService := trainingsvc.NewService(trainingQueueRepo, evidence)
	reportsService := reportssvc.NewService(reportsRepo)
	policyService := policysvc.NewService(policyRepo, policyCacheRepo, policysvc.Defaults{
		Threshold:      cfg.Moderation.WarningThreshold,
		AutoBanEnabled: cfg.Moderation.AutoBanEnabled,
		ReasonTemplate: cfg.Moderation.AutoBanReason,
	}, cfg.Moderation.PolicyCacheTTL)

	var party modsvc.Celebrator
	if cfg.Moderation.CelebrateBans {
		announcer := celebratesvc.NewService(tg, cfg.Moderation.CelebrationStickers, cfg.Moderation.CelebrationAnimations)
		announcer.AttachCleanup(messagesService, botMessageTTL)
		party = announcer
	}

	moderationService := modsvc.NewService(modsvc.Dependencies{
		Bans:                bansService,
		Warnings:            warningsService,
		Trust:               trustService,
		Messages:            messagesService,
		Audit:               auditService,
		Notify:              notifyService,
		Training:            trainingService,
		Policy:              policyService,
		Reports:             reportsService,
		Party:               party,
		ExtraProtectedTGIDs: cfg.Moderation.ExtraProtectedTGIDs,
		Logger:              logger,
	})

	a.postgres = pool
	a.redis = redisClient
	a.tg = tg
	a.chatsRepo = chatsRepo
	a.healthCache = healthCache
	a.moderation = moderationService
	a.messages = messagesService
	a.healthJob = healthcheck.New(chatsRepo, tg, healthCache, logger)
	a.cleanupJob = cleanup.New(messagesService, logger)

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	errCh := make(chan error, 3)
	go func() {
		errCh <- a.runHealthLoop(ctx)
	}()
	go func() {
		errCh <- a.runCleanupLoop(ctx)
	}()
	go func() {
		errCh <- a.tg.Start(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("bot app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
}

func (a *App) runHealthLoop(ctx context.Context) error {
	interval := a.cfg.Bot.HealthCheckInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// One pass up front: until it completes, the health cache is empty and
	// cross-chat actions stay disabled.
	if err := a.healthJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn("health check pass failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.healthJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("health check pass failed", zap.Error(err))
			}
		}
	}
}

func (a *App) runCleanupLoop(ctx context.Context) error {
	interval := a.cfg.Bot.CleanupInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.cleanupJob.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("cleanup pass failed", zap.Error(err))
			}
		}
	}
}
