package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/config"
	auditsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/audit"
	healthsvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/health"
	policysvc "github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/services/policy"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/transport/http/handlers"
)

type Dependencies struct {
	HealthCache   *healthsvc.Cache
	AuditService  *auditsvc.Service
	PolicyService *policysvc.Service
	Logger        *zap.Logger
	Config        config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.HealthCache, deps.Logger)
	auditHandler := handlers.NewAuditHandler(deps.AuditService)
	policyHandler := handlers.NewPolicyHandler(deps.PolicyService)
	adminAuthMW := AdminAuthMiddleware(deps.Config.HTTP.AdminToken, deps.Logger)

	r.Get("/healthz", healthHandler.Liveness)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(adminAuthMW)
		r.Get("/health/chats", healthHandler.ChatList)
		r.Get("/health/stream", healthHandler.Stream)
		r.Get("/audit", auditHandler.List)
		r.Get("/chats/{chatID}/policy", policyHandler.Get)
		r.Put("/chats/{chatID}/policy", policyHandler.Put)
	})
}
