package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openraise/screening/internal/config"
	authsvc "github.com/openraise/screening/internal/services/auth"
	campaignsvc "github.com/openraise/screening/internal/services/campaigns"
	decisionsvc "github.com/openraise/screening/internal/services/decision"
	mediasvc "github.com/openraise/screening/internal/services/media"
	reviewsvc "github.com/openraise/screening/internal/services/review"
	"github.com/openraise/screening/internal/transport/http/handlers"
)

type Dependencies struct {
	CampaignService *campaignsvc.Service
	DecisionEngine  *decisionsvc.Engine
	ReviewService   *reviewsvc.Service
	MediaArchiver   *mediasvc.Archiver
	JWTManager      *authsvc.JWTManager
	Logger          *zap.Logger
	Config          config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	configHandler := handlers.NewConfigHandler(deps.Config.Moderation)
	screenHandler := handlers.NewScreenHandler(deps.CampaignService, deps.DecisionEngine, deps.Logger)
	if deps.MediaArchiver != nil {
		screenHandler.AttachArchiver(deps.MediaArchiver)
	}
	reviewHandler := handlers.NewReviewHandler(deps.ReviewService)
	if deps.MediaArchiver != nil {
		reviewHandler.AttachPresigner(deps.MediaArchiver)
	}
	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)

	r.Get("/healthz", healthHandler.Get)
	r.Get("/config", configHandler.Handle)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Handle)
		r.Post("/campaigns/screen", screenHandler.Handle)
		r.Route("/review", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/pending", reviewHandler.ListPending)
			r.Get("/pending/count", reviewHandler.PendingCount)
			r.Post("/items/{id}/decision", reviewHandler.Decide)
		})
	})
}
