package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openraise/screening/internal/config"
	"github.com/openraise/screening/internal/infra/ocr"
	s3infra "github.com/openraise/screening/internal/infra/s3"
	pgrepo "github.com/openraise/screening/internal/repo/postgres"
	redrepo "github.com/openraise/screening/internal/repo/redis"
	authsvc "github.com/openraise/screening/internal/services/auth"
	campaignsvc "github.com/openraise/screening/internal/services/campaigns"
	classifiersvc "github.com/openraise/screening/internal/services/classifier"
	decisionsvc "github.com/openraise/screening/internal/services/decision"
	"github.com/openraise/screening/internal/services/imagescan"
	mediasvc "github.com/openraise/screening/internal/services/media"
	reviewsvc "github.com/openraise/screening/internal/services/review"
	"github.com/openraise/screening/internal/services/rules"
	"github.com/openraise/screening/internal/services/urlcheck"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var reviewStore reviewsvc.Store
	if pool != nil {
		reviewStore = pgrepo.NewReviewRepo(pool)
	} else {
		log.Warn("review queue falling back to in-memory store")
		reviewStore = reviewsvc.NewMemoryStore()
	}
	reviewService := reviewsvc.NewService(reviewStore)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	verdictCache := redrepo.NewVerdictCacheRepo(redisClient, cfg.Moderation.VerdictCacheTTL)

	var recognizer imagescan.TextRecognizer = ocr.Noop{}
	if cfg.OCR.Endpoint != "" {
		client, err := ocr.NewClient(ocr.Config{Endpoint: cfg.OCR.Endpoint, Timeout: cfg.OCR.Timeout})
		if err != nil {
			log.Warn("ocr init failed, image text extraction disabled", zap.Error(err))
		} else {
			recognizer = client
		}
	}

	var provider classifiersvc.Provider
	if cfg.Classifier.APIKey != "" {
		p, err := classifiersvc.NewHTTPProvider(classifiersvc.HTTPProviderConfig{
			Endpoint:  cfg.Classifier.Endpoint,
			APIKey:    cfg.Classifier.APIKey,
			Model:     cfg.Classifier.Model,
			Timeout:   cfg.Classifier.Timeout,
			MaxTokens: cfg.Classifier.MaxTokens,
		})
		if err != nil {
			log.Warn("classifier init failed, falling back to local heuristic", zap.Error(err))
		} else {
			provider = p
		}
	} else {
		log.Warn("classifier api key not set, using local heuristic")
	}

	thresholds := classifiersvc.Thresholds{
		ApproveBelow: cfg.Moderation.ApproveBelow,
		HoldBelow:    cfg.Moderation.HoldBelow,
	}

	decisionEngine := decisionsvc.NewEngine(decisionsvc.Dependencies{
		Rules:      rules.NewEngine(rules.Config{HighGoalThreshold: cfg.Moderation.HighGoalThreshold}),
		URLs:       urlcheck.NewChecker(),
		Images:     imagescan.NewScanner(imagescan.Config{MaxBytes: cfg.Moderation.MaxImageBytes, AllowedMIMEs: cfg.Moderation.AllowedImageMIMEs}, recognizer),
		Classifier: classifiersvc.NewAdapter(provider, thresholds),
		Queue:      reviewService,
	}, decisionsvc.Config{
		ApproveBelow: cfg.Moderation.ApproveBelow,
		HoldBelow:    cfg.Moderation.HoldBelow,
	})
	decisionEngine.AttachVerdictCache(verdictCache)

	campaignService := campaignsvc.NewService(campaignsvc.Config{MaxImageCount: cfg.Moderation.MaxImageCount})
	jwtManager := authsvc.NewJWTManager(cfg.Auth.ReviewerJWTSecret, cfg.Auth.ReviewerJWTTTL)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	var archiver *mediasvc.Archiver
	if s3Client != nil {
		archiver = mediasvc.NewArchiver(mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket))
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		CampaignService: campaignService,
		DecisionEngine:  decisionEngine,
		ReviewService:   reviewService,
		MediaArchiver:   archiver,
		JWTManager:      jwtManager,
		Logger:          log,
		Config:          cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
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
