// Command server runs the patent application intake API.
//
// @title Patent Desk API
// @version 1.0
// @description Patent application intake: applicant wizard, document uploads and reviewer decisions.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "patentdesk/docs"
	"patentdesk/internal/config"
	draftmemory "patentdesk/internal/draft/memory"
	draftredis "patentdesk/internal/draft/redis"
	"patentdesk/internal/email/noop"
	sesemail "patentdesk/internal/email/ses"
	"patentdesk/internal/handler"
	"patentdesk/internal/middleware"
	"patentdesk/internal/port"
	"patentdesk/internal/repository/postgres"
	"patentdesk/internal/router"
	"patentdesk/internal/scoring/httpscorer"
	"patentdesk/internal/service"
	s3storage "patentdesk/internal/storage/s3"
	"patentdesk/internal/wizard"
)

const limiterIdle = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	appRepo := postgres.NewApplicationRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	refRepo := postgres.NewReferenceRepo(db)
	feedbackRepo := postgres.NewFeedbackRepo(db)

	// Initialize draft store
	pingers := map[string]handler.Pinger{}
	var drafts port.DraftStore
	switch cfg.Draft.Provider {
	case "memory":
		drafts = draftmemory.NewDraftStore()
		zap.L().Warn("using in-memory draft store; drafts are lost on restart")
	default:
		redisClient, err := draftredis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		drafts = draftredis.NewDraftStore(redisClient, cfg.Draft.TTL)
		pingers["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = sesemail.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender(cfg.Email.FrontendURL)
	}

	// Initialize likelihood scorer
	var scorer port.LikelihoodScorer = httpscorer.Disabled()
	if cfg.Scorer.BaseURL != "" {
		scorer = httpscorer.NewScorer(&cfg.Scorer)
	} else {
		zap.L().Warn("likelihood scorer not configured; checks will fail")
	}

	flow := wizard.NewFlow(wizard.Options{
		HomeCountry:   cfg.Wizard.HomeCountry,
		MaxClaims:     cfg.Upload.MaxClaims,
		MaxAbstract:   cfg.Upload.MaxAbstract,
		MaxDrawings:   cfg.Upload.MaxDrawings,
		MaxSupporting: cfg.Upload.MaxSupporting,
	})

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	refSvc := service.NewReferenceService(refRepo)
	appSvc := service.NewApplicationService(appRepo, fileRepo, feedbackRepo, userRepo, emailSender, cfg.Wizard)
	wizardSvc := service.NewWizardService(drafts, appSvc, fileRepo, s3Client, scorer, flow, cfg.Wizard)
	uploadSvc := service.NewUploadService(fileRepo, appRepo, s3Client, cfg.S3.Bucket, service.ConstraintsFromConfig(cfg.Upload))
	reviewSvc := service.NewReviewService(appRepo, fileRepo, feedbackRepo, userRepo, emailSender)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	janitor := service.NewJanitor(fileRepo, s3Client, service.JanitorConfig{
		Schedule:        cfg.Janitor.Schedule,
		FailedRetention: cfg.Upload.FailedRetention,
	}, service.Job{
		Name: "rate-limiter-cleanup",
		Run:  func(context.Context) { limiter.Cleanup(limiterIdle) },
	})
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("failed to start janitor: %w", err)
	}
	defer janitor.Stop()

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		User:        handler.NewUserHandler(userSvc),
		Wizard:      handler.NewWizardHandler(wizardSvc),
		Application: handler.NewApplicationHandler(appSvc),
		Reference:   handler.NewReferenceHandler(refSvc),
		Admin:       handler.NewAdminHandler(reviewSvc),
		Upload:      handler.NewUploadHandler(uploadSvc),
		Submit:      handler.NewSubmitHandler(),
		Health:      handler.NewHealthHandler(db, pingers),
	}, router.Options{
		LoginPath:      cfg.JWT.LoginPath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Limiter:        limiter,
		EnableSwagger:  cfg.Server.Environment != "production",
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
