package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/abelkristv/magang-sub001/api/swagger"
	"github.com/abelkristv/magang-sub001/internal/handler"
	"github.com/abelkristv/magang-sub001/internal/repository"
	"github.com/abelkristv/magang-sub001/internal/service"
	"github.com/abelkristv/magang-sub001/pkg/cache"
	"github.com/abelkristv/magang-sub001/pkg/config"
	"github.com/abelkristv/magang-sub001/pkg/database"
	"github.com/abelkristv/magang-sub001/pkg/envelope"
	"github.com/abelkristv/magang-sub001/pkg/logger"
	"github.com/abelkristv/magang-sub001/pkg/mailer"
	"github.com/abelkristv/magang-sub001/pkg/storage"
)

// @title Magang Admin API
// @version 1.0.0
// @description Internship administration backend
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const uploadTTL = 24 * time.Hour

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
	if cfg.JWT.Secret == "" || cfg.Envelope.Secret == "" {
		logr.Fatal("JWT_SECRET and ENVELOPE_SECRET must be set")
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.MaxFileBytes)
	if err != nil {
		logr.Fatal("failed to prepare upload directory", zap.Error(err))
	}
	if removed, err := uploads.CleanupOlderThan(uploadTTL); err != nil {
		logr.Warn("stale upload cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		logr.Info("removed stale uploads", zap.Int("count", len(removed)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := buildApp(cfg, logr, db, redisClient, uploads)
	app.email.Start(ctx)
	defer app.email.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

type app struct {
	router *gin.Engine
	email  *service.EmailService
}

func buildApp(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client, uploads *storage.LocalStorage) *app {
	validate := validator.New()
	metrics := service.NewMetricsService()
	codec := envelope.New(cfg.Envelope.Secret)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	meetingRepo := repository.NewMeetingScheduleRepository(db)
	docRepo := repository.NewDocumentationRepository(db)
	refRepo := repository.NewReferenceRepository(db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, reportRepo, logr)
	reportSvc := service.NewReportService(reportRepo, commentRepo, cacheSvc, validate, logr)
	meetingSvc := service.NewMeetingScheduleService(meetingRepo, reportRepo, validate, logr)
	docSvc := service.NewDocumentationService(docRepo, validate, logr)
	refSvc := service.NewReferenceService(refRepo, cacheSvc, validate, logr)
	importSvc := service.NewImportService(studentRepo, metrics, logr)
	exportSvc := service.NewExportService(studentRepo, reportRepo, nil, logr)
	sender := mailer.New(mailer.Config{
		APIKey:      cfg.Mail.SendgridAPIKey,
		FromName:    cfg.Mail.FromName,
		FromAddress: cfg.Mail.FromAddress,
	}, logr)
	emailSvc := service.NewEmailService(sender, service.EmailConfig{
		Workers:    cfg.Mail.Workers,
		Retries:    cfg.Mail.Retries,
		RetryDelay: cfg.Mail.RetryDelay,
	}, metrics, validate, logr)

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	handlers := routeHandlers{
		auth:          handler.NewAuthHandler(authSvc),
		users:         handler.NewUserHandler(userSvc),
		students:      handler.NewStudentHandler(studentSvc),
		reports:       handler.NewReportHandler(reportSvc, codec, metrics),
		meetings:      handler.NewMeetingScheduleHandler(meetingSvc, codec, metrics),
		documentation: handler.NewDocumentationHandler(docSvc),
		references:    handler.NewReferenceHandler(refSvc),
		uploads:       handler.NewUploadHandler(importSvc, uploads, nil, logr),
		email:         handler.NewEmailHandler(emailSvc),
		exports:       handler.NewExportHandler(exportSvc),
		metrics:       handler.NewMetricsHandler(metrics, checks),
	}

	return &app{
		router: newRouter(cfg, logr, metrics, authSvc, handlers),
		email:  emailSvc,
	}
}
