package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nerveconnect/clinic-api/internal/config"
	"github.com/nerveconnect/clinic-api/internal/handler/health"
	prescriptionHandler "github.com/nerveconnect/clinic-api/internal/handler/prescription"
	"github.com/nerveconnect/clinic-api/internal/handler/voice"
	"github.com/nerveconnect/clinic-api/internal/middleware"
	"github.com/nerveconnect/clinic-api/internal/repository/postgres"
	"github.com/nerveconnect/clinic-api/internal/router"
	auditService "github.com/nerveconnect/clinic-api/internal/service/audit"
	bookingService "github.com/nerveconnect/clinic-api/internal/service/booking"
	extractionService "github.com/nerveconnect/clinic-api/internal/service/extraction"
	prescriptionService "github.com/nerveconnect/clinic-api/internal/service/prescription"
	"github.com/nerveconnect/clinic-api/internal/worker"
	"github.com/nerveconnect/clinic-api/pkg/gemini"
	"github.com/nerveconnect/clinic-api/pkg/logger"
	"github.com/nerveconnect/clinic-api/pkg/messaging"
	redisBroker "github.com/nerveconnect/clinic-api/pkg/messaging/redis"
	"github.com/nerveconnect/clinic-api/pkg/metrics"
)

func main() {
	// .env is optional, used in local development only.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.New("clinic_api")

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		b, err := redisBroker.NewBroker(redisBroker.Config{URL: cfg.Redis.URL}, appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer b.Close()
		broker = b
	}

	directoryRepo := postgres.NewDirectoryRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	analysisRepo := postgres.NewAnalysisRepository(db)

	geminiClient := gemini.NewClient(cfg.Gemini, m)

	directory := bookingService.NewCachedDirectory(directoryRepo)
	bookingSvc := bookingService.NewService(directory, appointmentRepo, broker, m, appLogger)
	extractionSvc := extractionService.NewService(geminiClient, m, appLogger)
	auditSvc := auditService.NewService(analysisRepo, appLogger)
	prescriptionSvc := prescriptionService.NewService(
		geminiClient, auditSvc, broker, m, appLogger, cfg.Gemini.FallbackText)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	retention := worker.NewAnalysisRetentionWorker(
		analysisRepo, cfg.Audit.RetentionDays, cfg.Audit.CleanupInterval, appLogger)
	go retention.Start(workerCtx)

	voiceH := voice.NewHandler(bookingSvc, extractionSvc)
	prescriptionH := prescriptionHandler.NewHandler(prescriptionSvc)
	healthH := health.NewHandler(db)

	corsConfig := middleware.DefaultCORSConfig()
	if cfg.Server.CORSOrigin != "" {
		corsConfig.AllowOrigins = []string{cfg.Server.CORSOrigin}
	}

	r := router.New(voiceH, prescriptionH, healthH, m, router.Config{
		RateLimitRPS:    cfg.Server.RateLimitRPS,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		GenerativeRPS:   cfg.Server.GenerativeRPS,
		GenerativeBurst: cfg.Server.GenerativeBurst,
		RequestTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORS:            corsConfig,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
