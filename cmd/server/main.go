package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boutique/internal/config"
	"boutique/internal/infra"
	"boutique/internal/repository"
	"boutique/internal/router"
	"boutique/internal/service"
	"boutique/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title                      Boutique API
// @version                    1.0
// @description                Back-office et boutique en ligne: commandes, catalogue, clients.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @securityDefinitions.apikey ClientAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	if cfg.RunMigrations {
		if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background work is wired here (composition root) so the pool has
	// access to every gateway.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	smsCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("sms"))
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	notificationRepo := repository.NewNotificationRepository(db)
	dispatcher := worker.NewDispatcher(rdb, notificationRepo)
	invoices := service.NewInvoices(
		repository.NewVenteRepository(db),
		service.NewInformationService(repository.NewInformationRepository(db), nil),
		cfg.PDFStoragePath,
	)
	notificationWorker := worker.NewNotificationWorker(
		notificationRepo,
		infra.NewSMSClient(cfg.SMSGatewayURL, cfg.SMSGatewayToken),
		infra.NewMailer(cfg),
		invoices,
		smsCB, mailCB, rdb,
	)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.JobHandler{
		worker.JobNotification: notificationWorker,
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{Repo: notificationRepo, Worker: notificationWorker})
	go reportDLQ(ctx, rdb)

	hub := infra.NewHub(cfg.Origins())
	r := router.New(cfg, db, rdb, router.Deps{
		Hub:      hub,
		Storage:  infra.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL),
		Notifier: dispatcher,
		SMSCB:    smsCB,
		MailCB:   mailCB,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("boutique backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// reportDLQ logs the dead-letter backlog every five minutes so it shows up in
// log-based alerting.
func reportDLQ(ctx context.Context, rdb *redis.Client) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := worker.DLQLength(ctx, rdb, worker.QueueNotification)
			if err != nil {
				log.Warn().Err(err).Msg("dlq: length check failed")
				continue
			}
			if n > 0 {
				log.Warn().Int64("entries", n).Str("queue", worker.QueueNotification).Msg("dlq: notifications awaiting inspection")
			}
		}
	}
}
