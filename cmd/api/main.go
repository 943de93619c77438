package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/config"
	"github.com/akshar-paaul/akshar-backend/internal/auth"
	cronjob "github.com/akshar-paaul/akshar-backend/internal/auth/cron"
	authrepo "github.com/akshar-paaul/akshar-backend/internal/auth/repository"
	authservice "github.com/akshar-paaul/akshar-backend/internal/auth/service"
	"github.com/akshar-paaul/akshar-backend/internal/bootstrap"
	"github.com/akshar-paaul/akshar-backend/internal/db"
	"github.com/akshar-paaul/akshar-backend/internal/logging"
	"github.com/akshar-paaul/akshar-backend/internal/notifications/sms"
	"github.com/akshar-paaul/akshar-backend/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("open redis", zap.Error(err))
	}
	defer rdb.Close()

	// Token login is optional; without Firebase credentials the password
	// flow still works.
	var verifier authservice.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		fbClient, err := auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			logger.Fatal("firebase", zap.Error(err))
		}
		verifier = auth.NewFirebaseVerifier(fbClient)
	} else {
		logger.Warn("firebase credentials not configured, token login disabled")
	}

	sender, err := sms.NewSender(ctx, cfg.SMS, logger)
	if err != nil {
		logger.Fatal("sms sender", zap.Error(err))
	}

	scheduler := cronjob.NewScheduler(
		authrepo.NewSessionRepository(rdb, cfg.App.SessionTTL), logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("cron scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	// Profiles are deliberately not mirrored: their rows carry credentials
	// and contact data that must never reach the shared stream.
	hub := realtime.NewHub(logger, "events", "event_signups", "messages")
	listener := realtime.NewListener(cfg.Database.DSN(), hub, logger)
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("realtime listener stopped", zap.Error(err))
		}
	}()

	bootstrap.SetGinMode(cfg.App.Environment)
	router := bootstrap.BuildRouter(bootstrap.Deps{
		Cfg:      cfg,
		DB:       pool,
		Redis:    rdb,
		Hub:      hub,
		Verifier: verifier,
		Sender:   sender,
		Log:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
