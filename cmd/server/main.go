package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffdesk/admin-panel/internal/api"
	"github.com/staffdesk/admin-panel/internal/core/ports"
	"github.com/staffdesk/admin-panel/internal/infrastructure/config"
	mongodb "github.com/staffdesk/admin-panel/internal/infrastructure/db/mongo"
	redisdb "github.com/staffdesk/admin-panel/internal/infrastructure/db/redis"
	"github.com/staffdesk/admin-panel/internal/infrastructure/mail"
	"github.com/staffdesk/admin-panel/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.NewIdentityRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	var mailer ports.Mailer
	if cfg.SMTP.Username != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = mail.NewLogMailer(log)
	}
	dispatcher := mail.NewDispatcher(cfg.SMTP.Workers, mailer, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		DB:     db,
		Redis:  rdb,
		Outbox: dispatcher,
		Config: cfg,
		Log:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
