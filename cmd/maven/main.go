package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/maven/internal/api"
	"github.com/eldtechnologies/maven/internal/chat"
	"github.com/eldtechnologies/maven/internal/config"
	"github.com/eldtechnologies/maven/internal/mail"
	"github.com/eldtechnologies/maven/internal/relay"
	"github.com/eldtechnologies/maven/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the question store
	var questionStore store.QuestionStore
	var err error
	switch cfg.Store {
	case "sqlite":
		questionStore, err = store.NewSQLiteStore(ctx, cfg.SQLitePath)
	case "postgres":
		questionStore, err = store.NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		questionStore, err = store.NewLedgerStore(cfg.LedgerPath)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store).Msg("store initialization failed")
	}
	defer questionStore.Close()
	logger.Info().Str("backend", cfg.Store).Msg("question store ready")

	// Initialize the seen-message cache when Redis is configured
	var seen *store.SeenCache
	if cfg.RedisURL != "" {
		seen, err = store.NewSeenCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer seen.Close()
		logger.Info().Msg("connected to Redis")
	}

	// Initialize the Gmail transport
	gmail, err := mail.NewGmail(ctx, cfg.GmailCredentials, cfg.GmailToken, cfg.BotAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("gmail transport failed")
	}

	rel := relay.New(relay.Config{
		Store:         questionStore,
		Seen:          seen,
		Mail:          gmail,
		Experts:       cfg.Experts,
		MinAnswerLen:  cfg.MinAnswerLen,
		ReminderAfter: cfg.ReminderAfter,
		MailTimeout:   cfg.MailTimeout,
		Logger:        logger.With().Str("component", "relay").Logger(),
	})

	if err := rel.Restore(ctx); err != nil {
		logger.Fatal().Err(err).Msg("registry restore failed")
	}

	// Connect the Telegram front-end
	tg, err := chat.NewTelegram(cfg.BotToken, rel, logger.With().Str("component", "telegram").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram connection failed")
	}
	rel.SetChat(tg)
	go tg.Run(ctx)

	// Reply polling and reminder sweeping share one loop; mail calls carry
	// their own timeouts so neither timer can starve the other for long.
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)

		pollTicker := time.NewTicker(cfg.PollInterval)
		defer pollTicker.Stop()
		sweepTicker := time.NewTicker(cfg.ReminderInterval)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollTicker.C:
				rel.Poll(ctx)
			case <-sweepTicker.C:
				rel.Sweep(ctx)
			}
		}
	}()

	// Ops server
	router := api.NewRouter(logger, questionStore, seen, gmail, rel.Registry())
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Int("experts", len(cfg.Experts)).
			Msg("starting maven")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("ops server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down...")

	// Stop the timers and wait for any in-flight poll to drain
	cancel()
	<-loopDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("ops server forced to shutdown")
	}

	logger.Info().Msg("stopped")
}
