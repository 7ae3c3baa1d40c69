package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hongminglow/eventus-be/internal/config"
	"github.com/hongminglow/eventus-be/internal/notify"
	"github.com/hongminglow/eventus-be/internal/server"
	"github.com/hongminglow/eventus-be/internal/storage/memory"
	"github.com/hongminglow/eventus-be/internal/storage/postgres"
	"github.com/hongminglow/eventus-be/internal/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
		return serve(cmd.Context(), cfg, logger)
	},
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	deps := server.Deps{Logger: logger}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on exit")
		deps.Store = memory.New()
	default:
		pg, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		deps.Store = pg
		deps.DB = pg
	}
	defer deps.Store.Close()

	sender, err := newSender(ctx, cfg, logger)
	if err != nil {
		return err
	}
	deps.Sender = sender

	uploads, err := upload.NewStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		return fmt.Errorf("init uploads: %w", err)
	}
	deps.Uploads = uploads

	srv := server.New(cfg, deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Str("storage", cfg.StorageDriver).Msg("eventus backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// newSender builds the FCM sender when credentials are configured and falls
// back to a logging no-op otherwise.
func newSender(ctx context.Context, cfg config.Config, logger zerolog.Logger) (notify.Sender, error) {
	if cfg.FCMCredentialsFile == "" {
		logger.Warn().Msg("FCM_CREDENTIALS_FILE not set; push notifications disabled")
		return notify.Nop{Logger: logger}, nil
	}
	creds, err := os.ReadFile(cfg.FCMCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read fcm credentials: %w", err)
	}
	sender, err := notify.NewFCMSender(ctx, creds, cfg.FCMProjectID, cfg.NotifyConcurrency, logger)
	if err != nil {
		return nil, err
	}
	return sender, nil
}
