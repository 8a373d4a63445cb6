package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/nexuspoint/internal/config"
	"github.com/tendant/nexuspoint/internal/jobs"
	"github.com/tendant/nexuspoint/internal/notification"
	"github.com/tendant/nexuspoint/pkg/invitation"
	"github.com/tendant/nexuspoint/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	notifier, closeNotifier := newNotifier(cfg, logger)
	defer closeNotifier()

	srv, err := server.New(server.Config{
		DB:                          db,
		JWTSecret:                   cfg.JWTSecret,
		JWTIssuer:                   cfg.JWTIssuer,
		AccessTokenTTL:              cfg.AccessTokenTTL,
		RefreshTokenTTL:             cfg.RefreshTokenTTL,
		AppBaseURL:                  cfg.AppBaseURL,
		RequireInvitationEmailMatch: cfg.Invitation.RequireEmailMatch,
		Notifier:                    notifier,
		PasswordPolicy:              cfg.PasswordPolicy,
		RateLimit:                   cfg.RateLimit,
		SecurityHeaders:             cfg.SecurityHeaders,
		MaxRequestSize:              cfg.MaxRequestSize,
		CookieSecure:                cfg.CookieSecure,
		Logger:                      logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

// newNotifier queues invitation emails when Redis is configured, sends them
// inline when only SMTP is configured, and otherwise logs the links.
func newNotifier(cfg *config.Config, logger *slog.Logger) (invitation.Notifier, func()) {
	switch {
	case cfg.Redis.Enabled():
		client := jobs.NewClient(jobs.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		logger.Info("invitation emails queued", "redis", cfg.Redis.Addr)
		return client, func() { _ = client.Close() }
	case cfg.SMTP.Enabled():
		logger.Info("invitation emails sent inline", "smtp", cfg.SMTP.Host)
		return newEmailService(cfg), func() {}
	default:
		logger.Warn("smtp not configured, invitation links will be logged")
		return notification.NewLogNotifier(logger), func() {}
	}
}

func newEmailService(cfg *config.Config) *notification.EmailService {
	return notification.NewEmailService(notification.EmailConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}
