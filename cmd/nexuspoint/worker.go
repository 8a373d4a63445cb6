package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/tendant/nexuspoint/internal/jobs"
	"github.com/tendant/nexuspoint/internal/notification"
	"github.com/tendant/nexuspoint/pkg/invitation"
	"github.com/tendant/nexuspoint/pkg/repository"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process background jobs (invitation email, session cleanup)",
	RunE:  runWorker,
}

// loggedSender adapts a notifier for workers without SMTP.
type loggedSender struct {
	invitation.Notifier
}

func (s loggedSender) SendInvitation(ctx context.Context, n invitation.Notification) error {
	return s.NotifyInvitation(ctx, n)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if !cfg.Redis.Enabled() {
		return errors.New("worker requires REDIS_ADDR")
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	var sender jobs.InvitationSender = loggedSender{notification.NewLogNotifier(logger)}
	if cfg.SMTP.Enabled() {
		sender = newEmailService(cfg)
	} else {
		logger.Warn("smtp not configured, invitation links will be logged")
	}

	worker := jobs.NewWorker(jobs.WorkerConfig{
		Redis: jobs.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Concurrency: cfg.Redis.WorkerConcurrency,
		CleanupSpec: cfg.Redis.SessionCleanupSpec,
	}, sender, repository.NewSessionsRepository(db), logger)

	return worker.Run(cmd.Context())
}
