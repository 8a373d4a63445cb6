package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// WorkerConfig holds the configuration for the job worker.
type WorkerConfig struct {
	Redis       RedisConfig
	Concurrency int
	// CleanupSpec is the cron spec for session cleanup. Empty disables it.
	CleanupSpec string
}

// Worker processes background jobs.
type Worker struct {
	server      *asynq.Server
	scheduler   *asynq.Scheduler
	mux         *asynq.ServeMux
	cleanupSpec string
	logger      *slog.Logger
}

// NewWorker creates a worker that delivers invitation emails through sender
// and prunes dead sessions.
func NewWorker(cfg WorkerConfig, sender InvitationSender, sessions SessionPruner, logger *slog.Logger) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	server := asynq.NewServer(cfg.Redis.clientOpt(), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueEmail:       5,
			QueueMaintenance: 1,
		},
	})

	w := &Worker{
		server:      server,
		mux:         NewServeMux(sender, sessions, logger),
		cleanupSpec: cfg.CleanupSpec,
		logger:      logger,
	}
	if cfg.CleanupSpec != "" {
		w.scheduler = asynq.NewScheduler(cfg.Redis.clientOpt(), &asynq.SchedulerOpts{})
	}
	return w
}

// NewServeMux registers the task handlers.
func NewServeMux(sender InvitationSender, sessions SessionPruner, logger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	emailHandler := NewEmailTaskHandler(sender, logger)
	mux.HandleFunc(TypeEmailInvitation, emailHandler.HandleInvitation)

	if sessions != nil {
		maintenance := &maintenanceHandler{sessions: sessions, logger: logger.With("handler", "maintenance_tasks")}
		mux.HandleFunc(TypeSessionCleanup, maintenance.HandleSessionCleanup)
	}
	return mux
}

// Run runs the worker until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("starting job worker")
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("worker error: %w", err)
	}

	if w.scheduler != nil {
		if _, err := w.scheduler.Register(w.cleanupSpec, NewSessionCleanupTask()); err != nil {
			w.server.Shutdown()
			return fmt.Errorf("register session cleanup: %w", err)
		}
		if err := w.scheduler.Start(); err != nil {
			w.server.Shutdown()
			return fmt.Errorf("scheduler error: %w", err)
		}
		w.logger.Info("session cleanup scheduled", "spec", w.cleanupSpec)
	}

	<-ctx.Done()
	w.logger.Info("stopping job worker")
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	return nil
}
