package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeSessionCleanup = "maintenance:session_cleanup"
	QueueMaintenance   = "maintenance"

	// sessionRetention keeps dead sessions around briefly for auditing.
	sessionRetention = 24 * time.Hour
)

// SessionPruner deletes sessions that expired or were revoked before olderThan.
type SessionPruner interface {
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewSessionCleanupTask creates the periodic session cleanup task.
func NewSessionCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeSessionCleanup, nil, asynq.MaxRetry(1), asynq.Queue(QueueMaintenance))
}

type maintenanceHandler struct {
	sessions SessionPruner
	logger   *slog.Logger
}

func (h *maintenanceHandler) HandleSessionCleanup(ctx context.Context, _ *asynq.Task) error {
	deleted, err := h.sessions.DeleteExpired(ctx, sessionRetention)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	h.logger.Info("expired sessions deleted", "count", deleted)
	return nil
}
