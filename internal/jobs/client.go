package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/tendant/nexuspoint/pkg/invitation"
)

// RedisConfig locates the asynq broker.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) clientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client enqueues invitation emails. It implements invitation.Notifier.
type Client struct {
	client enqueuer
	logger *slog.Logger
}

func NewClient(cfg RedisConfig, logger *slog.Logger) *Client {
	return &Client{
		client: asynq.NewClient(cfg.clientOpt()),
		logger: logger.With("component", "job_client"),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NotifyInvitation enqueues the invitation email for the worker.
func (c *Client) NotifyInvitation(ctx context.Context, n invitation.Notification) error {
	task, err := NewInvitationTask(n)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error("failed to enqueue invitation email",
			"invitation_id", n.InvitationID,
			"email", n.Email,
			"error", err,
		)
		return fmt.Errorf("enqueue invitation email: %w", err)
	}

	c.logger.Info("invitation email queued",
		"task_id", info.ID,
		"invitation_id", n.InvitationID,
		"queue", info.Queue,
	)
	return nil
}
