// Package jobs moves invitation email delivery onto an asynq queue.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tendant/nexuspoint/pkg/invitation"
)

// Task types
const (
	TypeEmailInvitation = "email:invitation"
)

const (
	QueueEmail  = "email"
	maxRetry    = 3
	taskTimeout = 30 * time.Second
)

// NewInvitationTask wraps an invitation notification in an asynq task.
func NewInvitationTask(n invitation.Notification) (*asynq.Task, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal invitation payload: %w", err)
	}
	return asynq.NewTask(
		TypeEmailInvitation,
		data,
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
		asynq.Queue(QueueEmail),
	), nil
}

// InvitationSender delivers a rendered invitation email.
type InvitationSender interface {
	SendInvitation(ctx context.Context, n invitation.Notification) error
}

// EmailTaskHandler processes email tasks.
type EmailTaskHandler struct {
	sender InvitationSender
	logger *slog.Logger
}

func NewEmailTaskHandler(sender InvitationSender, logger *slog.Logger) *EmailTaskHandler {
	return &EmailTaskHandler{
		sender: sender,
		logger: logger.With("handler", "email_tasks"),
	}
}

// HandleInvitation sends one invitation email. A malformed payload is not retried.
func (h *EmailTaskHandler) HandleInvitation(ctx context.Context, t *asynq.Task) error {
	var n invitation.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return fmt.Errorf("unmarshal invitation payload: %v: %w", err, asynq.SkipRetry)
	}

	h.logger.Info("processing invitation email",
		"invitation_id", n.InvitationID,
		"email", n.Email,
		"organization", n.OrganizationName,
	)

	if err := h.sender.SendInvitation(ctx, n); err != nil {
		h.logger.Error("failed to send invitation email",
			"invitation_id", n.InvitationID,
			"email", n.Email,
			"error", err,
		)
		return err
	}

	h.logger.Info("invitation email sent", "invitation_id", n.InvitationID, "email", n.Email)
	return nil
}
