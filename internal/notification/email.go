package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/tendant/nexuspoint/pkg/invitation"
)

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// From may carry a display name: "NexusPoint <no-reply@example.com>".
	From string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	config EmailConfig
	send   sendFunc
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`<html><body>
		<h2>You're invited to join {{.OrganizationName}}</h2>
		<p>{{.InviterName}} has invited you to join <strong>{{.OrganizationName}}</strong> on NexusPoint as {{.Role}}.</p>
		<p><a href="{{.AcceptURL}}">Click here to accept the invitation</a></p>
		<p>Or copy this link to your browser: {{.AcceptURL}}</p>
		<p>This invitation will expire in {{.ValidDays}} days{{if not .ExpiresAt.IsZero}} ({{.ExpiresAt.Format "Jan 2, 2006"}}){{end}}.</p>
		<p>If you were not expecting this invitation, you can ignore this email.</p>
	</body></html>`))

type invitationView struct {
	invitation.Notification
	ValidDays int
}

// SendInvitation renders and sends the invitation email for n.
func (s *EmailService) SendInvitation(ctx context.Context, n invitation.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	view := invitationView{Notification: n, ValidDays: 7}
	if err := invitationTemplate.Execute(&body, view); err != nil {
		return fmt.Errorf("render invitation email: %w", err)
	}

	subject := fmt.Sprintf("%s invited you to join %s", n.InviterName, n.OrganizationName)
	if n.Resent {
		subject = "Reminder: " + subject
	}
	return s.sendEmail(n.Email, subject, body.String())
}

// NotifyInvitation sends the email inline. Used when no job queue is configured.
func (s *EmailService) NotifyInvitation(ctx context.Context, n invitation.Notification) error {
	return s.SendInvitation(ctx, n)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	sender, err := mail.ParseAddress(s.config.From)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", s.config.From, err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		sender.String(), to, subject, body)

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return s.send(addr, auth, sender.Address, []string{to}, []byte(msg))
}

// LogNotifier logs acceptance links instead of sending email.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) NotifyInvitation(ctx context.Context, n invitation.Notification) error {
	l.logger.InfoContext(ctx, "invitation email not sent, smtp not configured",
		"invitation_id", n.InvitationID,
		"email", n.Email,
		"organization", n.OrganizationName,
		"role", n.Role,
		"accept_url", n.AcceptURL,
		"expires_at", n.ExpiresAt.Format(time.RFC3339),
		"resent", n.Resent,
	)
	return nil
}
