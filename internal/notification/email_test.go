package notification

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/pkg/invitation"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func newTestService(cfg EmailConfig) (*EmailService, *[]sentMail) {
	var sent []sentMail
	svc := NewEmailService(cfg)
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, auth: a, from: from, to: to, msg: string(msg)})
		return nil
	}
	return svc, &sent
}

func testNotification() invitation.Notification {
	return invitation.Notification{
		InvitationID:     uuid.New(),
		Email:            "cashier@goldenpadthai.co",
		InviterName:      "Somchai",
		InviterEmail:     "owner@goldenpadthai.co",
		OrganizationName: "Golden Pad Thai",
		Role:             "member",
		AcceptURL:        "http://localhost:5173/accept-invite?token=abc",
		ExpiresAt:        time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
	}
}

func TestEmailService_SendInvitation(t *testing.T) {
	svc, sent := newTestService(EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "mailer",
		Password: "secret",
		From:     "NexusPoint <no-reply@nexuspoint.local>",
	})

	require.NoError(t, svc.SendInvitation(context.Background(), testNotification()))
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", m.addr)
	assert.NotNil(t, m.auth)
	assert.Equal(t, "no-reply@nexuspoint.local", m.from)
	assert.Equal(t, []string{"cashier@goldenpadthai.co"}, m.to)
	assert.Contains(t, m.msg, "Subject: Somchai invited you to join Golden Pad Thai\r\n")
	assert.Contains(t, m.msg, "as member")
	assert.Contains(t, m.msg, "expire in 7 days (Mar 8, 2026)")
	assert.Contains(t, m.msg, `href="http://localhost:5173/accept-invite?token=abc"`)
}

func TestEmailService_SendInvitation_Resent(t *testing.T) {
	svc, sent := newTestService(EmailConfig{Host: "localhost", Port: 25, From: "no-reply@nexuspoint.local"})

	n := testNotification()
	n.Resent = true
	require.NoError(t, svc.SendInvitation(context.Background(), n))
	require.Len(t, *sent, 1)
	assert.Nil(t, (*sent)[0].auth, "no auth without a user")
	assert.Contains(t, (*sent)[0].msg, "Subject: Reminder: Somchai invited you")
}

func TestEmailService_SendInvitation_EscapesNames(t *testing.T) {
	svc, sent := newTestService(EmailConfig{Host: "localhost", Port: 25, From: "no-reply@nexuspoint.local"})

	n := testNotification()
	n.OrganizationName = "<script>alert(1)</script>"
	require.NoError(t, svc.NotifyInvitation(context.Background(), n))
	require.Len(t, *sent, 1)

	body := (*sent)[0].msg[strings.Index((*sent)[0].msg, "\r\n\r\n"):]
	assert.NotContains(t, body, "<script>")
}

func TestEmailService_SendInvitation_Errors(t *testing.T) {
	svc, sent := newTestService(EmailConfig{Host: "localhost", Port: 25, From: "not an address"})
	assert.Error(t, svc.SendInvitation(context.Background(), testNotification()))
	assert.Empty(t, *sent)

	svc, _ = newTestService(EmailConfig{Host: "localhost", Port: 25, From: "no-reply@nexuspoint.local"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.SendInvitation(ctx, testNotification()), context.Canceled)

	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }
	assert.EqualError(t, svc.SendInvitation(context.Background(), testNotification()), "connection refused")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, notifier.NotifyInvitation(context.Background(), testNotification()))
	assert.Contains(t, buf.String(), "accept_url=")
	assert.Contains(t, buf.String(), "cashier@goldenpadthai.co")
}
