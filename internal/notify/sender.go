package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Email kinds, used for logs and metrics labels.
const (
	KindOrderConfirmation = "order_confirmation"
	KindAdminAlert        = "admin_alert"
	KindStatusUpdate      = "status_update"
	KindPasswordReset     = "password_reset"
)

// Email is one outbound message. It is also the queue payload.
type Email struct {
	Kind    string `json:"kind"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers an email. Implementations may deliver later (queue).
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SMTPSender delivers mail synchronously through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return errors.New("email has no recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", email.Kind, email.To, err)
	}
	return nil
}

// Publisher is the part of the AMQP client the queue sender needs.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, v interface{}) error
}

// EmailQueue is the durable queue emails are published to.
const EmailQueue = "email_queue"

// QueueSender hands emails to RabbitMQ; the Dispatcher delivers them.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(ctx context.Context, email Email) error {
	if err := s.pub.PublishJSON(ctx, EmailQueue, email); err != nil {
		return fmt.Errorf("failed to enqueue %s email: %w", email.Kind, err)
	}
	return nil
}

// LogSender only logs. Used in development and when no transport is set up.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email Email) error {
	log.Info().
		Str("kind", email.Kind).
		Str("to", email.To).
		Str("subject", email.Subject).
		Msg("email not sent (log transport)")
	return nil
}
