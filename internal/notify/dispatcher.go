package notify

import (
	"context"
	"encoding/json"
	"time"

	"bookmyflower/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Consumer is the part of the AMQP client the dispatcher needs.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler func(body []byte) error) error
}

// Dispatcher drains the email queue into a delivering Sender.
type Dispatcher struct {
	sender     Sender
	timeout    time.Duration
	retryDelay time.Duration
}

func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	return &Dispatcher{sender: sender, timeout: timeout, retryDelay: 5 * time.Second}
}

// Run registers the consumer. Delivery happens in the consumer goroutine.
func (d *Dispatcher) Run(ctx context.Context, c Consumer) error {
	return c.Consume(ctx, EmailQueue, func(body []byte) error {
		return d.Handle(ctx, body)
	})
}

// Handle delivers one queued email. Undecodable payloads are dropped; delivery
// failures are returned after a short pause so the broker redelivers.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	var email Email
	if err := json.Unmarshal(body, &email); err != nil {
		log.Error().Err(err).Msg("dropping malformed email message")
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.sender.Send(sendCtx, email)
	metrics.NotificationResult(email.Kind, err)
	if err != nil {
		log.Warn().Err(err).Str("kind", email.Kind).Str("to", email.To).Msg("queued email delivery failed")
		select {
		case <-time.After(d.retryDelay):
		case <-ctx.Done():
		}
		return err
	}
	log.Debug().Str("kind", email.Kind).Str("to", email.To).Msg("queued email delivered")
	return nil
}
