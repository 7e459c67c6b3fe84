package services

import (
	"context"
	"sync"
	"time"

	"bookmyflower/internal/metrics"
	"bookmyflower/internal/notify"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers emails in the background. Delivery outcomes are logged
// and counted; they never reach the operation that triggered them.
type Notifier struct {
	sender  notify.Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(sender notify.Sender, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Notifier{sender: sender, timeout: timeout}
}

// Dispatch sends every email concurrently and returns immediately.
func (n *Notifier) Dispatch(emails ...notify.Email) {
	if n == nil || n.sender == nil || len(emails) == 0 {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		// A plain Group: one failed email must not cancel the others.
		var g errgroup.Group
		for _, email := range emails {
			email := email
			g.Go(func() error {
				err := n.sender.Send(ctx, email)
				metrics.NotificationResult(email.Kind, err)
				if err != nil {
					log.Warn().Err(err).Str("kind", email.Kind).Str("to", email.To).Msg("notification failed")
					return err
				}
				log.Debug().Str("kind", email.Kind).Str("to", email.To).Msg("notification sent")
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Wait blocks until every dispatched email has been attempted.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}
