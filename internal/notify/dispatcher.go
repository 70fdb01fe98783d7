// Package notify delivers outbound side effects: email fan-out through the
// Gmail API and calendar events for confirmed bookings. Everything here is
// best-effort; a failed delivery is logged and swallowed so that a committed
// state change is never rolled back over a notification.
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Mailer sends one message to one recipient.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, html string) error
}

// Dispatcher fans a message out to its recipients one by one, so a single
// bad address cannot sink the rest of the batch.
type Dispatcher struct {
	mailer Mailer
	log    *zap.Logger
}

func NewDispatcher(mailer Mailer, log *zap.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, log: log}
}

// Send delivers subject/html to each address. Recipients are deduplicated
// case-insensitively, keeping the first spelling seen.
func (d *Dispatcher) Send(ctx context.Context, to []string, subject, html string) {
	seen := make(map[string]bool, len(to))
	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := d.mailer.SendMail(ctx, addr, subject, html); err != nil {
			d.log.Warn("email delivery failed",
				zap.String("to", addr),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}
}
