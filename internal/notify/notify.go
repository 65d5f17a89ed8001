// Package notify composes alert digests and hands them to delivery senders.
//
// Delivery is best-effort: a sender failing is logged (and captured to
// Sentry when enabled) but never propagated, so a broken mail server or
// queue cannot abort the monitoring loop.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minerops/rigwatch/internal/observability"
	"github.com/minerops/rigwatch/pkg/types"
)

// Sender delivers a composed digest over one channel.
type Sender interface {
	// Name identifies the channel in logs ("smtp", "redis").
	Name() string
	Send(ctx context.Context, digest Digest) error
}

// Digest is one batch of alerts formatted for delivery.
type Digest struct {
	ID         string        `json:"id"`
	Subject    string        `json:"subject"`
	Body       string        `json:"body"`
	AlertCount int           `json:"alert_count"`
	ComposedAt time.Time     `json:"composed_at"`
	Alerts     []types.Alert `json:"alerts"`
}

// Compose builds a severity-tagged digest from a batch of alerts.
func Compose(alerts []types.Alert) Digest {
	var b strings.Builder
	b.WriteString("Miner Alert Report\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(string(a.Severity)), a.Message)
		fmt.Fprintf(&b, "Time: %s\n\n", a.Timestamp.Format(time.RFC3339))
	}

	return Digest{
		ID:         uuid.NewString(),
		Subject:    fmt.Sprintf("rigwatch alert - %d issues detected", len(alerts)),
		Body:       b.String(),
		AlertCount: len(alerts),
		ComposedAt: time.Now(),
		Alerts:     alerts,
	}
}

// Notifier fans a digest out to all configured senders.
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// New creates a notifier. A notifier with no senders is valid and does
// nothing.
func New(senders []Sender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		senders: senders,
		logger:  logger.With("component", "notifier"),
	}
}

// Notify composes and delivers a digest for the batch. It is a no-op when
// the batch is empty or no delivery channel is configured. Errors from
// individual senders are swallowed after logging.
func (n *Notifier) Notify(ctx context.Context, alerts []types.Alert) {
	if len(alerts) == 0 || len(n.senders) == 0 {
		return
	}

	digest := Compose(alerts)
	for _, sender := range n.senders {
		if err := sender.Send(ctx, digest); err != nil {
			n.logger.Error("failed to deliver alert digest",
				"channel", sender.Name(),
				"digest_id", digest.ID,
				"alerts", digest.AlertCount,
				"error", err)
			observability.CaptureError(err, map[string]string{"channel": sender.Name()}, nil)
			continue
		}
		n.logger.Info("alert digest delivered",
			"channel", sender.Name(),
			"digest_id", digest.ID,
			"alerts", digest.AlertCount)
	}
}
