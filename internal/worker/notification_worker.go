package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codigix/passion-clothing-sub009/internal/infra"
)

// NotificationWorker delivers workflow events to the notification sidecar and,
// when the payload carries a vendor email, mirrors the event by mail.
// Sidecar calls go through the circuit breaker so a downed sidecar fast-fails
// instead of pinning workers on timeouts.
type NotificationWorker struct {
	notify *infra.NotifyClient
	cb     *infra.CircuitBreaker
	mailer *infra.Mailer
}

func NewNotificationWorker(notify *infra.NotifyClient, cb *infra.CircuitBreaker, mailer *infra.Mailer) *NotificationWorker {
	return &NotificationWorker{notify: notify, cb: cb, mailer: mailer}
}

// Handle processes one notification job.
func (w *NotificationWorker) Handle(ctx context.Context, raw json.RawMessage) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// A malformed payload will never succeed; drop it rather than retry.
		log.Error().Err(err).Msg("notification: malformed payload, dropping")
		return nil
	}

	if err := w.cb.Execute(func() error {
		return w.notify.Publish(ctx, payload)
	}); err != nil {
		return fmt.Errorf("notification: publish: %w", err)
	}

	// Email mirror is opportunistic: log and move on when it fails, the
	// sidecar delivery above already succeeded.
	if email, ok := payload["vendor_email"].(string); ok && email != "" && w.mailer != nil {
		subject, _ := payload["event"].(string)
		body, _ := json.MarshalIndent(payload, "", "  ")
		if err := w.mailer.Send(email, subject, string(body), ""); err != nil {
			log.Warn().Err(err).Str("to", email).Msg("notification: email mirror failed")
		}
	}

	return nil
}
