package worker

// retry_cron.go
// Background goroutine that periodically redrives dead-lettered jobs back to
// their origin queue. Jobs typically land in the DLQ during a sidecar outage;
// once the circuit breaker reports recovery they deserve another pass.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/codigix/passion-clothing-sub009/internal/infra"
)

const (
	redriveTickInterval = 60 * time.Second
	redriveBatchSize    = 20
)

// StartRetryCron launches a goroutine that ticks every minute and, while the
// circuit breaker is closed, moves a bounded batch of DLQ entries back to
// their origin queues. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(redriveTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				redrive(ctx, rdb, cb)
			}
		}
	}()
}

func redrive(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	// If the breaker is open the sidecar is still down — redriving now would
	// just bounce the jobs straight back.
	if cb != nil && cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	for _, queue := range []string{QueueNotifications, QueueDocuments} {
		dlqKey := DLQPrefix + queue
		moved := 0
		for moved < redriveBatchSize {
			raw, err := rdb.RPop(ctx, dlqKey).Result()
			if err != nil {
				break // empty or unavailable
			}

			var entry DLQEntry
			if err := json.Unmarshal([]byte(raw), &entry); err != nil {
				log.Error().Err(err).Str("dlq", dlqKey).Msg("retry_cron: unreadable DLQ entry, dropping")
				continue
			}

			// Attempts reset to zero: the redrive is a fresh round, not a
			// continuation of the failed one.
			job := Job{Type: entry.JobType, Payload: entry.Payload}
			encoded, err := json.Marshal(job)
			if err != nil {
				continue
			}
			if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("retry_cron: redrive push failed")
				break
			}
			moved++
		}
		if moved > 0 {
			log.Info().Int("count", moved).Str("queue", queue).Msg("retry_cron: redrove DLQ entries")
		}
	}
}
