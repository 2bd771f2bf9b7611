package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"car-rental-backend/internal/pkg/clock"
	"car-rental-backend/internal/pkg/config"
	"car-rental-backend/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sender delivers a claimed notification job. Implementations are expected
// to be safe for at-least-once delivery.
type Sender interface {
	Send(ctx context.Context, job shared.NotificationJob) error
}

// LogSender writes notifications to the structured log. It stands in for a
// real mail provider; delivery integration is a deployment concern.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, job shared.NotificationJob) error {
	var payload map[string]any
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		payload = map[string]any{"raw": string(job.Payload)}
	}
	slog.Info("notification sent",
		"kind", job.Kind,
		"topic", job.Topic,
		"booking_id", job.BookingID,
		"payload", payload,
	)
	return nil
}

// Dispatcher polls the notification outbox and hands due jobs to the sender.
// Claiming uses row locks skipped by concurrent pollers, so running more
// than one dispatcher is safe.
type Dispatcher struct {
	pool     *pgxpool.Pool
	repo     shared.NotificationRepository
	sender   Sender
	clock    clock.Clock
	interval time.Duration
	batch    int
}

func NewDispatcher(pool *pgxpool.Pool, repo shared.NotificationRepository, sender Sender, clk clock.Clock, cfg config.WorkerConfig) *Dispatcher {
	return &Dispatcher{
		pool:     pool,
		repo:     repo,
		sender:   sender,
		clock:    clk,
		interval: cfg.DispatchInterval,
		batch:    cfg.DispatchBatch,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	slog.Info("notification dispatcher started", "interval", d.interval, "batch", d.batch)
	for {
		select {
		case <-ctx.Done():
			slog.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DispatchOnce(ctx); err != nil {
				slog.Error("notification dispatch cycle failed", "error", err.Error())
			}
		}
	}
}

// DispatchOnce claims one batch of due jobs and delivers them.
func (d *Dispatcher) DispatchOnce(ctx context.Context) error {
	now := d.clock.Now()
	jobs, err := d.repo.ClaimPending(ctx, d.pool, d.batch, now)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if err := d.sender.Send(ctx, job); err != nil {
			slog.Warn("notification delivery failed",
				"job_id", job.ID,
				"topic", job.Topic,
				"attempts", job.Attempts,
				"error", err.Error())
			if markErr := d.repo.MarkFailed(ctx, d.pool, job.ID, err.Error(), d.clock.Now()); markErr != nil {
				return markErr
			}
			continue
		}
		if err := d.repo.MarkSent(ctx, d.pool, job.ID, d.clock.Now()); err != nil {
			return err
		}
	}
	return nil
}
