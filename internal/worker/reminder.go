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

// How far ahead of pickup or return a reminder is enqueued.
const reminderLeadTime = 24 * time.Hour

// ReminderScanner periodically sweeps approved bookings and enqueues pickup
// and return reminders a day ahead. The outbox's per-topic uniqueness makes
// repeated sweeps harmless.
type ReminderScanner struct {
	pool     *pgxpool.Pool
	repo     shared.NotificationRepository
	clock    clock.Clock
	interval time.Duration
}

func NewReminderScanner(pool *pgxpool.Pool, repo shared.NotificationRepository, clk clock.Clock, cfg config.WorkerConfig) *ReminderScanner {
	return &ReminderScanner{
		pool:     pool,
		repo:     repo,
		clock:    clk,
		interval: cfg.ReminderInterval,
	}
}

func (s *ReminderScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("reminder scanner started", "interval", s.interval, "lead_time", reminderLeadTime)
	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scanner stopped")
			return
		case <-ticker.C:
			if err := s.ScanOnce(ctx); err != nil {
				slog.Error("reminder scan failed", "error", err.Error())
			}
		}
	}
}

// ScanOnce enqueues one reminder job per due booking and topic.
func (s *ReminderScanner) ScanOnce(ctx context.Context) error {
	now := s.clock.Now()
	candidates, err := s.repo.FindDueReminders(ctx, s.pool, now, reminderLeadTime)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		payload, err := json.Marshal(map[string]any{
			"booking_id":    c.BookingID,
			"user_email":    c.UserEmail,
			"user_name":     c.UserName,
			"vehicle_make":  c.VehicleMake,
			"vehicle_model": c.VehicleModel,
			"pickup_at":     c.PickupAt,
			"return_at":     c.ReturnAt,
		})
		if err != nil {
			return err
		}
		if err := s.repo.CreateJob(ctx, s.pool, "email", c.Topic, c.BookingID, payload, now); err != nil {
			return err
		}
	}
	if len(candidates) > 0 {
		slog.Info("reminders enqueued", "count", len(candidates))
	}
	return nil
}
