package repository

import (
	"context"
	"time"

	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

var _ shared.NotificationRepository = (*NotificationRepository)(nil)

// The (booking_id, topic) unique index makes enqueueing idempotent: a
// booking gets at most one job per topic no matter how often a flow runs.
const createNotificationJobSQL = `
INSERT INTO notification_jobs (id, kind, topic, booking_id, payload, run_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', now(), now())
ON CONFLICT (booking_id, topic) DO NOTHING`

func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, bookingID uuid.UUID, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx, createNotificationJobSQL,
		pgconv.UUIDToPgtype(uuid.New()),
		kind,
		topic,
		pgconv.UUIDToPgtype(bookingID),
		payload,
		pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

// Claiming is a single statement so the implicit transaction plus
// FOR UPDATE SKIP LOCKED lets concurrent dispatchers share the queue
// without double delivery.
const claimPendingJobsSQL = `
WITH due AS (
    SELECT id FROM notification_jobs
    WHERE status = 'pending' AND run_at <= $2
    ORDER BY run_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
UPDATE notification_jobs j
SET status = 'processing', attempts = j.attempts + 1, updated_at = $2
FROM due
WHERE j.id = due.id
RETURNING j.id, j.kind, j.topic, j.booking_id, j.payload, j.attempts`

func (r *NotificationRepository) ClaimPending(ctx context.Context, dbtx db.DBTX, limit int, now time.Time) ([]shared.NotificationJob, error) {
	rows, err := dbtx.Query(ctx, claimPendingJobsSQL, limit, pgconv.TimeToPgtype(now))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	jobs := make([]shared.NotificationJob, 0, limit)
	for rows.Next() {
		var job shared.NotificationJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.BookingID, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}
	return jobs, nil
}

const markJobSentSQL = `
UPDATE notification_jobs
SET status = 'sent', updated_at = $2
WHERE id = $1`

func (r *NotificationRepository) MarkSent(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) error {
	if _, err := dbtx.Exec(ctx, markJobSentSQL, pgconv.UUIDToPgtype(id), pgconv.TimeToPgtype(now)); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

// Failed jobs go back to pending for the next poll until the attempt cap,
// after which they park as failed with the last error recorded.
const markJobFailedSQL = `
UPDATE notification_jobs
SET status = CASE WHEN attempts >= 5 THEN 'failed' ELSE 'pending' END,
    last_error = $2,
    updated_at = $3
WHERE id = $1`

func (r *NotificationRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID, reason string, now time.Time) error {
	if _, err := dbtx.Exec(ctx, markJobFailedSQL, pgconv.UUIDToPgtype(id), reason, pgconv.TimeToPgtype(now)); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}

// Reminder scanning is driven off the bookings table rather than a schedule:
// any approved booking whose pickup (or return) falls inside the window and
// which has no job for the matching topic yet is due. The anti-join plus the
// unique index keep the scanner idempotent across runs.
const findDueRemindersSQL = `
SELECT b.id,
       r.topic,
       u.email,
       u.first_name || ' ' || u.last_name,
       v.make,
       v.model,
       b.pickup_at,
       b.return_at
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN vehicles v ON v.id = b.vehicle_id
CROSS JOIN LATERAL (
    VALUES ('pickup_reminder', b.pickup_at), ('return_reminder', b.return_at)
) AS r(topic, due_at)
WHERE b.status = 'approved'
  AND r.due_at >= $1
  AND r.due_at < $1 + $2
  AND NOT EXISTS (
      SELECT 1 FROM notification_jobs j
      WHERE j.booking_id = b.id AND j.topic = r.topic
  )
ORDER BY r.due_at`

func (r *NotificationRepository) FindDueReminders(ctx context.Context, dbtx db.DBTX, now time.Time, window time.Duration) ([]shared.ReminderCandidate, error) {
	rows, err := dbtx.Query(ctx, findDueRemindersSQL, pgconv.TimeToPgtype(now), window)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find due reminders", err)
	}
	defer rows.Close()

	var candidates []shared.ReminderCandidate
	for rows.Next() {
		var c shared.ReminderCandidate
		if err := rows.Scan(
			&c.BookingID, &c.Topic, &c.UserEmail, &c.UserName,
			&c.VehicleMake, &c.VehicleModel, &c.PickupAt, &c.ReturnAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reminder candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reminder candidates", err)
	}
	return candidates, nil
}
