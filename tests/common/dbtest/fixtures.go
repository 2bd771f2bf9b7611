//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, first_name, last_name, role) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (email) DO NOTHING",
		userID, email, "Test", "User", role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestVehicle(t *testing.T, db DBLike, vehicleMake, model string, dailyRate decimal.Decimal, status string) uuid.UUID {
	t.Helper()

	vehicleID := uuid.New()
	plate := "E2E-" + strings.ToUpper(strings.ReplaceAll(vehicleID.String(), "-", "")[:8])

	_, err := db.Exec(context.Background(),
		"INSERT INTO vehicles (id, make, model, year, license_plate, daily_rate, status) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		vehicleID, vehicleMake, model, 2023, plate, dailyRate, status)
	require.NoError(t, err)

	return vehicleID
}

func GetBookingRow(t *testing.T, db DBLike, bookingID uuid.UUID) (status, paymentStatus string) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT status, payment_status FROM bookings WHERE id = $1", bookingID).
		Scan(&status, &paymentStatus)
	require.NoError(t, err)
	return status, paymentStatus
}

func GetVehicleStatus(t *testing.T, db DBLike, vehicleID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM vehicles WHERE id = $1", vehicleID).Scan(&status)
	require.NoError(t, err)
	return status
}

func CountNotificationJobs(t *testing.T, db DBLike, bookingID uuid.UUID, topic string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE booking_id = $1 AND topic = $2",
		bookingID, topic).Scan(&count)
	require.NoError(t, err)
	return count
}

// WaitForNotificationStatus polls the outbox until the job for (bookingID, topic)
// reaches the wanted status or the deadline expires. The dispatcher runs on its
// own goroutine in e2e, so delivery is asynchronous.
func WaitForNotificationStatus(t *testing.T, db DBLike, bookingID uuid.UUID, topic, want string, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var status string
		err := db.QueryRow(context.Background(),
			"SELECT status FROM notification_jobs WHERE booking_id = $1 AND topic = $2",
			bookingID, topic).Scan(&status)
		if err == nil && status == want {
			return true
		}
		time.Sleep(25 * time.Millisecond)
	}
	return false
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between sub-tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
