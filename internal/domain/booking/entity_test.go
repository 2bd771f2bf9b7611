//go:build unit

package booking_test

import (
	"testing"
	"time"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryNewBooking(t *testing.T) {
	t.Run("prices and assembles a requested booking", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, booking.StatusRequested, actual.Status())
		assert.Equal(t, booking.PaymentPending, actual.PaymentStatus())
		// 2 days at 50, no discounts.
		assert.Equal(t, "100.00", actual.Total().StringFixed(2))
		assert.Equal(t, b.UserID, actual.UserID())
		assert.False(t, actual.BookedAt().IsZero())
	})

	t.Run("pickup today is allowed", func(t *testing.T) {
		b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			// Later the same calendar day as Now.
			b.PickupAt = b.Now.Add(2 * time.Hour)
			b.ReturnAt = b.Now.Add(26 * time.Hour)
		})
		_, err := b.BuildDomain()
		assert.NoError(t, err)
	})

	t.Run("pickup before today is rejected", func(t *testing.T) {
		b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.PickupAt = b.Now.Add(-24 * time.Hour)
			b.ReturnAt = b.Now.Add(24 * time.Hour)
		})
		_, err := b.BuildDomain()
		assert.ErrorIs(t, err, booking.ErrPastPickup)
	})
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    booking.Status
		to      booking.Status
		allowed bool
	}{
		{booking.StatusRequested, booking.StatusApproved, true},
		{booking.StatusRequested, booking.StatusCancelled, true},
		{booking.StatusRequested, booking.StatusCompleted, true},
		{booking.StatusApproved, booking.StatusCancelled, true},
		{booking.StatusApproved, booking.StatusCompleted, true},
		{booking.StatusApproved, booking.StatusRequested, false},
		{booking.StatusCancelled, booking.StatusApproved, false},
		{booking.StatusCancelled, booking.StatusRequested, false},
		{booking.StatusCompleted, booking.StatusCancelled, false},
		{booking.StatusCompleted, booking.StatusApproved, false},
	}

	for _, tc := range cases {
		name := tc.from.String() + " to " + tc.to.String()
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, booking.CanTransition(tc.from, tc.to))
		})
	}

	t.Run("same state is always allowed", func(t *testing.T) {
		for _, s := range []booking.Status{
			booking.StatusRequested, booking.StatusApproved,
			booking.StatusCancelled, booking.StatusCompleted,
		} {
			assert.True(t, booking.CanTransition(s, s))
		}
	})
}

func TestApprove(t *testing.T) {
	t.Run("pay at pickup stays pending", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, b.Approve())
		assert.Equal(t, booking.StatusApproved, b.Status())
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
	})

	t.Run("pay now settles on approval", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.PaymentMethod = booking.PayNow
		}).BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, b.Approve())
		assert.Equal(t, booking.PaymentCompleted, b.PaymentStatus())
	})

	t.Run("cancelled booking cannot be approved", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusCancelled
		}).BuildReconstructed()
		require.NoError(t, err)

		assert.ErrorIs(t, b.Approve(), booking.ErrIllegalTransition)
	})
}

func TestCancel(t *testing.T) {
	t.Run("requested booking cancels with pending payment", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, b.Cancel())
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
	})

	t.Run("completed payment is refunded on cancel", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusApproved
			b.PaymentStatus = booking.PaymentCompleted
		}).BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, b.Cancel())
		assert.Equal(t, booking.PaymentRefunded, b.PaymentStatus())
	})

	t.Run("terminal bookings cannot cancel", func(t *testing.T) {
		for _, s := range []booking.Status{booking.StatusCancelled, booking.StatusCompleted} {
			b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
				b.Status = s
			}).BuildReconstructed()
			require.NoError(t, err)

			assert.ErrorIs(t, b.Cancel(), booking.ErrNotCancellable)
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("forces payment completed", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusApproved
		}).BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, b.Complete())
		assert.Equal(t, booking.StatusCompleted, b.Status())
		assert.Equal(t, booking.PaymentCompleted, b.PaymentStatus())
	})

	t.Run("cancelled booking cannot complete", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusCancelled
		}).BuildReconstructed()
		require.NoError(t, err)

		assert.ErrorIs(t, b.Complete(), booking.ErrIllegalTransition)
	})
}

func TestAssignStatus(t *testing.T) {
	t.Run("gated by the transition table", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusCompleted
		}).BuildReconstructed()
		require.NoError(t, err)

		assert.ErrorIs(t, b.AssignStatus(booking.StatusApproved), booking.ErrIllegalTransition)
	})

	t.Run("same state write is a no-op", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, b.AssignStatus(booking.StatusRequested))
		assert.Equal(t, booking.StatusRequested, b.Status())
	})
}

func TestExtendTo(t *testing.T) {
	t.Run("adds charge to the total and moves the return", func(t *testing.T) {
		bld := builder.NewBookingBuilder()
		b, err := bld.BuildReconstructed()
		require.NoError(t, err)

		newReturn := bld.ReturnAt.Add(48 * time.Hour)
		require.NoError(t, b.ExtendTo(newReturn, decimal.NewFromInt(64)))
		assert.Equal(t, "164.00", b.Total().StringFixed(2))
		assert.True(t, b.Period().ReturnAt().Equal(newReturn))
	})

	t.Run("terminal booking cannot extend", func(t *testing.T) {
		bld := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusCompleted
		})
		b, err := bld.BuildReconstructed()
		require.NoError(t, err)

		err = b.ExtendTo(bld.ReturnAt.Add(24*time.Hour), decimal.NewFromInt(50))
		assert.ErrorIs(t, err, booking.ErrNotExtendable)
	})

	t.Run("earlier return rejected", func(t *testing.T) {
		bld := builder.NewBookingBuilder()
		b, err := bld.BuildReconstructed()
		require.NoError(t, err)

		err = b.ExtendTo(bld.ReturnAt.Add(-time.Hour), decimal.Zero)
		assert.ErrorIs(t, err, booking.ErrReturnNotExtended)
	})
}
