package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingBooking() *Booking {
	return &Booking{
		ID:                       1,
		ReferenceCode:            "BK-TEST0001",
		CustomerID:               10,
		ProviderID:               20,
		ServiceID:                30,
		Status:                   StatusPending,
		RequestStatus:            RequestPending,
		PaymentStatus:            PaymentUnpaid,
		EstimatedDurationMinutes: 60,
	}
}

func TestBooking_Accept(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("pending request becomes accepted and confirmed", func(t *testing.T) {
		b := newPendingBooking()

		err := b.Accept(now)

		require.NoError(t, err)
		assert.Equal(t, RequestAccepted, b.RequestStatus)
		assert.Equal(t, StatusConfirmed, b.Status)
		require.NotNil(t, b.ProviderAcceptedAt)
		assert.Equal(t, now, *b.ProviderAcceptedAt)
	})

	t.Run("second accept is rejected and keeps the original timestamp", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))

		err := b.Accept(now.Add(time.Minute))

		assert.ErrorIs(t, err, ErrRequestNotPending)
		assert.Equal(t, now, *b.ProviderAcceptedAt)
	})

	t.Run("accept after decline is rejected", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Decline("busy", now))

		err := b.Accept(now)

		assert.ErrorIs(t, err, ErrRequestNotPending)
		assert.Equal(t, RequestDeclined, b.RequestStatus)
		assert.Equal(t, StatusCancelled, b.Status)
	})
}

func TestBooking_Decline(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	b := newPendingBooking()
	err := b.Decline("fully booked", now)

	require.NoError(t, err)
	assert.Equal(t, RequestDeclined, b.RequestStatus)
	assert.Equal(t, StatusCancelled, b.Status)
	require.NotNil(t, b.DeclineReason)
	assert.Equal(t, "fully booked", *b.DeclineReason)
	assert.NotNil(t, b.ProviderDeclinedAt)
	assert.NotNil(t, b.CancelledAt)

	// Отклонить можно ровно один раз
	assert.ErrorIs(t, b.Decline("again", now), ErrRequestNotPending)
}

func TestBooking_MarkPaidToEscrow(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("payment before acceptance is rejected", func(t *testing.T) {
		b := newPendingBooking()

		assert.ErrorIs(t, b.MarkPaidToEscrow(), ErrNotAccepted)
		assert.Equal(t, PaymentUnpaid, b.PaymentStatus)
	})

	t.Run("payment after acceptance succeeds once", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))

		require.NoError(t, b.MarkPaidToEscrow())
		assert.Equal(t, PaymentPaidToEscrow, b.PaymentStatus)

		// Дублирующий callback оплаты
		assert.ErrorIs(t, b.MarkPaidToEscrow(), ErrAlreadyPaid)
	})

	t.Run("payment on cancelled booking is rejected", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))
		require.NoError(t, b.Cancel(RoleCustomer, "changed plans", false, now))

		assert.ErrorIs(t, b.MarkPaidToEscrow(), ErrIllegalTransition)
	})
}

func TestBooking_Start(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("start without proximity gate is rejected", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))

		assert.ErrorIs(t, b.Start(now), ErrProximityGateNotSatisfied)
		assert.Equal(t, StatusConfirmed, b.Status)
	})

	t.Run("start with satisfied gate succeeds", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))
		b.CanStartJob = true

		require.NoError(t, b.Start(now))
		assert.Equal(t, StatusInProgress, b.Status)
		require.NotNil(t, b.StartedAt)
		assert.Equal(t, now, *b.StartedAt)
	})

	t.Run("start before confirmation is rejected", func(t *testing.T) {
		b := newPendingBooking()
		b.CanStartJob = true

		assert.ErrorIs(t, b.Start(now), ErrNotConfirmed)
	})
}

func TestBooking_Complete(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sla := SLAPolicy{ToleranceFraction: 0.25, PenaltyRate: 0.5, MaxPenaltyFraction: 0.5}

	start := func(t *testing.T) *Booking {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))
		b.CanStartJob = true
		require.NoError(t, b.Start(now))
		return b
	}

	t.Run("completion within tolerance does not breach", func(t *testing.T) {
		b := start(t)

		// 70 минут при оценке 60 и допуске 25%
		require.NoError(t, b.Complete(now.Add(70*time.Minute), sla))

		assert.Equal(t, StatusCompleted, b.Status)
		require.NotNil(t, b.ActualDurationMinutes)
		assert.Equal(t, 70, *b.ActualDurationMinutes)
		assert.False(t, b.SLABreached)
	})

	t.Run("completion beyond tolerance breaches", func(t *testing.T) {
		b := start(t)

		require.NoError(t, b.Complete(now.Add(120*time.Minute), sla))

		assert.True(t, b.SLABreached)
	})

	t.Run("completion before start is rejected", func(t *testing.T) {
		b := start(t)

		assert.ErrorIs(t, b.Complete(now.Add(-time.Minute), sla), ErrIllegalTransition)
	})

	t.Run("double completion is rejected", func(t *testing.T) {
		b := start(t)
		require.NoError(t, b.Complete(now.Add(time.Hour), sla))

		assert.ErrorIs(t, b.Complete(now.Add(2*time.Hour), sla), ErrNotInProgress)
	})
}

func TestBooking_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("customer cancels pending booking", func(t *testing.T) {
		b := newPendingBooking()

		require.NoError(t, b.Cancel(RoleCustomer, "changed plans", false, now))

		assert.Equal(t, StatusCancelled, b.Status)
		require.NotNil(t, b.CancelledBy)
		assert.Equal(t, RoleCustomer, *b.CancelledBy)
	})

	t.Run("in-progress booking needs admin override", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))
		b.CanStartJob = true
		require.NoError(t, b.Start(now))

		assert.ErrorIs(t, b.Cancel(RoleProvider, "emergency", false, now), ErrCannotCancel)
		require.NoError(t, b.Cancel(RoleProvider, "emergency", true, now))
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("cancelling a terminal booking is rejected", func(t *testing.T) {
		b := newPendingBooking()
		require.NoError(t, b.Cancel(RoleCustomer, "first", false, now))

		assert.ErrorIs(t, b.Cancel(RoleCustomer, "second", false, now), ErrIllegalTransition)
	})
}

func TestBooking_Rate(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sla := SLAPolicy{}

	completed := func(t *testing.T) *Booking {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))
		b.CanStartJob = true
		require.NoError(t, b.Start(now))
		require.NoError(t, b.Complete(now.Add(time.Hour), sla))
		return b
	}

	t.Run("both directions are independent", func(t *testing.T) {
		b := completed(t)
		review := "great work"

		require.NoError(t, b.Rate(RoleCustomer, 5, &review))
		require.NoError(t, b.Rate(RoleProvider, 4, nil))

		require.NotNil(t, b.RatingByCustomer)
		assert.Equal(t, 5, *b.RatingByCustomer)
		require.NotNil(t, b.RatingByProvider)
		assert.Equal(t, 4, *b.RatingByProvider)
	})

	t.Run("re-rating the same direction is rejected", func(t *testing.T) {
		b := completed(t)
		require.NoError(t, b.Rate(RoleCustomer, 5, nil))

		assert.ErrorIs(t, b.Rate(RoleCustomer, 3, nil), ErrAlreadyRated)
		assert.Equal(t, 5, *b.RatingByCustomer)
	})

	t.Run("rating outside 1..5 is rejected", func(t *testing.T) {
		b := completed(t)

		assert.ErrorIs(t, b.Rate(RoleCustomer, 0, nil), ErrInvalidRating)
		assert.ErrorIs(t, b.Rate(RoleCustomer, 6, nil), ErrInvalidRating)
	})

	t.Run("rating before completion is rejected", func(t *testing.T) {
		b := newPendingBooking()

		assert.ErrorIs(t, b.Rate(RoleCustomer, 5, nil), ErrNotCompleted)
	})
}

func TestBooking_Settlement(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	paid := func(t *testing.T) *Booking {
		b := newPendingBooking()
		require.NoError(t, b.Accept(now))
		require.NoError(t, b.MarkPaidToEscrow())
		return b
	}

	t.Run("release records penalty and payout", func(t *testing.T) {
		b := paid(t)

		require.NoError(t, b.MarkReleased(50, 800))

		assert.Equal(t, PaymentReleasedToProvider, b.PaymentStatus)
		assert.Equal(t, 50.0, b.SLAPenaltyAmount)
		assert.Equal(t, 800.0, b.ProviderPayoutAmount)

		// Рассчитанный платеж нельзя рассчитать повторно
		assert.ErrorIs(t, b.MarkReleased(0, 0), ErrNotPaid)
		assert.ErrorIs(t, b.MarkRefunded(), ErrNotPaid)
	})

	t.Run("refund is terminal", func(t *testing.T) {
		b := paid(t)

		require.NoError(t, b.MarkRefunded())

		assert.Equal(t, PaymentRefunded, b.PaymentStatus)
		assert.ErrorIs(t, b.MarkReleased(0, 0), ErrNotPaid)
	})

	t.Run("settlement without escrow is rejected", func(t *testing.T) {
		b := newPendingBooking()

		assert.ErrorIs(t, b.MarkReleased(0, 0), ErrNotPaid)
		assert.ErrorIs(t, b.MarkRefunded(), ErrNotPaid)
	})
}

func TestBooking_IsParty(t *testing.T) {
	b := newPendingBooking()

	role, ok := b.IsParty(10)
	assert.True(t, ok)
	assert.Equal(t, RoleCustomer, role)

	role, ok = b.IsParty(20)
	assert.True(t, ok)
	assert.Equal(t, RoleProvider, role)

	_, ok = b.IsParty(99)
	assert.False(t, ok)
}
