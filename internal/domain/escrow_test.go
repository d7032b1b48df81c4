package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEscrowRecord_CommissionSplit(t *testing.T) {
	rec := NewEscrowRecord(42, 650, 0.15, "chrg_test_1")

	assert.Equal(t, int64(42), rec.BookingID)
	assert.Equal(t, EscrowHeld, rec.Status)
	assert.InDelta(t, 97.5, rec.CommissionAmount, 1e-9)
	assert.InDelta(t, 552.5, rec.NetPayoutAmount, 1e-9)

	// Комиссия и выплата всегда складываются ровно в захваченную сумму
	assert.InDelta(t, rec.Amount, rec.CommissionAmount+rec.NetPayoutAmount, 1e-9)
}

func TestEscrowRecord_IsSettled(t *testing.T) {
	rec := NewEscrowRecord(1, 100, 0.1, "chrg_test_2")
	assert.False(t, rec.IsSettled())

	rec.Status = EscrowReleased
	assert.True(t, rec.IsSettled())

	rec.Status = EscrowRefunded
	assert.True(t, rec.IsSettled())
}
