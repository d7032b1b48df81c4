package domain

import "time"

// EscrowStatus represents where the held funds currently are
type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// EscrowRecord holds captured customer funds against a booking.
// At most one record exists per booking. Release and refund are one-shot:
// a record that left the held state can never transition again.
type EscrowRecord struct {
	ID        int64
	BookingID int64

	Amount           float64
	CommissionRate   float64
	CommissionAmount float64
	NetPayoutAmount  float64

	Status EscrowStatus

	GatewayTransactionID string

	CreatedAt  time.Time
	ReleasedAt *time.Time
	RefundedAt *time.Time
}

// IsSettled returns true if the record reached a terminal settlement state
func (e *EscrowRecord) IsSettled() bool {
	return e.Status == EscrowReleased || e.Status == EscrowRefunded
}

// NewEscrowRecord computes the commission split for a captured amount.
// commissionAmount + netPayoutAmount always equals amount.
func NewEscrowRecord(bookingID int64, amount, commissionRate float64, gatewayTxID string) *EscrowRecord {
	commission := amount * commissionRate
	return &EscrowRecord{
		BookingID:            bookingID,
		Amount:               amount,
		CommissionRate:       commissionRate,
		CommissionAmount:     commission,
		NetPayoutAmount:      amount - commission,
		Status:               EscrowHeld,
		GatewayTransactionID: gatewayTxID,
	}
}
