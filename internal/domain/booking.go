package domain

import (
	"time"

	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// BookingStatus represents the job lifecycle status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// RequestStatus represents the provider's answer to a booking request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// PaymentStatus represents where the booking's money currently is
type PaymentStatus string

const (
	PaymentUnpaid             PaymentStatus = "unpaid"
	PaymentPaidToEscrow       PaymentStatus = "paid_to_escrow"
	PaymentReleasedToProvider PaymentStatus = "released_to_provider"
	PaymentRefunded           PaymentStatus = "refunded"
)

// JobSize is the declared scale of the requested job
type JobSize string

const (
	JobSizeSmall  JobSize = "small"
	JobSizeMedium JobSize = "medium"
	JobSizeLarge  JobSize = "large"
)

// PartyRole identifies which side of a booking a caller is on
type PartyRole string

const (
	RoleCustomer PartyRole = "customer"
	RoleProvider PartyRole = "provider"
)

// Booking is the central aggregate of the dispatch engine.
//
// The status / requestStatus / paymentStatus triad is mutated only through
// the transition methods below, never field by field. That keeps the three
// fields mutually consistent: an illegal combination cannot be produced by
// any code path that goes through the methods.
type Booking struct {
	ID            int64
	ReferenceCode string

	CustomerID int64
	ProviderID int64
	ServiceID  int64

	Status        BookingStatus
	RequestStatus RequestStatus
	PaymentStatus PaymentStatus

	ScheduledAt              time.Time
	EstimatedDurationMinutes int
	JobSize                  JobSize

	// Pricing snapshot, captured at creation and never recomputed
	BasePrice          float64
	JobSizeMultiplier  float64
	LocationMultiplier float64
	CalculatedPrice    float64

	// Job site
	JobLocation geo.Coordinates
	JobAddress  *string

	// Live tracking / proximity gate
	CustomerLocation *geo.Coordinates
	ProviderLocation *geo.Coordinates
	FirstProximityAt *time.Time
	CanStartJob      bool

	ProviderAcceptedAt *time.Time
	ProviderDeclinedAt *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time

	DeclineReason      *string
	CancellationReason *string
	CancelledBy        *PartyRole

	ActualDurationMinutes *int
	SLABreached           bool
	SLAPenaltyAmount      float64
	ProviderPayoutAmount  float64

	// Ratings, one per direction, recorded after completion
	RatingByCustomer *int
	ReviewByCustomer *string
	RatingByProvider *int
	ReviewByProvider *string

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further lifecycle transition is defined
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsActive returns true if the booking still occupies its provider
func (b *Booking) IsActive() bool {
	return !b.IsTerminal()
}

// CanBeCancelled returns true if either party may cancel through the
// normal client action. Once in progress only an administrative override
// may cancel.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsParty returns the role of userID on this booking, or false if the
// user is neither the customer nor the assigned provider.
func (b *Booking) IsParty(userID int64) (PartyRole, bool) {
	switch userID {
	case b.CustomerID:
		return RoleCustomer, true
	case b.ProviderID:
		return RoleProvider, true
	default:
		return "", false
	}
}

// Accept resolves the request phase positively and confirms the booking.
// Returns ErrRequestNotPending if the request phase is already resolved.
func (b *Booking) Accept(now time.Time) error {
	if b.RequestStatus != RequestPending {
		return ErrRequestNotPending
	}
	if b.Status != StatusPending {
		return ErrIllegalTransition
	}
	b.RequestStatus = RequestAccepted
	b.Status = StatusConfirmed
	b.ProviderAcceptedAt = &now
	return nil
}

// Decline resolves the request phase negatively and cancels the booking.
func (b *Booking) Decline(reason string, now time.Time) error {
	if b.RequestStatus != RequestPending {
		return ErrRequestNotPending
	}
	b.RequestStatus = RequestDeclined
	b.Status = StatusCancelled
	b.DeclineReason = &reason
	b.ProviderDeclinedAt = &now
	b.CancelledAt = &now
	return nil
}

// MarkPaidToEscrow records that the customer's funds were captured.
// Payment cannot precede acceptance.
func (b *Booking) MarkPaidToEscrow() error {
	if b.IsTerminal() {
		return ErrIllegalTransition
	}
	if b.RequestStatus != RequestAccepted {
		return ErrNotAccepted
	}
	if b.PaymentStatus != PaymentUnpaid {
		return ErrAlreadyPaid
	}
	b.PaymentStatus = PaymentPaidToEscrow
	return nil
}

// Start transitions the job to in_progress. The proximity gate must have
// been satisfied first.
func (b *Booking) Start(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrNotConfirmed
	}
	if !b.CanStartJob {
		return ErrProximityGateNotSatisfied
	}
	b.Status = StatusInProgress
	b.StartedAt = &now
	return nil
}

// Complete stamps completion, computes the actual duration and evaluates
// the SLA policy against the estimated duration.
func (b *Booking) Complete(now time.Time, sla SLAPolicy) error {
	if b.Status != StatusInProgress {
		return ErrNotInProgress
	}
	if b.StartedAt == nil || now.Before(*b.StartedAt) {
		return ErrIllegalTransition
	}
	actual := int(now.Sub(*b.StartedAt).Minutes())
	b.Status = StatusCompleted
	b.CompletedAt = &now
	b.ActualDurationMinutes = &actual
	b.SLABreached = sla.IsBreached(b.EstimatedDurationMinutes, actual)
	return nil
}

// Cancel transitions to cancelled. Regular parties may cancel while the
// booking is pending or confirmed; adminOverride additionally allows
// cancelling an in-progress job.
func (b *Booking) Cancel(by PartyRole, reason string, adminOverride bool, now time.Time) error {
	if b.IsTerminal() {
		return ErrIllegalTransition
	}
	if !b.CanBeCancelled() && !adminOverride {
		return ErrCannotCancel
	}
	b.Status = StatusCancelled
	b.CancellationReason = &reason
	b.CancelledBy = &by
	b.CancelledAt = &now
	return nil
}

// Rate records a 1-5 rating with optional review for the given direction.
// Both directions are independent; re-rating the same direction is rejected.
func (b *Booking) Rate(by PartyRole, rating int, review *string) error {
	if b.Status != StatusCompleted {
		return ErrNotCompleted
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	switch by {
	case RoleCustomer:
		if b.RatingByCustomer != nil {
			return ErrAlreadyRated
		}
		b.RatingByCustomer = &rating
		b.ReviewByCustomer = review
	case RoleProvider:
		if b.RatingByProvider != nil {
			return ErrAlreadyRated
		}
		b.RatingByProvider = &rating
		b.ReviewByProvider = review
	default:
		return ErrInvalidRating
	}
	return nil
}

// MarkReleased records the escrow release outcome on the booking.
func (b *Booking) MarkReleased(penalty, payout float64) error {
	if b.PaymentStatus != PaymentPaidToEscrow {
		return ErrNotPaid
	}
	b.PaymentStatus = PaymentReleasedToProvider
	b.SLAPenaltyAmount = penalty
	b.ProviderPayoutAmount = payout
	return nil
}

// MarkRefunded records the escrow refund outcome on the booking.
func (b *Booking) MarkRefunded() error {
	if b.PaymentStatus != PaymentPaidToEscrow {
		return ErrNotPaid
	}
	b.PaymentStatus = PaymentRefunded
	return nil
}
