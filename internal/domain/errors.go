package domain

import "errors"

// Transition guard errors. The services map these onto their own sentinel
// errors so handlers can distinguish precondition conflicts from validation
// failures.
var (
	// ErrRequestNotPending transition requires an unresolved request phase
	ErrRequestNotPending = errors.New("domain: request is not pending")

	// ErrNotAccepted transition requires an accepted request phase
	ErrNotAccepted = errors.New("domain: booking is not accepted")

	// ErrAlreadyPaid payment was already captured for this booking
	ErrAlreadyPaid = errors.New("domain: booking is already paid")

	// ErrNotPaid transition requires funds held in escrow
	ErrNotPaid = errors.New("domain: booking has no funds in escrow")

	// ErrNotConfirmed transition requires a confirmed booking
	ErrNotConfirmed = errors.New("domain: booking is not confirmed")

	// ErrNotInProgress transition requires an in-progress job
	ErrNotInProgress = errors.New("domain: job is not in progress")

	// ErrNotCompleted rating requires a completed job
	ErrNotCompleted = errors.New("domain: job is not completed")

	// ErrProximityGateNotSatisfied the dwell-time gate has not been passed
	ErrProximityGateNotSatisfied = errors.New("domain: proximity gate not satisfied")

	// ErrLocationNotTrackable live location is only tracked on active jobs
	ErrLocationNotTrackable = errors.New("domain: booking does not track live location")

	// ErrCannotCancel booking is past the point of normal cancellation
	ErrCannotCancel = errors.New("domain: booking cannot be cancelled")

	// ErrAlreadyRated this direction was already rated
	ErrAlreadyRated = errors.New("domain: booking already rated by this party")

	// ErrInvalidRating rating is outside the 1..5 range
	ErrInvalidRating = errors.New("domain: rating must be between 1 and 5")

	// ErrIllegalTransition catch-all for transitions from a terminal or
	// inconsistent state; should be unreachable through the guarded paths
	ErrIllegalTransition = errors.New("domain: illegal status transition")
)
